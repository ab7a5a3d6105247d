package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

func validWord() model.Word {
	return model.Word{
		Word:     "perilous",
		Meaning:  "危険な",
		Level:    5,
		Textbook: "target1900",
	}
}

func TestValidate(t *testing.T) {
	v := NewItemValidator()

	t.Run("valid row passes", func(t *testing.T) {
		w := validWord()
		assert.NoError(t, v.Validate(&w))
	})

	t.Run("trims whitespace in place", func(t *testing.T) {
		w := validWord()
		w.Word = "  perilous "
		w.Meaning = " 危険な\t"
		assert.NoError(t, v.Validate(&w))
		assert.Equal(t, "perilous", w.Word)
		assert.Equal(t, "危険な", w.Meaning)
	})

	t.Run("normalizes the part of speech", func(t *testing.T) {
		w := validWord()
		w.PartOfSpeech = "形容詞"
		assert.NoError(t, v.Validate(&w))
		assert.Equal(t, model.POSAdjective, w.PartOfSpeech)
	})

	tests := []struct {
		name   string
		mutate func(*model.Word)
	}{
		{"empty word", func(w *model.Word) { w.Word = "  " }},
		{"empty meaning", func(w *model.Word) { w.Meaning = "" }},
		{"level too low", func(w *model.Word) { w.Level = 0 }},
		{"level too high", func(w *model.Word) { w.Level = 9 }},
		{"missing textbook", func(w *model.Word) { w.Textbook = "" }},
		{"bogus part of speech", func(w *model.Word) { w.PartOfSpeech = "verb" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := validWord()
			tt.mutate(&w)
			assert.Error(t, v.Validate(&w))
		})
	}
}
