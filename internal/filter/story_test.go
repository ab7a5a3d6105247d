package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMissingWords(t *testing.T) {
	story := "She carried the heavy box while running quickly. The decision was historically important."

	tests := []struct {
		name  string
		words []string
		want  []string
	}{
		{"exact match", []string{"heavy", "box"}, []string{}},
		{"inflected verb counts", []string{"carry", "run"}, []string{}},
		{"adverb form counts", []string{"quick"}, []string{}},
		{"absent word reported", []string{"perilous"}, []string{"perilous"}},
		{"mixed", []string{"carry", "perilous", "decision"}, []string{"perilous"}},
		{"case insensitive", []string{"SHE"}, []string{}},
		{"empty input", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MissingWords(story, tt.words))
		})
	}
}

func TestMissingWordsPunctuation(t *testing.T) {
	story := "\"Don't stop,\" she said. (It mattered.)"
	assert.Empty(t, MissingWords(story, []string{"stop", "matter", "don't"}))
}

func TestGenerateVariations(t *testing.T) {
	tests := []struct {
		word string
		has  []string
	}{
		{"stop", []string{"stop", "stops", "stopped", "stopping"}},
		{"make", []string{"make", "making", "maked"}},
		{"carry", []string{"carry", "carried", "carries", "carrier"}},
		{"happy", []string{"happy", "happily", "happier", "happiest"}},
		{"basic", []string{"basic", "basically"}},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			variations := generateVariations(tt.word)
			for _, v := range tt.has {
				assert.True(t, variations[v], "expected variation %q of %q", v, tt.word)
			}
		})
	}
}
