package validator

import (
	"fmt"
	"strings"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
)

// ItemValidator checks vocabulary rows at ingestion, before they reach the
// catalog. Rows come from workbook imports and are only as clean as the
// spreadsheet they were typed into.
type ItemValidator struct{}

func NewItemValidator() *ItemValidator {
	return &ItemValidator{}
}

// Validate normalizes the row in place and returns the first problem found.
func (v *ItemValidator) Validate(w *model.Word) error {
	w.Word = strings.TrimSpace(w.Word)
	w.Meaning = strings.TrimSpace(w.Meaning)

	if w.Word == "" {
		return fmt.Errorf("word is required")
	}
	if w.Meaning == "" {
		return fmt.Errorf("meaning is required for %q", w.Word)
	}
	if w.Level < model.MinLevel || w.Level > model.MaxLevel {
		return fmt.Errorf("level %d out of range for %q", w.Level, w.Word)
	}
	if w.Textbook == "" {
		return fmt.Errorf("textbook is required for %q", w.Word)
	}

	if w.PartOfSpeech != "" {
		pos, ok := model.NormalizePartOfSpeech(string(w.PartOfSpeech))
		if !ok {
			return fmt.Errorf("unknown part of speech %q for %q", w.PartOfSpeech, w.Word)
		}
		w.PartOfSpeech = pos
	}
	return nil
}
