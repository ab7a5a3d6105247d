package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sgtokt1221/tsukutan-app/internal/model"
	"github.com/sgtokt1221/tsukutan-app/internal/validator"
)

// WordWriter persists validated catalog rows.
type WordWriter interface {
	UpsertBatch(ctx context.Context, words []model.Word) error
}

// WorkbookResult holds the result of a vocabulary import.
type WorkbookResult struct {
	TotalProcessed int      `json:"totalProcessed"`
	Imported       int      `json:"imported"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors"`
}

// WorkbookImporter loads vocabulary from the textbook Excel workbook.
// Expected columns: A=word, B=meaning, C=level, D=part of speech,
// E=example, F=example translation. The first row is a header.
type WorkbookImporter struct {
	words     WordWriter
	validator *validator.ItemValidator
}

func NewWorkbookImporter(words WordWriter, v *validator.ItemValidator) *WorkbookImporter {
	return &WorkbookImporter{words: words, validator: v}
}

func (i *WorkbookImporter) Import(ctx context.Context, r io.Reader, textbook string) (*WorkbookResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	result := &WorkbookResult{Errors: []string{}}
	var batch []model.Word

	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		for rowNum, row := range rows {
			if rowNum == 0 {
				continue
			}
			result.TotalProcessed++

			word, err := parseWorkbookRow(row, textbook)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: %v", sheet, rowNum+1, err))
				continue
			}
			if err := i.validator.Validate(&word); err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("%s row %d: %v", sheet, rowNum+1, err))
				continue
			}
			batch = append(batch, word)
		}
	}

	if len(batch) > 0 {
		if err := i.words.UpsertBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("persist words: %w", err)
		}
	}
	result.Imported = len(batch)
	return result, nil
}

func parseWorkbookRow(row []string, textbook string) (model.Word, error) {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	levelStr := cell(2)
	level, err := strconv.Atoi(levelStr)
	if err != nil {
		return model.Word{}, fmt.Errorf("invalid level %q", levelStr)
	}

	return model.Word{
		Word:         cell(0),
		Meaning:      cell(1),
		Level:        level,
		PartOfSpeech: model.PartOfSpeech(cell(3)),
		Example:      cell(4),
		ExampleJa:    cell(5),
		Textbook:     textbook,
	}, nil
}
