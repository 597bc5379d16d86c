package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"spanish-conjugation-bot/internal/domain/verb"
)

// ImportConfig defines how a spreadsheet maps to catalog columns
type ImportConfig struct {
	FilePath          string // Path to the Excel file
	SheetName         string // Name of the sheet to import
	InfinitiveColumn  int    // 0-based column index with the infinitive
	TranslationColumn int    // Column with the translation
	TenseColumn       int    // Column with the tense
	PersonColumn      int    // Column with the person
	FormColumn        int    // Column with the conjugated form
	SkipHeader        bool   // Skip the first row
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig(filePath string) ImportConfig {
	return ImportConfig{
		FilePath:          filePath,
		SheetName:         "Sheet1",
		InfinitiveColumn:  0,
		TranslationColumn: 1,
		TenseColumn:       2,
		PersonColumn:      3,
		FormColumn:        4,
		SkipHeader:        true,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalRows int
	Imported  int
	Skipped   int
	Errors    []string
}

// ImportConjugations imports conjugations from a spreadsheet into the
// catalog repository. Rows that fail validation are reported in the
// result and skipped rather than aborting the import.
func ImportConjugations(ctx context.Context, config ImportConfig, repo verb.Repository) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", config.SheetName, err)
	}

	result := &ImportResult{}
	var batch []*verb.Conjugation

	start := 0
	if config.SkipHeader && len(rows) > 0 {
		start = 1
	}

	for i := start; i < len(rows); i++ {
		row := rows[i]
		result.TotalRows++

		conjugation, err := rowToConjugation(row, config)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}

		batch = append(batch, conjugation)
		result.Imported++
	}

	if len(batch) > 0 {
		if err := repo.SaveBatch(ctx, batch); err != nil {
			return nil, fmt.Errorf("failed to store imported conjugations: %w", err)
		}
	}

	return result, nil
}

func rowToConjugation(row []string, config ImportConfig) (*verb.Conjugation, error) {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	infinitive := cell(config.InfinitiveColumn)
	translation := cell(config.TranslationColumn)
	tense := strings.ToLower(cell(config.TenseColumn))
	person := strings.ToLower(cell(config.PersonColumn))
	form := cell(config.FormColumn)

	if infinitive == "" {
		return nil, fmt.Errorf("missing infinitive")
	}
	if form == "" {
		return nil, fmt.Errorf("missing conjugated form")
	}
	if !verb.IsValidTense(tense) {
		return nil, fmt.Errorf("unknown tense %q", tense)
	}
	if !verb.IsValidPerson(person) {
		return nil, fmt.Errorf("unknown person %q", person)
	}

	return verb.NewConjugation(infinitive, translation, verb.Tense(tense), verb.Person(person), form), nil
}
