package filesystem

import (
	"encoding/json"
	"fmt"
	"os"

	"spanish-conjugation-bot/internal/domain/verb"
)

// VerbLoader handles loading the conjugation catalog from files
type VerbLoader struct{}

// NewVerbLoader creates a new verb loader
func NewVerbLoader() *VerbLoader {
	return &VerbLoader{}
}

// CatalogData represents the JSON structure of the verb catalog
type CatalogData struct {
	Verbs []VerbEntry `json:"verbs"`
}

// VerbEntry represents a single verb with its conjugation table
type VerbEntry struct {
	Infinitive   string             `json:"infinitive"`
	Translation  string             `json:"translation"`
	Conjugations []ConjugationEntry `json:"conjugations"`
}

// ConjugationEntry represents one form inside a verb's table
type ConjugationEntry struct {
	Tense  string `json:"tense"`
	Person string `json:"person"`
	Form   string `json:"form"`
}

// LoadFromFile loads the conjugation catalog from a JSON file
func (vl *VerbLoader) LoadFromFile(filename string) ([]*verb.Conjugation, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open verb catalog: %w", err)
	}
	defer file.Close()

	var data CatalogData
	if err := json.NewDecoder(file).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode verb catalog JSON: %w", err)
	}

	var conjugations []*verb.Conjugation
	for _, entry := range data.Verbs {
		if entry.Infinitive == "" {
			return nil, fmt.Errorf("verb entry with empty infinitive")
		}
		for _, c := range entry.Conjugations {
			if !verb.IsValidTense(c.Tense) {
				return nil, fmt.Errorf("verb %q: invalid tense: %s", entry.Infinitive, c.Tense)
			}
			if !verb.IsValidPerson(c.Person) {
				return nil, fmt.Errorf("verb %q: invalid person: %s", entry.Infinitive, c.Person)
			}
			if c.Form == "" {
				return nil, fmt.Errorf("verb %q: empty form for %s/%s", entry.Infinitive, c.Tense, c.Person)
			}

			conjugations = append(conjugations, verb.NewConjugation(
				entry.Infinitive,
				entry.Translation,
				verb.Tense(c.Tense),
				verb.Person(c.Person),
				c.Form,
			))
		}
	}

	return conjugations, nil
}
