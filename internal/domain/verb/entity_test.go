package verb

import (
	"errors"
	"testing"
)

func TestItemKeyRoundTrip(t *testing.T) {
	key := NewItemKey("hablar", TensePresent, PersonYo)
	if key != "hablar|present|yo" {
		t.Fatalf("key=%q", key)
	}

	infinitive, tense, person, err := ParseItemKey(key)
	if err != nil {
		t.Fatalf("ParseItemKey: %v", err)
	}
	if infinitive != "hablar" || tense != TensePresent || person != PersonYo {
		t.Errorf("parsed (%q, %q, %q)", infinitive, tense, person)
	}
}

func TestParseItemKeyRejectsMalformedKeys(t *testing.T) {
	tests := []struct {
		name string
		key  ItemKey
	}{
		{"empty", ""},
		{"no separators", "hablar"},
		{"two parts", "hablar|present"},
		{"four parts", "hablar|present|yo|extra"},
		{"blank infinitive", " |present|yo"},
		{"unknown tense", "hablar|pluperfect|yo"},
		{"unknown person", "hablar|present|usted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := ParseItemKey(tt.key); !errors.Is(err, ErrInvalidItemKey) {
				t.Errorf("ParseItemKey(%q): err=%v, want ErrInvalidItemKey", tt.key, err)
			}
		})
	}
}

func TestConjugationKeyAndDisplay(t *testing.T) {
	c := NewConjugation("hablar", "to speak", TensePresent, PersonEllos, "hablan")

	if c.Key() != "hablar|present|ellos" {
		t.Errorf("Key() = %q", c.Key())
	}
	if got, want := c.DisplayForm(), "hablar · present · ellos/ellas"; got != want {
		t.Errorf("DisplayForm() = %q, want %q", got, want)
	}
}

func TestPersonLabels(t *testing.T) {
	tests := []struct {
		person Person
		want   string
	}{
		{PersonYo, "yo"},
		{PersonTu, "tú"},
		{PersonEl, "él/ella"},
		{PersonEllos, "ellos/ellas"},
	}
	for _, tt := range tests {
		if got := tt.person.Label(); got != tt.want {
			t.Errorf("Label(%q) = %q, want %q", tt.person, got, tt.want)
		}
	}
}

func TestTenseAndPersonValidation(t *testing.T) {
	for _, tense := range []string{"present", "preterite", "imperfect", "future", "conditional"} {
		if !IsValidTense(tense) {
			t.Errorf("IsValidTense(%q) = false", tense)
		}
	}
	if IsValidTense("subjunctive") || IsValidTense("") {
		t.Error("IsValidTense accepted an unknown tense")
	}

	for _, person := range []string{"yo", "tu", "el", "nosotros", "vosotros", "ellos"} {
		if !IsValidPerson(person) {
			t.Errorf("IsValidPerson(%q) = false", person)
		}
	}
	if IsValidPerson("usted") || IsValidPerson("") {
		t.Error("IsValidPerson accepted an unknown person")
	}
}
