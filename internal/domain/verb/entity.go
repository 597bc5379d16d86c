package verb

import (
	"errors"
	"fmt"
	"strings"
)

// Conjugation is one drillable item: a verb form in a specific tense and
// grammatical person.
type Conjugation struct {
	id          ID
	infinitive  string
	translation string
	tense       Tense
	person      Person
	form        string
}

// ID represents the conjugation's unique identifier
type ID int64

// Tense represents a grammatical tense
type Tense string

const (
	TensePresent     Tense = "present"
	TensePreterite   Tense = "preterite"
	TenseImperfect   Tense = "imperfect"
	TenseFuture      Tense = "future"
	TenseConditional Tense = "conditional"
)

// Person represents a grammatical person
type Person string

const (
	PersonYo       Person = "yo"
	PersonTu       Person = "tu"
	PersonEl       Person = "el"
	PersonNosotros Person = "nosotros"
	PersonVosotros Person = "vosotros"
	PersonEllos    Person = "ellos"
)

// NewConjugation creates a new conjugation entry
func NewConjugation(infinitive, translation string, tense Tense, person Person, form string) *Conjugation {
	return &Conjugation{
		infinitive:  infinitive,
		translation: translation,
		tense:       tense,
		person:      person,
		form:        form,
	}
}

// Getters
func (c *Conjugation) ID() ID              { return c.id }
func (c *Conjugation) Infinitive() string  { return c.infinitive }
func (c *Conjugation) Translation() string { return c.translation }
func (c *Conjugation) Tense() Tense        { return c.tense }
func (c *Conjugation) Person() Person      { return c.person }
func (c *Conjugation) Form() string        { return c.form }

// SetID sets the conjugation ID (used by repository)
func (c *Conjugation) SetID(id ID) {
	c.id = id
}

// Key returns the item key identifying this conjugation
func (c *Conjugation) Key() ItemKey {
	return NewItemKey(c.infinitive, c.tense, c.person)
}

// DisplayForm renders the conjugation for due lists and prompts,
// e.g. "hablar · present · yo".
func (c *Conjugation) DisplayForm() string {
	return fmt.Sprintf("%s · %s · %s", c.infinitive, c.tense, c.person.Label())
}

// Label returns the pronoun shown to learners
func (p Person) Label() string {
	switch p {
	case PersonYo:
		return "yo"
	case PersonTu:
		return "tú"
	case PersonEl:
		return "él/ella"
	case PersonNosotros:
		return "nosotros"
	case PersonVosotros:
		return "vosotros"
	case PersonEllos:
		return "ellos/ellas"
	default:
		return string(p)
	}
}

// IsValidTense checks if a tense is valid
func IsValidTense(tense string) bool {
	switch Tense(tense) {
	case TensePresent, TensePreterite, TenseImperfect, TenseFuture, TenseConditional:
		return true
	default:
		return false
	}
}

// IsValidPerson checks if a person is valid
func IsValidPerson(person string) bool {
	switch Person(person) {
	case PersonYo, PersonTu, PersonEl, PersonNosotros, PersonVosotros, PersonEllos:
		return true
	default:
		return false
	}
}

// ItemKey is the stable composite identity of a conjugation:
// infinitive, tense and person joined by "|".
type ItemKey string

// ErrInvalidItemKey is returned for keys that do not parse into a known
// (infinitive, tense, person) triple.
var ErrInvalidItemKey = errors.New("verb: invalid item key")

// NewItemKey builds the composite key for an (infinitive, tense, person) triple
func NewItemKey(infinitive string, tense Tense, person Person) ItemKey {
	return ItemKey(infinitive + "|" + string(tense) + "|" + string(person))
}

// ParseItemKey splits and validates an item key
func ParseItemKey(key ItemKey) (infinitive string, tense Tense, person Person, err error) {
	parts := strings.Split(string(key), "|")
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("%w: %q", ErrInvalidItemKey, key)
	}
	if strings.TrimSpace(parts[0]) == "" {
		return "", "", "", fmt.Errorf("%w: empty infinitive in %q", ErrInvalidItemKey, key)
	}
	if !IsValidTense(parts[1]) {
		return "", "", "", fmt.Errorf("%w: unknown tense %q", ErrInvalidItemKey, parts[1])
	}
	if !IsValidPerson(parts[2]) {
		return "", "", "", fmt.Errorf("%w: unknown person %q", ErrInvalidItemKey, parts[2])
	}
	return parts[0], Tense(parts[1]), Person(parts[2]), nil
}
