package verb

import "context"

// Repository defines the contract for conjugation catalog persistence
type Repository interface {
	// Save persists a conjugation to storage
	Save(ctx context.Context, conjugation *Conjugation) error

	// SaveBatch persists multiple conjugations to storage
	SaveBatch(ctx context.Context, conjugations []*Conjugation) error

	// FindByKey retrieves a conjugation by its item key
	FindByKey(ctx context.Context, key ItemKey) (*Conjugation, error)

	// FindAll retrieves the whole catalog
	FindAll(ctx context.Context) ([]*Conjugation, error)

	// FindByTenses retrieves conjugations limited to the given tenses
	FindByTenses(ctx context.Context, tenses []Tense) ([]*Conjugation, error)

	// Exists checks if a conjugation with the given key is already stored
	Exists(ctx context.Context, key ItemKey) (bool, error)
}
