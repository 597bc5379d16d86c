package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"spanish-conjugation-bot/internal/domain/verb"
)

type verbRepository struct {
	db *sqlx.DB
}

// NewVerbRepository creates a new conjugation catalog repository
func NewVerbRepository(db *sqlx.DB) verb.Repository {
	return &verbRepository{db: db}
}

type verbRow struct {
	ID          int64  `db:"id"`
	Infinitive  string `db:"infinitive"`
	Translation string `db:"translation"`
	Tense       string `db:"tense"`
	Person      string `db:"person"`
	Form        string `db:"form"`
}

func (r verbRow) toConjugation() *verb.Conjugation {
	c := verb.NewConjugation(r.Infinitive, r.Translation, verb.Tense(r.Tense), verb.Person(r.Person), r.Form)
	c.SetID(verb.ID(r.ID))
	return c
}

// Save upserts a conjugation on its (infinitive, tense, person) key
func (r *verbRepository) Save(ctx context.Context, conjugation *verb.Conjugation) error {
	query := r.db.Rebind(`
		INSERT INTO verbs (infinitive, translation, tense, person, form)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (infinitive, tense, person) DO UPDATE SET
			translation = EXCLUDED.translation,
			form = EXCLUDED.form
	`)

	_, err := r.db.ExecContext(ctx, query,
		conjugation.Infinitive(), conjugation.Translation(),
		string(conjugation.Tense()), string(conjugation.Person()), conjugation.Form())
	if err != nil {
		return fmt.Errorf("failed to save conjugation: %w", err)
	}
	return nil
}

// SaveBatch upserts multiple conjugations in one transaction
func (r *verbRepository) SaveBatch(ctx context.Context, conjugations []*verb.Conjugation) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.Rebind(`
		INSERT INTO verbs (infinitive, translation, tense, person, form)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (infinitive, tense, person) DO UPDATE SET
			translation = EXCLUDED.translation,
			form = EXCLUDED.form
	`)

	for _, c := range conjugations {
		_, err := tx.ExecContext(ctx, query,
			c.Infinitive(), c.Translation(), string(c.Tense()), string(c.Person()), c.Form())
		if err != nil {
			return fmt.Errorf("failed to save conjugation %q: %w", c.Key(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FindByKey retrieves a conjugation by its item key, or (nil, nil) when
// the catalog has no entry for it.
func (r *verbRepository) FindByKey(ctx context.Context, key verb.ItemKey) (*verb.Conjugation, error) {
	infinitive, tense, person, err := verb.ParseItemKey(key)
	if err != nil {
		return nil, err
	}

	query := r.db.Rebind(`
		SELECT id, infinitive, translation, tense, person, form
		FROM verbs
		WHERE infinitive = ? AND tense = ? AND person = ?
	`)

	var row verbRow
	err = r.db.GetContext(ctx, &row, query, infinitive, string(tense), string(person))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conjugation: %w", err)
	}
	return row.toConjugation(), nil
}

// FindAll retrieves the whole catalog
func (r *verbRepository) FindAll(ctx context.Context) ([]*verb.Conjugation, error) {
	var rows []verbRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, infinitive, translation, tense, person, form
		FROM verbs ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	conjugations := make([]*verb.Conjugation, 0, len(rows))
	for _, row := range rows {
		conjugations = append(conjugations, row.toConjugation())
	}
	return conjugations, nil
}

// FindByTenses retrieves conjugations limited to the given tenses
func (r *verbRepository) FindByTenses(ctx context.Context, tenses []verb.Tense) ([]*verb.Conjugation, error) {
	if len(tenses) == 0 {
		return nil, nil
	}

	tenseValues := make([]string, 0, len(tenses))
	for _, t := range tenses {
		tenseValues = append(tenseValues, string(t))
	}

	query, args, err := sqlx.In(`
		SELECT id, infinitive, translation, tense, person, form
		FROM verbs WHERE tense IN (?) ORDER BY id
	`, tenseValues)
	if err != nil {
		return nil, fmt.Errorf("failed to build tense query: %w", err)
	}

	var rows []verbRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to find conjugations: %w", err)
	}

	conjugations := make([]*verb.Conjugation, 0, len(rows))
	for _, row := range rows {
		conjugations = append(conjugations, row.toConjugation())
	}
	return conjugations, nil
}

// Exists checks if a conjugation with the given key is already stored
func (r *verbRepository) Exists(ctx context.Context, key verb.ItemKey) (bool, error) {
	conjugation, err := r.FindByKey(ctx, key)
	if err != nil {
		return false, err
	}
	return conjugation != nil, nil
}
