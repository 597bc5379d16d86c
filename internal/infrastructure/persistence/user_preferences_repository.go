package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"spanish-conjugation-bot/internal/domain/user"
)

type userPreferencesRepository struct {
	db *sqlx.DB
}

// NewUserPreferencesRepository creates a new preferences repository
func NewUserPreferencesRepository(db *sqlx.DB) user.PreferencesRepository {
	return &userPreferencesRepository{db: db}
}

// FindPreferences retrieves all preferences for a learner
func (r *userPreferencesRepository) FindPreferences(ctx context.Context, userID user.ID) (*user.UserPreferences, error) {
	query := r.db.Rebind(`
		SELECT preference_key, preference_value
		FROM user_preferences
		WHERE user_id = ?
	`)

	rows, err := r.db.QueryxContext(ctx, query, int64(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to query user preferences: %w", err)
	}
	defer rows.Close()

	preferences := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		preferences[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating preferences: %w", err)
	}

	userPrefs := user.NewUserPreferences(userID)
	if len(preferences) > 0 {
		userPrefs.SetPreferences(preferences)
	}
	return userPrefs, nil
}

// SavePreferences saves all of a learner's preferences in one transaction
func (r *userPreferencesRepository) SavePreferences(ctx context.Context, preferences *user.UserPreferences) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := r.db.Rebind(`
		INSERT INTO user_preferences (user_id, preference_key, preference_value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, preference_key) DO UPDATE SET
			preference_value = EXCLUDED.preference_value,
			updated_at = EXCLUDED.updated_at
	`)

	for key, value := range preferences.GetAllPreferences() {
		if _, err := tx.ExecContext(ctx, query, int64(preferences.UserID()), key, value, time.Now()); err != nil {
			return fmt.Errorf("failed to save preference %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdatePreference updates a single preference
func (r *userPreferencesRepository) UpdatePreference(ctx context.Context, userID user.ID, key, value string) error {
	query := r.db.Rebind(`
		INSERT INTO user_preferences (user_id, preference_key, preference_value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, preference_key) DO UPDATE SET
			preference_value = EXCLUDED.preference_value,
			updated_at = EXCLUDED.updated_at
	`)

	if _, err := r.db.ExecContext(ctx, query, int64(userID), key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to update preference %s: %w", key, err)
	}
	return nil
}
