package user

import "context"

// PreferencesRepository handles learner preference persistence
type PreferencesRepository interface {
	// FindPreferences retrieves all preferences for a learner
	FindPreferences(ctx context.Context, userID ID) (*UserPreferences, error)

	// SavePreferences saves learner preferences
	SavePreferences(ctx context.Context, preferences *UserPreferences) error

	// UpdatePreference updates a single preference
	UpdatePreference(ctx context.Context, userID ID, key, value string) error
}
