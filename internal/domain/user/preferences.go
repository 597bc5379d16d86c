package user

import (
	"strconv"
)

// Preference keys constants
const (
	PrefRemindersEnabled  = "reminders_enabled"
	PrefFeltPromptEnabled = "felt_difficulty_prompt_enabled"
	PrefStartingTier      = "starting_tier"
)

// UserPreferences holds all preferences for one learner
type UserPreferences struct {
	userID      ID
	preferences map[string]string
}

// NewUserPreferences creates preferences with default values
func NewUserPreferences(userID ID) *UserPreferences {
	defaultPrefs := map[string]string{
		PrefRemindersEnabled:  "true",
		PrefFeltPromptEnabled: "true",
		PrefStartingTier:      "beginner",
	}

	return &UserPreferences{
		userID:      userID,
		preferences: defaultPrefs,
	}
}

func (up *UserPreferences) UserID() ID {
	return up.userID
}

func (up *UserPreferences) GetBoolPreference(key string) bool {
	value, exists := up.preferences[key]
	if !exists {
		switch key {
		case PrefRemindersEnabled, PrefFeltPromptEnabled:
			return true
		default:
			return false
		}
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return false
	}
	return boolValue
}

func (up *UserPreferences) SetBoolPreference(key string, value bool) {
	up.preferences[key] = strconv.FormatBool(value)
}

func (up *UserPreferences) GetStringPreference(key string) string {
	return up.preferences[key]
}

func (up *UserPreferences) SetStringPreference(key, value string) {
	up.preferences[key] = value
}

func (up *UserPreferences) GetAllPreferences() map[string]string {
	return up.preferences
}

func (up *UserPreferences) SetPreferences(preferences map[string]string) {
	up.preferences = preferences
}

// Convenience methods for known preferences
func (up *UserPreferences) RemindersEnabled() bool {
	return up.GetBoolPreference(PrefRemindersEnabled)
}

func (up *UserPreferences) ToggleReminders() bool {
	newValue := !up.RemindersEnabled()
	up.SetBoolPreference(PrefRemindersEnabled, newValue)
	return newValue
}

func (up *UserPreferences) FeltPromptEnabled() bool {
	return up.GetBoolPreference(PrefFeltPromptEnabled)
}

func (up *UserPreferences) ToggleFeltPrompt() bool {
	newValue := !up.FeltPromptEnabled()
	up.SetBoolPreference(PrefFeltPromptEnabled, newValue)
	return newValue
}

// StartingTier returns the tier new sessions begin at
func (up *UserPreferences) StartingTier() string {
	tier := up.GetStringPreference(PrefStartingTier)
	if tier == "" {
		return "beginner"
	}
	return tier
}

func (up *UserPreferences) SetStartingTier(tier string) {
	up.SetStringPreference(PrefStartingTier, tier)
}
