package usecases

import (
	"context"
	"fmt"

	"spanish-conjugation-bot/internal/domain/user"
	"spanish-conjugation-bot/internal/pkg/logger"
)

// UserUseCase handles learner registration and preferences
type UserUseCase struct {
	userRepo        user.Repository
	preferencesRepo user.PreferencesRepository
	log             *logger.Logger
}

// NewUserUseCase creates a new user use case
func NewUserUseCase(userRepo user.Repository, preferencesRepo user.PreferencesRepository, log *logger.Logger) *UserUseCase {
	return &UserUseCase{
		userRepo:        userRepo,
		preferencesRepo: preferencesRepo,
		log:             log,
	}
}

// GetOrCreateUser gets an existing learner or registers a new one lazily
func (uc *UserUseCase) GetOrCreateUser(
	ctx context.Context,
	telegramID user.TelegramID,
	username, firstName, lastName, languageCode string,
) (*user.User, error) {
	existingUser, err := uc.userRepo.FindByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if existingUser != nil {
		existingUser.UpdateLastActive()
		existingUser.UpdateProfile(username, firstName, lastName, languageCode)

		if err := uc.userRepo.Update(ctx, existingUser); err != nil {
			return nil, fmt.Errorf("failed to update user: %w", err)
		}
		return existingUser, nil
	}

	newUser := user.NewUser(telegramID, username, firstName, lastName, languageCode)
	if err := uc.userRepo.Save(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to save new user: %w", err)
	}

	preferences := user.NewUserPreferences(newUser.ID())
	if err := uc.preferencesRepo.SavePreferences(ctx, preferences); err != nil {
		// Preferences fall back to defaults, so registration still succeeds
		uc.log.Warn("failed to initialize preferences", "user_id", newUser.ID(), "error", err)
	}

	return newUser, nil
}

// GetUserPreferences retrieves a learner's preferences
func (uc *UserUseCase) GetUserPreferences(ctx context.Context, userID user.ID) (*user.UserPreferences, error) {
	preferences, err := uc.preferencesRepo.FindPreferences(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user preferences: %w", err)
	}
	return preferences, nil
}

// ToggleReminders flips the reminder preference and returns the new state
func (uc *UserUseCase) ToggleReminders(ctx context.Context, userID user.ID) (bool, error) {
	preferences, err := uc.GetUserPreferences(ctx, userID)
	if err != nil {
		return false, err
	}

	newState := preferences.ToggleReminders()
	value := preferences.GetStringPreference(user.PrefRemindersEnabled)
	if err := uc.preferencesRepo.UpdatePreference(ctx, userID, user.PrefRemindersEnabled, value); err != nil {
		return false, fmt.Errorf("failed to update user preferences: %w", err)
	}
	return newState, nil
}

// ToggleFeltPrompt flips the felt-difficulty prompt preference
func (uc *UserUseCase) ToggleFeltPrompt(ctx context.Context, userID user.ID) (bool, error) {
	preferences, err := uc.GetUserPreferences(ctx, userID)
	if err != nil {
		return false, err
	}

	newState := preferences.ToggleFeltPrompt()
	value := preferences.GetStringPreference(user.PrefFeltPromptEnabled)
	if err := uc.preferencesRepo.UpdatePreference(ctx, userID, user.PrefFeltPromptEnabled, value); err != nil {
		return false, fmt.Errorf("failed to update user preferences: %w", err)
	}
	return newState, nil
}
