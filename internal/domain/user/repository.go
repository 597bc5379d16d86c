package user

import "context"

// Repository defines the contract for learner persistence
type Repository interface {
	// Save persists a learner to storage
	Save(ctx context.Context, user *User) error

	// FindByID retrieves a learner by their ID
	FindByID(ctx context.Context, id ID) (*User, error)

	// FindByTelegramID retrieves a learner by their Telegram ID
	FindByTelegramID(ctx context.Context, telegramID TelegramID) (*User, error)

	// Update updates an existing learner
	Update(ctx context.Context, user *User) error
}
