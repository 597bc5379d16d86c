package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"spanish-conjugation-bot/internal/domain/user"
)

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new learner repository
func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

type userRow struct {
	ID           int64     `db:"id"`
	TelegramID   int64     `db:"telegram_id"`
	Username     string    `db:"username"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	LanguageCode string    `db:"language_code"`
	CreatedAt    time.Time `db:"created_at"`
	LastActive   time.Time `db:"last_active"`
}

func (r userRow) toUser() *user.User {
	u := user.NewUser(user.TelegramID(r.TelegramID), r.Username, r.FirstName, r.LastName, r.LanguageCode)
	u.SetID(user.ID(r.ID))
	return u
}

// Save persists a learner to storage
func (r *userRepository) Save(ctx context.Context, u *user.User) error {
	if r.db.DriverName() == DriverPostgres {
		query := `
			INSERT INTO users (telegram_id, username, first_name, last_name, language_code, created_at, last_active)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`
		var id int64
		err := r.db.QueryRowxContext(ctx, query,
			int64(u.TelegramID()), u.Username(), u.FirstName(), u.LastName(),
			u.LanguageCode(), u.CreatedAt(), u.LastActive()).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to save user: %w", err)
		}
		u.SetID(user.ID(id))
		return nil
	}

	query := `
		INSERT INTO users (telegram_id, username, first_name, last_name, language_code, created_at, last_active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query,
		int64(u.TelegramID()), u.Username(), u.FirstName(), u.LastName(),
		u.LanguageCode(), u.CreatedAt(), u.LastActive())
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get user ID: %w", err)
	}
	u.SetID(user.ID(id))
	return nil
}

// FindByID retrieves a learner by their ID
func (r *userRepository) FindByID(ctx context.Context, id user.ID) (*user.User, error) {
	query := r.db.Rebind(`
		SELECT id, telegram_id, username, first_name, last_name, language_code, created_at, last_active
		FROM users WHERE id = ?
	`)

	var row userRow
	err := r.db.GetContext(ctx, &row, query, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return row.toUser(), nil
}

// FindByTelegramID retrieves a learner by their Telegram ID
func (r *userRepository) FindByTelegramID(ctx context.Context, telegramID user.TelegramID) (*user.User, error) {
	query := r.db.Rebind(`
		SELECT id, telegram_id, username, first_name, last_name, language_code, created_at, last_active
		FROM users WHERE telegram_id = ?
	`)

	var row userRow
	err := r.db.GetContext(ctx, &row, query, int64(telegramID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by Telegram ID: %w", err)
	}
	return row.toUser(), nil
}

// Update updates an existing learner
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	query := r.db.Rebind(`
		UPDATE users
		SET username = ?, first_name = ?, last_name = ?, language_code = ?, last_active = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query,
		u.Username(), u.FirstName(), u.LastName(), u.LanguageCode(), u.LastActive(), int64(u.ID()))
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
