package persistence

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// NewDB opens a database connection for the given driver ("sqlite3" or
// "postgres") and bootstraps the schema.
func NewDB(driver, dsn string) (*sqlx.DB, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver: %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sqlx.DB) error {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.DriverName() == DriverPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	tables := []struct {
		name string
		ddl  string
	}{
		{"users", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS users (
				id %s,
				telegram_id BIGINT UNIQUE NOT NULL,
				username TEXT,
				first_name TEXT,
				last_name TEXT,
				language_code TEXT,
				created_at TIMESTAMP NOT NULL,
				last_active TIMESTAMP NOT NULL
			)`, idColumn)},
		{"user_preferences", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS user_preferences (
				id %s,
				user_id BIGINT NOT NULL REFERENCES users(id),
				preference_key TEXT NOT NULL,
				preference_value TEXT NOT NULL,
				updated_at TIMESTAMP NOT NULL,
				UNIQUE(user_id, preference_key)
			)`, idColumn)},
		{"verbs", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS verbs (
				id %s,
				infinitive TEXT NOT NULL,
				translation TEXT NOT NULL,
				tense TEXT NOT NULL,
				person TEXT NOT NULL,
				form TEXT NOT NULL,
				UNIQUE(infinitive, tense, person)
			)`, idColumn)},
		{"review_cards", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS review_cards (
				id %s,
				user_id BIGINT NOT NULL REFERENCES users(id),
				item_key TEXT NOT NULL,
				easiness_factor REAL NOT NULL,
				interval_days INTEGER NOT NULL,
				repetitions INTEGER NOT NULL,
				next_review TIMESTAMP NOT NULL,
				last_review TIMESTAMP,
				total_reviews INTEGER NOT NULL,
				correct_reviews INTEGER NOT NULL,
				updated_at TIMESTAMP NOT NULL,
				UNIQUE(user_id, item_key)
			)`, idColumn)},
		{"review_history", fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS review_history (
				id %s,
				user_id BIGINT NOT NULL REFERENCES users(id),
				item_key TEXT NOT NULL,
				quality INTEGER NOT NULL,
				correct BOOLEAN NOT NULL,
				response_time_ms INTEGER NOT NULL,
				reviewed_at TIMESTAMP NOT NULL
			)`, idColumn)},
	}

	for _, t := range tables {
		if _, err := db.Exec(t.ddl); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}
	return nil
}
