package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func NewConnection(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return db, nil
}

type migration struct {
	version int
	stmts   []string
}

// Schema changes are appended here as new versions; applied versions are
// recorded in schema_migrations and never re-run.
var migrations = []migration{
	{
		version: 1,
		stmts: []string{
			`CREATE TABLE users (
				id            SERIAL PRIMARY KEY,
				username      TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);`,
			`CREATE TABLE cards (
				id          SERIAL PRIMARY KEY,
				user_id     INT NOT NULL REFERENCES users(id),
				title       TEXT NOT NULL,
				description TEXT,
				status      TEXT NOT NULL DEFAULT 'todo',
				position    INT NOT NULL DEFAULT 0,
				created_at  TIMESTAMPTZ NOT NULL,
				updated_at  TIMESTAMPTZ NOT NULL
			);`,
			`CREATE INDEX idx_cards_owner_status ON cards (user_id, status, position);`,
		},
	},
}

// Migrate applies pending schema versions, each in its own transaction.
// It is called once from main before the server starts serving requests.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for _, m := range migrations {
		var applied bool
		q := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
		if err := db.GetContext(ctx, &applied, q, m.version); err != nil {
			return fmt.Errorf("check migration %d: %w", m.version, err)
		}
		if applied {
			continue
		}

		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("could not start transaction: %w", err)
		}

		if err := applyMigration(ctx, tx, m); err != nil {
			_ = tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}

	return nil
}

func applyMigration(ctx context.Context, tx *sqlx.Tx, m migration) error {
	for _, stmt := range m.stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version)
	if err != nil {
		return fmt.Errorf("record migration %d: %w", m.version, err)
	}
	return nil
}
