package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// Seed inserts first-boot fixtures: a default admin account and a handful
// of sample cards owned by it. It is a no-op once any user exists.
func Seed(ctx context.Context, db *sqlx.DB) error {
	var userCount int
	if err := db.GetContext(ctx, &userCount, `SELECT COUNT(*) FROM users`); err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if userCount > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	var adminID int
	q := `INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id`
	if err := tx.GetContext(ctx, &adminID, q, "admin", string(hash)); err != nil {
		return fmt.Errorf("insert seed user: %w", err)
	}

	now := time.Now().UTC()
	sampleCards := []struct {
		title       string
		description string
		status      string
		position    int
	}{
		{"Set up project", "Review dependencies and environment", "todo", 0},
		{"Design API", "CRUD endpoints + exports", "doing", 0},
		{"Prepare UI", "Board with drag & drop", "doing", 1},
		{"Initial delivery", "Try login and board", "done", 0},
	}

	qCard := `INSERT INTO cards (user_id, title, description, status, position, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $6)`
	for _, c := range sampleCards {
		if _, err := tx.ExecContext(ctx, qCard, adminID, c.title, c.description, c.status, c.position, now); err != nil {
			return fmt.Errorf("insert seed card: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}

	return nil
}
