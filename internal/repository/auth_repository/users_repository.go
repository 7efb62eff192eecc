package auth_repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pipecode66/kanban-api/internal/model/auth_model"
)

var ErrUsernameTaken = errors.New("username already taken")

type UserRepo struct {
	DB *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{DB: db}
}

func (r *UserRepo) Create(ctx context.Context, u *auth_model.User) error {
	q := `INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, q, u.Username, u.PasswordHash).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		// 23505 = unique_violation on the username index
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrUsernameTaken
		}
		return err
	}
	return nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth_model.User, error) {
	var u auth_model.User
	q := `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	if err := r.DB.GetContext(ctx, &u, q, username); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int) (*auth_model.User, error) {
	var u auth_model.User
	q := `SELECT id, username, password_hash, created_at FROM users WHERE id = $1`
	if err := r.DB.GetContext(ctx, &u, q, id); err != nil {
		return nil, err
	}
	return &u, nil
}
