package kanban_repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pipecode66/kanban-api/internal/model/kanban_model"
)

var ErrCardNotFound = errors.New("card not found")

type CardRepo struct {
	DB *sqlx.DB
}

func NewCardRepo(db *sqlx.DB) *CardRepo {
	return &CardRepo{DB: db}
}

// ListByOwner returns every card of one owner in display order. Ties on
// position are broken by created_at, then id.
func (r *CardRepo) ListByOwner(ctx context.Context, ownerID int) ([]*kanban_model.Card, error) {
	cards := []*kanban_model.Card{}
	q := `SELECT id, user_id, title, description, status, position, created_at, updated_at
	      FROM cards WHERE user_id = $1
	      ORDER BY status, position, created_at, id`
	if err := r.DB.SelectContext(ctx, &cards, q, ownerID); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *CardRepo) GetByID(ctx context.Context, ownerID, id int) (*kanban_model.Card, error) {
	var card kanban_model.Card
	q := `SELECT id, user_id, title, description, status, position, created_at, updated_at
	      FROM cards WHERE id = $1 AND user_id = $2`
	err := r.DB.GetContext(ctx, &card, q, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

// ListPositions returns the raw position values of one (owner, status)
// column. The max is computed by the caller, not by a SQL aggregate: MAX
// over an empty set has no portable defined result.
func (r *CardRepo) ListPositions(ctx context.Context, ownerID int, status string) ([]int, error) {
	positions := []int{}
	q := `SELECT position FROM cards WHERE user_id = $1 AND status = $2`
	if err := r.DB.SelectContext(ctx, &positions, q, ownerID, status); err != nil {
		return nil, err
	}
	return positions, nil
}

func (r *CardRepo) Insert(ctx context.Context, card *kanban_model.Card) error {
	q := `INSERT INTO cards (user_id, title, description, status, position, created_at, updated_at)
	      VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.DB.QueryRowxContext(ctx, q,
		card.UserID, card.Title, card.Description, card.Status,
		card.Position, card.CreatedAt, card.UpdatedAt,
	).Scan(&card.ID)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}
	return nil
}

func (r *CardRepo) Update(ctx context.Context, card *kanban_model.Card) error {
	q := `UPDATE cards SET title = $1, description = $2, status = $3, position = $4, updated_at = $5
	      WHERE id = $6 AND user_id = $7`
	result, err := r.DB.ExecContext(ctx, q,
		card.Title, card.Description, card.Status, card.Position,
		card.UpdatedAt, card.ID, card.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrCardNotFound
	}
	return nil
}

// GetOwnedByIDs fetches the subset of ids that exist and belong to the
// owner. Ids that match neither condition are simply absent from the
// result; the caller treats them as skippable.
func (r *CardRepo) GetOwnedByIDs(ctx context.Context, ownerID int, ids []int) ([]*kanban_model.Card, error) {
	if len(ids) == 0 {
		return []*kanban_model.Card{}, nil
	}

	query, args, err := sqlx.In(
		`SELECT id, user_id, title, description, status, position, created_at, updated_at
		 FROM cards WHERE user_id = ? AND id IN (?)`, ownerID, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	cards := []*kanban_model.Card{}
	if err := r.DB.SelectContext(ctx, &cards, query, args...); err != nil {
		return nil, err
	}
	return cards, nil
}

// ApplyReorder persists a batch of placements in a single transaction so a
// failed reorder never leaves a column half-applied.
func (r *CardRepo) ApplyReorder(ctx context.Context, ownerID int, placements []kanban_model.CardPlacement) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not start transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	q := `UPDATE cards SET status = $1, position = $2, updated_at = $3
	      WHERE id = $4 AND user_id = $5`
	for _, p := range placements {
		if _, err := tx.ExecContext(ctx, q, p.Status, p.Position, now, p.CardID, ownerID); err != nil {
			return fmt.Errorf("failed to reorder card %d: %w", p.CardID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("transaction commit failed: %w", err)
	}
	return nil
}

func (r *CardRepo) Delete(ctx context.Context, ownerID, id int) error {
	q := `DELETE FROM cards WHERE id = $1 AND user_id = $2`
	result, err := r.DB.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrCardNotFound
	}
	return nil
}
