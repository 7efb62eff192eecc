package kanban_model

import (
	"time"
)

// DefaultStatus is the column a card lands in when the caller sends a
// blank or whitespace-only status.
const DefaultStatus = "todo"

type Card struct {
	ID          int       `db:"id" json:"id"`
	UserID      int       `db:"user_id" json:"-"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Status      string    `db:"status" json:"status"`
	Position    int       `db:"position" json:"position"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// ReorderItem is one entry of a drag-and-drop reorder batch.
type ReorderItem struct {
	ID       int    `json:"id"`
	Status   string `json:"status"`
	Position int    `json:"position"`
}

// CardPlacement is a resolved (status, position) assignment for a single
// card, produced by the position allocator and applied in one transaction.
type CardPlacement struct {
	CardID   int
	Status   string
	Position int
}
