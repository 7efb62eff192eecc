package kanban_services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pipecode66/kanban-api/internal/model/kanban_model"
)

var (
	ErrTitleRequired     = errors.New("card title is required")
	ErrEmptyReorderBatch = errors.New("reorder batch is empty")
)

// CardStore is the persistence surface the card service operates on. Every
// method is scoped by owner; a card that exists under another owner is
// indistinguishable from one that does not exist.
type CardStore interface {
	ListByOwner(ctx context.Context, ownerID int) ([]*kanban_model.Card, error)
	GetByID(ctx context.Context, ownerID, id int) (*kanban_model.Card, error)
	ListPositions(ctx context.Context, ownerID int, status string) ([]int, error)
	Insert(ctx context.Context, card *kanban_model.Card) error
	Update(ctx context.Context, card *kanban_model.Card) error
	GetOwnedByIDs(ctx context.Context, ownerID int, ids []int) ([]*kanban_model.Card, error)
	ApplyReorder(ctx context.Context, ownerID int, placements []kanban_model.CardPlacement) error
	Delete(ctx context.Context, ownerID, id int) error
}

type CardService struct {
	Store     CardStore
	Allocator *PositionAllocator
}

func NewCardService(store CardStore) *CardService {
	return &CardService{Store: store, Allocator: NewPositionAllocator(store)}
}

func (s *CardService) ListCards(ctx context.Context, ownerID int) ([]*kanban_model.Card, error) {
	return s.Store.ListByOwner(ctx, ownerID)
}

func (s *CardService) GetCard(ctx context.Context, ownerID, id int) (*kanban_model.Card, error) {
	return s.Store.GetByID(ctx, ownerID, id)
}

func (s *CardService) CreateCard(ctx context.Context, ownerID int, title string, description *string, status string) (*kanban_model.Card, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	normalized := NormalizeStatus(status)
	position, err := s.Allocator.NextPosition(ctx, ownerID, normalized)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	card := &kanban_model.Card{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		Status:      normalized,
		Position:    position,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Store.Insert(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *CardService) UpdateCard(ctx context.Context, ownerID, id int, title string, description *string, status string, position int) (*kanban_model.Card, error) {
	card, err := s.Store.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	normalized := NormalizeStatus(status)
	statusChanged := !strings.EqualFold(card.Status, normalized)

	card.Title = title
	card.Description = description
	card.Status = normalized
	if statusChanged {
		// The card moved columns: append it to the end of the new one,
		// whatever position the caller sent.
		next, err := s.Allocator.NextPosition(ctx, ownerID, normalized)
		if err != nil {
			return nil, err
		}
		card.Position = next
	} else {
		card.Position = position
	}
	card.UpdatedAt = time.Now().UTC()

	if err := s.Store.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Reorder applies a drag-and-drop batch. Items referencing cards the caller
// does not own, or cards deleted since the client loaded the board, are
// skipped silently. The surviving placements are persisted atomically.
func (s *CardService) Reorder(ctx context.Context, ownerID int, items []kanban_model.ReorderItem) error {
	if len(items) == 0 {
		return ErrEmptyReorderBatch
	}

	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	cards, err := s.Store.GetOwnedByIDs(ctx, ownerID, ids)
	if err != nil {
		return err
	}

	owned := make(map[int]*kanban_model.Card, len(cards))
	for _, c := range cards {
		owned[c.ID] = c
	}

	placements := s.Allocator.Reassign(items, owned)
	if len(placements) == 0 {
		return nil
	}
	return s.Store.ApplyReorder(ctx, ownerID, placements)
}

func (s *CardService) DeleteCard(ctx context.Context, ownerID, id int) error {
	return s.Store.Delete(ctx, ownerID, id)
}
