package kanban_services

import (
	"context"
	"sort"
	"strings"

	"github.com/pipecode66/kanban-api/internal/model/kanban_model"
)

// NormalizeStatus trims and lowercases a status string. Blank or
// whitespace-only input collapses to the default column.
func NormalizeStatus(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	if s == "" {
		return kanban_model.DefaultStatus
	}
	return s
}

// PositionSource is the read surface the allocator needs from card storage.
type PositionSource interface {
	ListPositions(ctx context.Context, ownerID int, status string) ([]int, error)
}

type PositionAllocator struct {
	Source PositionSource
}

func NewPositionAllocator(src PositionSource) *PositionAllocator {
	return &PositionAllocator{Source: src}
}

// NextPosition returns the append slot of one (owner, status) column: 0 for
// an empty column, otherwise max+1. The max is computed here over the
// fetched positions rather than with a SQL aggregate, which has no defined
// result on an empty set.
func (a *PositionAllocator) NextPosition(ctx context.Context, ownerID int, status string) (int, error) {
	positions, err := a.Source.ListPositions(ctx, ownerID, status)
	if err != nil {
		return 0, err
	}

	max := -1
	for _, p := range positions {
		if p > max {
			max = p
		}
	}
	return max + 1, nil
}

// Reassign resolves a reorder batch into final placements. Items whose id
// is not in owned are dropped before any slot is handed out, so every
// column touched by the batch comes out dense 0..n-1. Within a column,
// items are ordered by their submitted position; ties keep submission
// order. Columns are emitted in first-appearance order.
func (a *PositionAllocator) Reassign(items []kanban_model.ReorderItem, owned map[int]*kanban_model.Card) []kanban_model.CardPlacement {
	groups := make(map[string][]kanban_model.ReorderItem)
	var statusOrder []string
	for _, item := range items {
		if _, ok := owned[item.ID]; !ok {
			continue
		}
		status := NormalizeStatus(item.Status)
		if _, seen := groups[status]; !seen {
			statusOrder = append(statusOrder, status)
		}
		groups[status] = append(groups[status], item)
	}

	placements := []kanban_model.CardPlacement{}
	for _, status := range statusOrder {
		group := groups[status]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Position < group[j].Position
		})
		for index, item := range group {
			placements = append(placements, kanban_model.CardPlacement{
				CardID:   item.ID,
				Status:   status,
				Position: index,
			})
		}
	}
	return placements
}
