package kanban_services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pipecode66/kanban-api/internal/model/kanban_model"
	"github.com/pipecode66/kanban-api/internal/services/kanban_services"
)

type stubPositionSource struct {
	positions []int
	err       error
}

func (s *stubPositionSource) ListPositions(ctx context.Context, ownerID int, status string) ([]int, error) {
	return s.positions, s.err
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"todo", "todo"},
		{"DOING", "doing"},
		{"  Done  ", "done"},
		{"", "todo"},
		{"   ", "todo"},
		{"In Review", "in review"},
	}
	for _, tt := range tests {
		if got := kanban_services.NormalizeStatus(tt.in); got != tt.want {
			t.Errorf("NormalizeStatus(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNextPositionEmptyColumn(t *testing.T) {
	alloc := kanban_services.NewPositionAllocator(&stubPositionSource{positions: []int{}})

	got, err := alloc.NextPosition(context.Background(), 1, "todo")
	if err != nil {
		t.Fatalf("NextPosition: %v", err)
	}
	if got != 0 {
		t.Errorf("empty column: got %d, want 0", got)
	}
}

func TestNextPositionGappyColumn(t *testing.T) {
	alloc := kanban_services.NewPositionAllocator(&stubPositionSource{positions: []int{0, 2, 5}})

	got, err := alloc.NextPosition(context.Background(), 1, "todo")
	if err != nil {
		t.Fatalf("NextPosition: %v", err)
	}
	if got != 6 {
		t.Errorf("positions {0,2,5}: got %d, want 6", got)
	}
}

func TestNextPositionPropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	alloc := kanban_services.NewPositionAllocator(&stubPositionSource{err: storeErr})

	if _, err := alloc.NextPosition(context.Background(), 1, "todo"); !errors.Is(err, storeErr) {
		t.Errorf("got %v, want store error", err)
	}
}

func ownedSet(ids ...int) map[int]*kanban_model.Card {
	owned := make(map[int]*kanban_model.Card)
	for _, id := range ids {
		owned[id] = &kanban_model.Card{ID: id}
	}
	return owned
}

func TestReassignOrdersBySubmittedPosition(t *testing.T) {
	alloc := kanban_services.NewPositionAllocator(nil)
	items := []kanban_model.ReorderItem{
		{ID: 5, Status: "doing", Position: 1},
		{ID: 3, Status: "doing", Position: 0},
	}

	placements := alloc.Reassign(items, ownedSet(3, 5))

	want := []kanban_model.CardPlacement{
		{CardID: 3, Status: "doing", Position: 0},
		{CardID: 5, Status: "doing", Position: 1},
	}
	if len(placements) != len(want) {
		t.Fatalf("got %d placements, want %d", len(placements), len(want))
	}
	for i := range want {
		if placements[i] != want[i] {
			t.Errorf("placement %d: got %+v, want %+v", i, placements[i], want[i])
		}
	}
}

func TestReassignTiesKeepSubmissionOrder(t *testing.T) {
	alloc := kanban_services.NewPositionAllocator(nil)
	items := []kanban_model.ReorderItem{
		{ID: 1, Status: "todo", Position: 7},
		{ID: 2, Status: "todo", Position: 7},
		{ID: 3, Status: "todo", Position: 7},
	}

	placements := alloc.Reassign(items, ownedSet(1, 2, 3))

	for i, wantID := range []int{1, 2, 3} {
		if placements[i].CardID != wantID || placements[i].Position != i {
			t.Errorf("placement %d: got card %d at %d, want card %d at %d",
				i, placements[i].CardID, placements[i].Position, wantID, i)
		}
	}
}

func TestReassignSkipsUnknownCardsBeforeAssigning(t *testing.T) {
	alloc := kanban_services.NewPositionAllocator(nil)
	items := []kanban_model.ReorderItem{
		{ID: 99, Status: "todo", Position: 0}, // not owned
		{ID: 1, Status: "todo", Position: 1},
		{ID: 2, Status: "todo", Position: 2},
	}

	placements := alloc.Reassign(items, ownedSet(1, 2))

	if len(placements) != 2 {
		t.Fatalf("got %d placements, want 2", len(placements))
	}
	// The dropped item must not consume a slot: the survivors are dense
	// starting at 0.
	if placements[0].CardID != 1 || placements[0].Position != 0 {
		t.Errorf("got card %d at %d, want card 1 at 0", placements[0].CardID, placements[0].Position)
	}
	if placements[1].CardID != 2 || placements[1].Position != 1 {
		t.Errorf("got card %d at %d, want card 2 at 1", placements[1].CardID, placements[1].Position)
	}
}

func TestReassignGroupsByNormalizedStatus(t *testing.T) {
	alloc := kanban_services.NewPositionAllocator(nil)
	items := []kanban_model.ReorderItem{
		{ID: 1, Status: "DOING", Position: 1},
		{ID: 2, Status: "todo", Position: 0},
		{ID: 3, Status: "  doing ", Position: 0},
		{ID: 4, Status: "", Position: 1},
	}

	placements := alloc.Reassign(items, ownedSet(1, 2, 3, 4))

	byCard := make(map[int]kanban_model.CardPlacement)
	for _, p := range placements {
		byCard[p.CardID] = p
	}

	if p := byCard[1]; p.Status != "doing" || p.Position != 1 {
		t.Errorf("card 1: got %q/%d, want doing/1", p.Status, p.Position)
	}
	if p := byCard[3]; p.Status != "doing" || p.Position != 0 {
		t.Errorf("card 3: got %q/%d, want doing/0", p.Status, p.Position)
	}
	// Blank status joins the default column alongside the explicit "todo".
	if p := byCard[2]; p.Status != "todo" || p.Position != 0 {
		t.Errorf("card 2: got %q/%d, want todo/0", p.Status, p.Position)
	}
	if p := byCard[4]; p.Status != "todo" || p.Position != 1 {
		t.Errorf("card 4: got %q/%d, want todo/1", p.Status, p.Position)
	}
}

func TestReassignEmptyWhenNothingOwned(t *testing.T) {
	alloc := kanban_services.NewPositionAllocator(nil)
	items := []kanban_model.ReorderItem{{ID: 7, Status: "todo", Position: 0}}

	placements := alloc.Reassign(items, map[int]*kanban_model.Card{})
	if len(placements) != 0 {
		t.Errorf("got %d placements, want 0", len(placements))
	}
}
