package expense

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/mission-engine/core"
)

// =============================================================================
// FAKE STORE
// =============================================================================

// fakeStore serves summaries from pre-sorted slices, windowed the way the
// SQLite queries window (ORDER BY id, LIMIT/OFFSET).
type fakeStore struct {
	all      []Summary
	own      map[string][]Summary
	team     map[string][]Summary
	expenses map[string]*Expense
	saved    []Line
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		own:      make(map[string][]Summary),
		team:     make(map[string][]Summary),
		expenses: make(map[string]*Expense),
	}
}

func window(items []Summary, req core.PageRequest) ([]Summary, int64) {
	total := int64(len(items))
	offset := req.Offset()
	if offset >= len(items) {
		return nil, total
	}
	end := offset + req.Size
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end], total
}

func (f *fakeStore) ListExpenses(_ context.Context, req core.PageRequest) ([]Summary, int64, error) {
	items, total := window(f.all, req)
	return items, total, nil
}

func (f *fakeStore) ListExpensesByOwner(_ context.Context, ownerID string, req core.PageRequest) ([]Summary, int64, error) {
	items, total := window(f.own[ownerID], req)
	return items, total, nil
}

func (f *fakeStore) ListExpensesByOwnerManager(_ context.Context, managerID string, req core.PageRequest) ([]Summary, int64, error) {
	items, total := window(f.team[managerID], req)
	return items, total, nil
}

func (f *fakeStore) GetExpense(_ context.Context, id string) (*Expense, error) {
	e, ok := f.expenses[id]
	if !ok {
		return nil, core.NewNotFound("expense", id)
	}
	return e, nil
}

func (f *fakeStore) SaveLine(_ context.Context, line Line) error {
	f.saved = append(f.saved, line)
	return nil
}

func (f *fakeStore) GetReportData(_ context.Context, id string) (*ReportData, error) {
	e, ok := f.expenses[id]
	if !ok {
		return nil, core.NewNotFound("expense", id)
	}
	return &ReportData{ExpenseID: e.ID, OwnerName: "Test Owner", MissionLabel: "Test mission", Lines: e.Lines}, nil
}

func summaries(prefix string, n int) []Summary {
	out := make([]Summary, n)
	for i := range out {
		out[i] = Summary{ID: fmt.Sprintf("%s-%03d", prefix, i)}
	}
	return out
}

// =============================================================================
// LISTING
// =============================================================================

func TestList_PagesAllExpenses(t *testing.T) {
	store := newFakeStore()
	store.all = summaries("e", 7)
	svc := NewService(store)

	// WHEN requesting the second page of size 3
	page, err := svc.List(context.Background(), core.PageRequest{Number: 1, Size: 3})
	require.NoError(t, err)

	// THEN the window and the totals line up
	require.Len(t, page.Items, 3)
	assert.Equal(t, "e-003", page.Items[0].ID)
	assert.Equal(t, int64(7), page.TotalItems)
	assert.Equal(t, 3, page.TotalPages)
}

func TestListForUser_ScopedToOwner(t *testing.T) {
	store := newFakeStore()
	store.own["u-alice"] = summaries("a", 2)
	store.own["u-bob"] = summaries("b", 5)
	svc := NewService(store)

	page, err := svc.ListForUser(context.Background(), "u-alice", core.PageRequest{Number: 0, Size: 10})
	require.NoError(t, err)

	require.Len(t, page.Items, 2)
	assert.Equal(t, int64(2), page.TotalItems)
}

// =============================================================================
// MANAGER AGGREGATION
// =============================================================================

func TestListForManager_MergesOwnAndTeam(t *testing.T) {
	store := newFakeStore()
	// Interleaved ids so the merge has real work to do.
	store.own["u-mgr"] = []Summary{{ID: "e-001"}, {ID: "e-004"}}
	store.team["u-mgr"] = []Summary{{ID: "e-002"}, {ID: "e-003"}, {ID: "e-005"}}
	svc := NewService(store)

	// WHEN requesting the first page of size 4
	page, err := svc.ListForManager(context.Background(), "u-mgr", core.PageRequest{Number: 0, Size: 4})
	require.NoError(t, err)

	// THEN both sources interleave in ascending id order
	ids := make([]string, len(page.Items))
	for i, s := range page.Items {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{"e-001", "e-002", "e-003", "e-004"}, ids)
	assert.Equal(t, int64(5), page.TotalItems)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListForManager_SecondPageContinuesTheUnion(t *testing.T) {
	store := newFakeStore()
	store.own["u-mgr"] = []Summary{{ID: "e-001"}, {ID: "e-004"}}
	store.team["u-mgr"] = []Summary{{ID: "e-002"}, {ID: "e-003"}, {ID: "e-005"}}
	svc := NewService(store)

	page, err := svc.ListForManager(context.Background(), "u-mgr", core.PageRequest{Number: 1, Size: 4})
	require.NoError(t, err)

	require.Len(t, page.Items, 1)
	assert.Equal(t, "e-005", page.Items[0].ID)
}

func TestListForManager_FullTraversalCoversUnionOnce(t *testing.T) {
	store := newFakeStore()
	store.own["u-mgr"] = summaries("a", 6)
	store.team["u-mgr"] = summaries("b", 9)
	svc := NewService(store)

	// WHEN walking every page of size 4
	seen := make(map[string]int)
	for number := 0; ; number++ {
		page, err := svc.ListForManager(context.Background(), "u-mgr", core.PageRequest{Number: number, Size: 4})
		require.NoError(t, err)
		if len(page.Items) == 0 {
			break
		}
		for _, s := range page.Items {
			seen[s.ID]++
		}
	}

	// THEN each of the 15 expenses appears exactly once
	assert.Len(t, seen, 15)
	for id, count := range seen {
		assert.Equal(t, 1, count, "expense %s", id)
	}
}

func TestListForManager_NoDirectReports(t *testing.T) {
	store := newFakeStore()
	store.own["u-mgr"] = summaries("a", 3)
	svc := NewService(store)

	page, err := svc.ListForManager(context.Background(), "u-mgr", core.PageRequest{Number: 0, Size: 10})
	require.NoError(t, err)

	require.Len(t, page.Items, 3)
	assert.Equal(t, int64(3), page.TotalItems)
}

// =============================================================================
// LINES
// =============================================================================

func TestAddLine_AppendsToExistingExpense(t *testing.T) {
	store := newFakeStore()
	store.expenses["e1"] = &Expense{ID: "e1", MissionID: "m1"}
	svc := NewService(store)

	// WHEN adding a line
	line, err := svc.AddLine(context.Background(), "e1", Line{
		Date:   core.NewTimePoint(2025, time.January, 2),
		Type:   "meal",
		Amount: decimal.NewFromInt(24),
		Tax:    decimal.NewFromInt(4),
	})
	require.NoError(t, err)

	// THEN the line got an id and the expense reference, and was persisted
	assert.NotEmpty(t, line.ID)
	assert.Equal(t, "e1", line.ExpenseID)
	require.Len(t, store.saved, 1)
	assert.Equal(t, line.ID, store.saved[0].ID)
}

func TestAddLine_UnknownExpenseFails(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	_, err := svc.AddLine(context.Background(), "e-missing", Line{Type: "meal"})
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
	assert.Empty(t, store.saved)
}

func TestGet_UnknownExpenseFails(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)

	_, err := svc.Get(context.Background(), "e-missing")
	require.Error(t, err)
	assert.True(t, core.IsNotFound(err))
}
