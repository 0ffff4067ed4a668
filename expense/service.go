/*
service.go - Expense listing, aggregation, and line management

PURPOSE:
  The service behind every expense endpoint: plain paginated listings,
  the manager aggregation (own + direct reports), single-expense reads,
  and line appends.

MANAGER AGGREGATION:
  ListForManager is the union of two store queries: expenses owned by the
  manager, and expenses owned by users whose manager reference equals the
  manager. Each source is fetched as a candidate window covering
  [0, offset+size), then merged with core.MergePaginated on ascending
  expense id. The sources are disjoint (a user is never their own manager),
  so totals add and a full traversal covers the union exactly once.

SEE ALSO:
  - core/page.go: Merge algorithm and ordering contract
  - report.go: PDF generation for one expense
*/
package expense

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/warp/mission-engine/core"
)

// Store is the persistence surface the service needs. List queries return
// rows ordered by expense id ascending plus the full count of the scope.
type Store interface {
	// ListExpenses returns one window of all expenses.
	ListExpenses(ctx context.Context, req core.PageRequest) ([]Summary, int64, error)

	// ListExpensesByOwner returns one window of the expenses whose mission
	// belongs to the given user.
	ListExpensesByOwner(ctx context.Context, ownerID string, req core.PageRequest) ([]Summary, int64, error)

	// ListExpensesByOwnerManager returns one window of the expenses whose
	// mission owner reports to the given manager. The owner's own expenses
	// are NOT included.
	ListExpensesByOwnerManager(ctx context.Context, managerID string, req core.PageRequest) ([]Summary, int64, error)

	// GetExpense returns an expense with its lines, or not-found.
	GetExpense(ctx context.Context, id string) (*Expense, error)

	// SaveLine appends a line to an existing expense.
	SaveLine(ctx context.Context, line Line) error

	// GetReportData returns the report view of an expense, or not-found.
	GetReportData(ctx context.Context, id string) (*ReportData, error)
}

// Service exposes expense operations to the API layer.
type Service struct {
	store  Store
	report *ReportGenerator
}

// NewService creates an expense service on the given store.
func NewService(store Store) *Service {
	return &Service{store: store, report: NewReportGenerator()}
}

// List returns one page of all expenses.
func (s *Service) List(ctx context.Context, req core.PageRequest) (core.Page[Summary], error) {
	items, total, err := s.store.ListExpenses(ctx, req)
	if err != nil {
		return core.Page[Summary]{}, fmt.Errorf("list expenses: %w", err)
	}
	return core.NewPage(items, req, total), nil
}

// ListForUser returns one page of the expenses owned by a single user.
func (s *Service) ListForUser(ctx context.Context, ownerID string, req core.PageRequest) (core.Page[Summary], error) {
	items, total, err := s.store.ListExpensesByOwner(ctx, ownerID, req)
	if err != nil {
		return core.Page[Summary]{}, fmt.Errorf("list expenses for user %s: %w", ownerID, err)
	}
	return core.NewPage(items, req, total), nil
}

// ListForManager returns one page of the union of the manager's own
// expenses and their direct reports' expenses.
func (s *Service) ListForManager(ctx context.Context, managerID string, req core.PageRequest) (core.Page[Summary], error) {
	// Candidate windows: everything each source could contribute to the
	// requested page.
	window := core.PageRequest{Number: 0, Size: req.Window()}

	own, ownTotal, err := s.store.ListExpensesByOwner(ctx, managerID, window)
	if err != nil {
		return core.Page[Summary]{}, fmt.Errorf("list manager expenses: %w", err)
	}
	team, teamTotal, err := s.store.ListExpensesByOwnerManager(ctx, managerID, window)
	if err != nil {
		return core.Page[Summary]{}, fmt.Errorf("list team expenses: %w", err)
	}

	return core.MergePaginated(own, team, ownTotal, teamTotal, req, func(a, b Summary) bool {
		return a.ID < b.ID
	}), nil
}

// Get returns an expense with its lines.
func (s *Service) Get(ctx context.Context, id string) (*Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// AddLine appends a line to an expense. The expense must exist.
func (s *Service) AddLine(ctx context.Context, expenseID string, line Line) (*Line, error) {
	if _, err := s.store.GetExpense(ctx, expenseID); err != nil {
		return nil, err
	}

	line.ID = uuid.NewString()
	line.ExpenseID = expenseID
	if err := s.store.SaveLine(ctx, line); err != nil {
		return nil, fmt.Errorf("save expense line: %w", err)
	}
	return &line, nil
}
