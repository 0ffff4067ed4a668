// Package expense implements cost tracking for missions: expense records,
// their dated line items, the paginated listing/aggregation service, and the
// PDF expense report.
package expense

import (
	"github.com/shopspring/decimal"

	"github.com/warp/mission-engine/core"
)

// Expense is the cost-tracking record attached to exactly one mission.
// An empty shell is created together with its mission; lines are appended
// afterwards by the user.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// MissionID is the owning mission.
	MissionID string

	// Lines are the line items, in insertion order.
	Lines []Line
}

// Total sums the line amounts (tax excluded).
func (e Expense) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.Amount)
	}
	return total
}

// Line is one dated, typed, monetary item within an expense.
type Line struct {
	ID        string
	ExpenseID string

	Date core.TimePoint

	// Type is the expense-type label (meal, hotel, transport, ...).
	Type string

	Amount decimal.Decimal

	// Tax is the VAT portion of the line.
	Tax decimal.Decimal
}

// Summary is the flattened listing row for an expense: the expense itself
// plus the mission and owner context the listing UIs show. Built by the
// store with joins so listings stay single queries.
type Summary struct {
	ID           string          `json:"id"`
	MissionID    string          `json:"mission_id"`
	MissionLabel string          `json:"mission_label"`
	OwnerID      string          `json:"owner_id"`
	OwnerName    string          `json:"owner_name"`
	LineCount    int             `json:"line_count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}

// ReportData is everything the PDF report needs for one expense.
type ReportData struct {
	ExpenseID    string
	OwnerName    string
	MissionLabel string
	Lines        []Line
}
