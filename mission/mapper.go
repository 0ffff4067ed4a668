/*
mapper.go - Conversions between missions and their transfer objects

PURPOSE:
  Three conversions, polymorphic only in direction:
  - ToDisplay: entity → display DTO, recomputing price and bounty from the
    CURRENT nature policy (stored values are never trusted on read).
  - ToForm: entity → edit-form DTO, scalars and ids only, no computation.
  - FromForm: form DTO → entity, resolving the nature and user references
    (a missing reference fails the conversion), computing the price only,
    and attaching a fresh empty expense shell.

CREATE-PATH ASYMMETRY:
  FromForm always writes bounty 0 and no bounty date, whatever the status.
  Only the display conversion computes the bounty. A mission is not created
  already finished under normal use; keep the two paths distinct.

SIDE EFFECTS:
  FromForm performs the only I/O of this package: nature-by-id and
  user-by-id lookups. Both are fallible and propagate not-found.

SEE ALSO:
  - cost.go: The computation both directions share
  - api/handlers.go: Calls these conversions around persistence
*/
package mission

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/expense"
	"github.com/warp/mission-engine/user"
)

// =============================================================================
// TRANSFER OBJECTS
// =============================================================================

// DisplayedMissionDTO is the read model of a mission: every scalar field,
// the resolved reference ids, the recomputed cost, and the nature label for
// display convenience.
type DisplayedMissionDTO struct {
	ID            string          `json:"id"`
	Label         string          `json:"label"`
	Status        Status          `json:"status"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Transport     Transport       `json:"transport"`
	DepartureCity string          `json:"departure_city"`
	ArrivalCity   string          `json:"arrival_city"`
	UserID        string          `json:"user_id"`
	NatureID      string          `json:"nature_id"`
	ExpenseID     string          `json:"expense_id,omitempty"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	BountyAmount  decimal.Decimal `json:"bounty_amount"`
	BountyDate    string          `json:"bounty_date,omitempty"`
	NatureLabel   string          `json:"nature_label"`
}

// Form is the writable surface of a mission: scalars and reference ids.
// Derived fields are never accepted from clients.
type Form struct {
	Label         string    `json:"label" validate:"required"`
	Status        Status    `json:"status" validate:"required"`
	StartDate     string    `json:"start_date" validate:"required"`
	EndDate       string    `json:"end_date" validate:"required"`
	Transport     Transport `json:"transport" validate:"required"`
	DepartureCity string    `json:"departure_city" validate:"required"`
	ArrivalCity   string    `json:"arrival_city" validate:"required"`
	UserID        string    `json:"user_id" validate:"required"`
	NatureID      string    `json:"nature_id" validate:"required"`
}

// =============================================================================
// MAPPER
// =============================================================================

// NatureLookup resolves nature-of-mission references.
type NatureLookup interface {
	GetNature(ctx context.Context, id string) (*NatureMission, error)
}

// UserLookup resolves user references.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*user.User, error)
}

// Mapper converts between persisted missions and transfer objects.
type Mapper struct {
	natures NatureLookup
	users   UserLookup
}

// NewMapper creates a mapper backed by the given lookups.
func NewMapper(natures NatureLookup, users UserLookup) *Mapper {
	return &Mapper{natures: natures, users: users}
}

// ToDisplay converts a mission to its display DTO. Price and bounty are
// recomputed from the current nature policy so a rate change is reflected
// on the next read.
func (mp *Mapper) ToDisplay(ctx context.Context, m Mission) (*DisplayedMissionDTO, error) {
	nature, err := mp.natures.GetNature(ctx, m.NatureID)
	if err != nil {
		return nil, fmt.Errorf("resolve nature: %w", err)
	}

	cost := ComputeCost(m.Period(), m.Status, *nature)

	dto := &DisplayedMissionDTO{
		ID:            m.ID,
		Label:         m.Label,
		Status:        m.Status,
		StartDate:     m.Start.String(),
		EndDate:       m.End.String(),
		Transport:     m.Transport,
		DepartureCity: m.DepartureCity,
		ArrivalCity:   m.ArrivalCity,
		UserID:        m.UserID,
		NatureID:      m.NatureID,
		ExpenseID:     m.ExpenseID,
		TotalPrice:    cost.TotalPrice,
		BountyAmount:  cost.BountyAmount,
		NatureLabel:   nature.Label,
	}
	if cost.BountyDate != nil {
		dto.BountyDate = cost.BountyDate.String()
	}
	return dto, nil
}

// ToForm converts a mission to its edit-form DTO. No lookups, no derived
// computation.
func (mp *Mapper) ToForm(m Mission) Form {
	return Form{
		Label:         m.Label,
		Status:        m.Status,
		StartDate:     m.Start.String(),
		EndDate:       m.End.String(),
		Transport:     m.Transport,
		DepartureCity: m.DepartureCity,
		ArrivalCity:   m.ArrivalCity,
		UserID:        m.UserID,
		NatureID:      m.NatureID,
	}
}

// FromForm converts a form to a fresh mission plus its empty expense shell.
// The nature and user references must resolve; a miss propagates as
// not-found. Only the total price is computed here; the bounty fields stay
// zeroed until display.
func (mp *Mapper) FromForm(ctx context.Context, f Form) (*Mission, *expense.Expense, error) {
	start, err := core.ParseTimePoint(f.StartDate)
	if err != nil {
		return nil, nil, fmt.Errorf("parse start date: %w", err)
	}
	end, err := core.ParseTimePoint(f.EndDate)
	if err != nil {
		return nil, nil, fmt.Errorf("parse end date: %w", err)
	}

	nature, err := mp.natures.GetNature(ctx, f.NatureID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve nature: %w", err)
	}
	owner, err := mp.users.GetUser(ctx, f.UserID)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve user: %w", err)
	}

	m := &Mission{
		ID:            uuid.NewString(),
		Label:         f.Label,
		Status:        f.Status,
		Start:         start,
		End:           end,
		Transport:     f.Transport,
		DepartureCity: f.DepartureCity,
		ArrivalCity:   f.ArrivalCity,
		NatureID:      nature.ID,
		UserID:        owner.ID,
		TotalPrice:    Price(core.Period{Start: start, End: end}, *nature),
		BountyAmount:  decimal.Zero,
		BountyDate:    nil,
	}

	shell := &expense.Expense{
		ID:        uuid.NewString(),
		MissionID: m.ID,
	}
	m.ExpenseID = shell.ID

	return m, shell, nil
}
