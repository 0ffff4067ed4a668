/*
seed.go - Demo data loader

PURPOSE:
  Populates an empty database with a small, realistic org: an admin, a
  manager, two direct reports, the default cost-policy catalog, and a few
  missions with expense lines. Intended for local development and the
  integration tests.

ACCOUNTS (password for all: "password123"):
  admin@example.com    admin
  marc@example.com     manager
  alice@example.com    user, reports to Marc
  bruno@example.com    user, reports to Marc
  claire@example.com   user, no manager

SEE ALSO:
  - mission/natures.go: Cost-policy catalog
  - cmd/server/main.go: Invokes Seed behind the -seed flag
*/
package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/mission-engine/core"
	"github.com/warp/mission-engine/expense"
	"github.com/warp/mission-engine/mission"
	"github.com/warp/mission-engine/user"
)

// SeedPassword is the shared demo credential.
const SeedPassword = "password123"

type seedUser struct {
	id        string
	first     string
	last      string
	email     string
	role      user.Role
	managerID string
}

var seedUsers = []seedUser{
	{"u-admin", "Ada", "Root", "admin@example.com", user.RoleAdmin, ""},
	{"u-marc", "Marc", "Leroy", "marc@example.com", user.RoleManager, ""},
	{"u-alice", "Alice", "Durand", "alice@example.com", user.RoleUser, "u-marc"},
	{"u-bruno", "Bruno", "Petit", "bruno@example.com", user.RoleUser, "u-marc"},
	{"u-claire", "Claire", "Moreau", "claire@example.com", user.RoleUser, ""},
}

type seedMission struct {
	id       string
	label    string
	status   mission.Status
	start    string
	end      string
	natureID string
	userID   string
	lines    []seedLine
}

type seedLine struct {
	date   string
	typ    string
	amount int64
	tax    int64
}

var seedMissions = []seedMission{
	{
		id: "m-kickoff", label: "Client kickoff", status: mission.StatusFinished,
		start: "2025-01-06", end: "2025-01-08",
		natureID: "nature-consulting", userID: "u-alice",
		lines: []seedLine{
			{"2025-01-06", "transport", 85, 17},
			{"2025-01-07", "hotel", 120, 20},
			{"2025-01-07", "meal", 32, 5},
		},
	},
	{
		id: "m-audit", label: "Architecture audit", status: mission.StatusInProgress,
		start: "2025-02-10", end: "2025-02-14",
		natureID: "nature-expertise", userID: "u-bruno",
		lines: []seedLine{
			{"2025-02-10", "transport", 45, 9},
		},
	},
	{
		id: "m-training", label: "Onsite training", status: mission.StatusPlanned,
		start: "2025-03-03", end: "2025-03-04",
		natureID: "nature-training", userID: "u-marc",
		lines:    nil,
	},
	{
		id: "m-conf", label: "Industry conference", status: mission.StatusFinished,
		start: "2025-01-20", end: "2025-01-22",
		natureID: "nature-conference", userID: "u-claire",
		lines: []seedLine{
			{"2025-01-20", "transport", 150, 30},
		},
	},
}

// Seed loads the demo dataset. It assumes an empty database; re-running it
// against seeded data fails on the duplicate emails.
func (h *Handler) Seed(ctx context.Context) error {
	for _, su := range seedUsers {
		_, err := h.Passwords.Register(ctx, user.User{
			ID:        su.id,
			FirstName: su.first,
			LastName:  su.last,
			Email:     su.email,
			Role:      su.role,
			ManagerID: su.managerID,
		}, SeedPassword)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.email, err)
		}
	}

	for _, n := range mission.DefaultNatures() {
		if err := h.Store.SaveNature(ctx, n); err != nil {
			return fmt.Errorf("seed nature %s: %w", n.ID, err)
		}
	}

	for _, sm := range seedMissions {
		if err := h.seedMission(ctx, sm); err != nil {
			return err
		}
	}

	return nil
}

func (h *Handler) seedMission(ctx context.Context, sm seedMission) error {
	start, err := core.ParseTimePoint(sm.start)
	if err != nil {
		return fmt.Errorf("seed mission %s: %w", sm.id, err)
	}
	end, err := core.ParseTimePoint(sm.end)
	if err != nil {
		return fmt.Errorf("seed mission %s: %w", sm.id, err)
	}

	nature, err := h.Store.GetNature(ctx, sm.natureID)
	if err != nil {
		return fmt.Errorf("seed mission %s: %w", sm.id, err)
	}

	expenseID := "e-" + sm.id
	m := &mission.Mission{
		ID:            sm.id,
		Label:         sm.label,
		Status:        sm.status,
		Start:         start,
		End:           end,
		Transport:     mission.TransportTrain,
		DepartureCity: "Paris",
		ArrivalCity:   "Lyon",
		NatureID:      sm.natureID,
		UserID:        sm.userID,
		ExpenseID:     expenseID,
		TotalPrice:    mission.Price(core.Period{Start: start, End: end}, *nature),
		BountyAmount:  decimal.Zero,
	}
	shell := &expense.Expense{ID: expenseID, MissionID: sm.id}

	if err := h.Store.CreateMissionWithExpense(ctx, m, shell); err != nil {
		return fmt.Errorf("seed mission %s: %w", sm.id, err)
	}

	for i, sl := range sm.lines {
		date, err := core.ParseTimePoint(sl.date)
		if err != nil {
			return fmt.Errorf("seed mission %s line %d: %w", sm.id, i, err)
		}
		if err := h.Store.SaveLine(ctx, expense.Line{
			ID:        fmt.Sprintf("l-%s-%d", sm.id, i+1),
			ExpenseID: expenseID,
			Date:      date,
			Type:      sl.typ,
			Amount:    decimal.NewFromInt(sl.amount),
			Tax:       decimal.NewFromInt(sl.tax),
		}); err != nil {
			return fmt.Errorf("seed mission %s line %d: %w", sm.id, i, err)
		}
	}

	return nil
}
