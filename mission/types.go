// Package mission implements business-trip management: missions, their
// nature-of-mission cost policies, and the derived price/bounty computation.
package mission

import (
	"github.com/shopspring/decimal"

	"github.com/warp/mission-engine/core"
)

// =============================================================================
// ENUMS
// =============================================================================

// Status is the lifecycle state of a mission.
type Status string

const (
	StatusPlanned    Status = "PLANNED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusFinished   Status = "FINISHED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanned, StatusInProgress, StatusFinished:
		return true
	}
	return false
}

// Transport is the travel mode of a mission.
type Transport string

const (
	TransportCar        Transport = "CAR"
	TransportTrain      Transport = "TRAIN"
	TransportPlane      Transport = "PLANE"
	TransportCarpooling Transport = "CARPOOLING"
)

// Valid reports whether t is a known transport mode.
func (t Transport) Valid() bool {
	switch t {
	case TransportCar, TransportTrain, TransportPlane, TransportCarpooling:
		return true
	}
	return false
}

// =============================================================================
// NATURE OF MISSION - Reusable cost policy
// =============================================================================

// NatureMission is the cost policy attached to a mission: whether a daily
// rate applies, the rate itself, and bounty eligibility. Immutable reference
// data looked up by id.
type NatureMission struct {
	ID    string
	Label string

	// IsBilled controls whether the daily rate applies at all.
	IsBilled  bool
	DailyRate decimal.Decimal

	// IsEligibleToBounty gates the incentive payment; BountyPercentage is
	// the percentage (0-100) of the total price awarded on finished missions.
	IsEligibleToBounty bool
	BountyPercentage   decimal.Decimal
}

// =============================================================================
// MISSION
// =============================================================================

// Mission is one business trip. TotalPrice, BountyAmount, and BountyDate are
// derived fields: they are written at create/update for reporting
// convenience, but display conversions always recompute them from the
// current nature policy. The stored values are never the source of truth.
type Mission struct {
	// ID is the unique identifier for the mission (UUID format).
	ID string

	Label  string
	Status Status

	// Start and End bound the mission, inclusive of both days.
	Start core.TimePoint
	End   core.TimePoint

	Transport     Transport
	DepartureCity string
	ArrivalCity   string

	// NatureID references the cost policy, UserID the owning user.
	NatureID string
	UserID   string

	// ExpenseID references the expense shell created with the mission.
	ExpenseID string

	TotalPrice   decimal.Decimal
	BountyAmount decimal.Decimal
	BountyDate   *core.TimePoint
}

// Period returns the mission's inclusive date range.
func (m Mission) Period() core.Period {
	return core.Period{Start: m.Start, End: m.End}
}
