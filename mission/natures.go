package mission

import (
	"github.com/shopspring/decimal"
)

// Preset natures. These mirror the reference data an admin would normally
// maintain; kept as constructors so seeds and tests share one definition.

// BilledNature builds a nature with a daily rate and a bounty scheme.
// A bountyPct of 0 makes the nature bounty-ineligible.
func BilledNature(id, label string, dailyRate int64, bountyPct int64) NatureMission {
	return NatureMission{
		ID:                 id,
		Label:              label,
		IsBilled:           true,
		DailyRate:          decimal.NewFromInt(dailyRate),
		IsEligibleToBounty: bountyPct > 0,
		BountyPercentage:   decimal.NewFromInt(bountyPct),
	}
}

// UnbilledNature builds a nature with no daily rate and no bounty
// (internal missions, conferences paid by the host, and the like).
func UnbilledNature(id, label string) NatureMission {
	return NatureMission{
		ID:               id,
		Label:            label,
		DailyRate:        decimal.Zero,
		BountyPercentage: decimal.Zero,
	}
}

// DefaultNatures returns the reference catalog loaded by the demo seed.
func DefaultNatures() []NatureMission {
	return []NatureMission{
		BilledNature("nature-consulting", "Consulting", 650, 10),
		BilledNature("nature-expertise", "Technical expertise", 800, 12),
		BilledNature("nature-training", "Client training", 500, 0),
		UnbilledNature("nature-internal", "Internal project"),
		UnbilledNature("nature-conference", "Conference"),
	}
}
