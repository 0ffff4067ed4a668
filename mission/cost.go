/*
cost.go - Mission price and bounty computation

PURPOSE:
  Derives a mission's total price and bounty from its date range, status,
  and nature-of-mission policy. This is the only place these rules live;
  the mapper and handlers call in here rather than re-deriving.

RULES:
  duration    = inclusive day count of [start, end]
  total price = duration × daily rate   (0 when the nature is not billed)
  bounty      = total × pct/100, dated at the mission end
                (only when status is FINISHED and the nature is eligible)

EDGE CASES:
  An inverted range (end before start) yields a non-positive duration and a
  non-positive price. It is not rejected here; the API layer validates date
  order on create/update, and already-stored data must stay readable.

SEE ALSO:
  - mapper.go: Display conversion (full cost) and create path (price only)
  - core/period.go: Inclusive duration
*/
package mission

import (
	"github.com/shopspring/decimal"

	"github.com/warp/mission-engine/core"
)

// Cost is the derived money view of a mission.
type Cost struct {
	DurationDays int
	TotalPrice   decimal.Decimal
	BountyAmount decimal.Decimal

	// BountyDate is set only when a bounty is awarded.
	BountyDate *core.TimePoint
}

// Price computes the total price of a mission over the given period.
func Price(period core.Period, nature NatureMission) decimal.Decimal {
	if !nature.IsBilled {
		return decimal.Zero
	}
	duration := decimal.NewFromInt(int64(period.DurationDays()))
	return duration.Mul(nature.DailyRate)
}

// ComputeCost derives the full cost view, bounty included. The bounty is
// awarded only for finished missions under an eligible nature; everything
// else gets a zero bounty and no bounty date.
func ComputeCost(period core.Period, status Status, nature NatureMission) Cost {
	cost := Cost{
		DurationDays: period.DurationDays(),
		TotalPrice:   Price(period, nature),
		BountyAmount: decimal.Zero,
	}

	if status == StatusFinished && nature.IsEligibleToBounty {
		cost.BountyAmount = core.Percent(cost.TotalPrice, nature.BountyPercentage)
		end := period.End
		cost.BountyDate = &end
	}

	return cost
}
