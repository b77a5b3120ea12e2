package pricing

import (
	"dutyfree_shop/model"

	"github.com/shopspring/decimal"
)

var tierThresholds = []struct {
	tier model.LoyaltyTier
	min  int
}{
	{model.TierPlatinum, 10000},
	{model.TierGold, 5000},
	{model.TierSilver, 1000},
	{model.TierBronze, 0},
}

// PointsFor awards one point per whole currency unit.
func PointsFor(total decimal.Decimal) int {
	if !total.IsPositive() {
		return 0
	}
	return int(total.Floor().IntPart())
}

func TierFor(points int) model.LoyaltyTier {
	for _, t := range tierThresholds {
		if points >= t.min {
			return t.tier
		}
	}
	return model.TierBronze
}

// LoyaltySummary reports the tier for points and the distance to the next one.
func LoyaltySummary(customerId uint, points int) model.LoyaltySummary {
	s := model.LoyaltySummary{CustomerId: customerId, Points: points, Tier: TierFor(points)}
	for i := len(tierThresholds) - 1; i >= 0; i-- {
		if tierThresholds[i].min > points {
			s.NextTier = tierThresholds[i].tier
			s.PointsToNext = tierThresholds[i].min - points
			break
		}
	}
	return s
}
