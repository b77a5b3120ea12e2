package service

import (
	"context"

	"dutyfree_shop/model"
	"dutyfree_shop/pricing"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type LoyaltyService struct {
	customers CustomerStore
}

func NewLoyaltyService(customers CustomerStore) *LoyaltyService {
	return &LoyaltyService{customers: customers}
}

func (s *LoyaltyService) Summary(ctx context.Context, customerId uint) (model.LoyaltySummary, error) {
	c, err := s.customers.FindByID(ctx, customerId)
	if err != nil {
		return model.LoyaltySummary{}, err
	}
	return pricing.LoyaltySummary(c.ID, c.LoyaltyPoints), nil
}

// Award credits the points earned by an order total and recomputes the tier.
func (s *LoyaltyService) Award(ctx context.Context, customerId uint, total decimal.Decimal) (*model.Customer, error) {
	points := pricing.PointsFor(total)
	if points == 0 {
		return s.customers.FindByID(ctx, customerId)
	}
	c, err := s.customers.AddLoyaltyPoints(ctx, customerId, points, pricing.TierFor)
	if err != nil {
		return nil, err
	}
	log.Info().Uint("user_id", customerId).Int("points", points).Str("tier", string(c.LoyaltyTier)).Msg("loyalty points awarded")
	return c, nil
}
