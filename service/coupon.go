package service

import (
	"context"

	"dutyfree_shop/cache"
	"dutyfree_shop/model"
	"dutyfree_shop/pricing"

	"github.com/go-faster/errors"
	"github.com/jinzhu/copier"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CouponService struct {
	coupons CouponStore
	cache   cache.Store
	clock   clockwork.Clock
}

func NewCouponService(coupons CouponStore, store cache.Store, clock clockwork.Clock) *CouponService {
	return &CouponService{coupons: coupons, cache: store, clock: clock}
}

// Validate checks code against the cart. Rejections are returned as a
// Validation, errors only for persistence failures.
func (s *CouponService) Validate(ctx context.Context, code string, cart pricing.Cart, tier model.LoyaltyTier) (pricing.Validation, error) {
	code = pricing.NormalizeCode(code)
	if code == "" {
		couponValidations.WithLabelValues(string(pricing.ReasonInvalidCode)).Inc()
		return pricing.Reject(pricing.ReasonInvalidCode, "Please enter a coupon code"), nil
	}

	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return pricing.Validation{}, errors.Wrap(err, "load coupon")
	}

	v := pricing.ValidateCoupon(coupon, cart, tier, s.clock.Now())
	outcome := "accepted"
	if !v.Accepted {
		outcome = string(v.Reason)
	}
	couponValidations.WithLabelValues(outcome).Inc()
	log.Debug().Str("coupon", code).Str("outcome", outcome).Msg("coupon validated")
	return v, nil
}

func (s *CouponService) ListActive(ctx context.Context, tier model.LoyaltyTier) ([]model.Coupon, error) {
	return cache.GetOrSet(ctx, s.cache, cache.ActiveCouponsKey(string(tier)), cache.TTLMedium,
		func(ctx context.Context) ([]model.Coupon, error) {
			return s.coupons.ListActive(ctx, tier, s.clock.Now())
		})
}

// Apply records one use of the coupon. It is the standalone counterpart of
// the post-checkout increment.
func (s *CouponService) Apply(ctx context.Context, code string) error {
	code = pricing.NormalizeCode(code)
	if code == "" {
		return invalidInput("coupon code is required")
	}
	if err := s.coupons.IncrementUsage(ctx, code); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CouponService) Create(ctx context.Context, in model.CreateCouponInput) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := copier.Copy(&coupon, &in); err != nil {
		return nil, errors.Wrap(err, "copy coupon input")
	}
	coupon.Code = pricing.NormalizeCode(in.Code)
	coupon.Active = true
	coupon.Categories = nil
	for _, code := range in.Categories {
		coupon.Categories = append(coupon.Categories, model.CouponCategory{CategoryCode: code})
	}

	if coupon.Code == "" {
		return nil, invalidInput("coupon code is required")
	}
	if coupon.Value.IsNegative() || coupon.MinPurchase.IsNegative() {
		return nil, invalidInput("amounts must not be negative")
	}
	if coupon.Type == model.DiscountPercentage && coupon.Value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, invalidInput("percentage must be at most 100")
	}
	if coupon.Type == model.DiscountShipping && !coupon.MaxDiscount.Valid {
		return nil, invalidInput("shipping coupons need a max discount")
	}
	if coupon.MaxDiscount.Valid && coupon.MaxDiscount.Decimal.IsNegative() {
		return nil, invalidInput("max discount must not be negative")
	}

	if err := s.coupons.Create(ctx, &coupon); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	log.Info().Str("coupon", coupon.Code).Msg("coupon created")
	return &coupon, nil
}

func (s *CouponService) Deactivate(ctx context.Context, id uint) error {
	if err := s.coupons.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// ExpireCoupons switches off coupons past their expiry date.
func (s *CouponService) ExpireCoupons(ctx context.Context) (int64, error) {
	n, err := s.coupons.DeactivateExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate(ctx)
	}
	return n, nil
}

func (s *CouponService) invalidate(ctx context.Context) {
	cache.Invalidate(ctx, s.cache, cache.PrefixCoupons)
}
