package repository

import (
	"context"
	"strings"
	"time"

	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

type CouponRepo struct {
	db *gorm.DB
}

func NewCouponRepo(db *gorm.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

// FindByCode looks the coupon up case-insensitively, with its categories.
func (r *CouponRepo) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("UPPER(code) = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&coupon).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &coupon, nil
}

// ListActive returns coupons a customer of tier could use right now. An
// empty tier only matches coupons without a tier requirement.
func (r *CouponRepo) ListActive(ctx context.Context, tier model.LoyaltyTier, now time.Time) ([]model.Coupon, error) {
	var coupons []model.Coupon
	err := r.db.WithContext(ctx).
		Preload("Categories").
		Where("active = ?", true).
		Where("expiry_date IS NULL OR expiry_date > ?", now).
		Where("usage_limit IS NULL OR usage_count < usage_limit").
		Where("loyalty_tier_required IS NULL OR loyalty_tier_required = '' OR loyalty_tier_required = ?", tier).
		Order("created_at desc").
		Find(&coupons).Error
	if err != nil {
		return nil, errors.Wrap(err, "list active coupons")
	}
	return coupons, nil
}

func (r *CouponRepo) Create(ctx context.Context, coupon *model.Coupon) error {
	if err := r.db.WithContext(ctx).Create(coupon).Error; err != nil {
		return errors.Wrap(err, "create coupon")
	}
	return nil
}

func (r *CouponRepo) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.Coupon{}).Where("id = ?", id).Update("active", false)
	if res.Error != nil {
		return errors.Wrap(res.Error, "deactivate coupon")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementUsage bumps the usage counter unconditionally.
func (r *CouponRepo) IncrementUsage(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("code = ?", code).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return errors.Wrap(res.Error, "increment coupon usage")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateExpired switches off every active coupon whose expiry has passed.
func (r *CouponRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Coupon{}).
		Where("active = ? AND expiry_date IS NOT NULL AND expiry_date <= ?", true, now).
		Update("active", false)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "deactivate expired coupons")
	}
	return res.RowsAffected, nil
}

// reserveCoupon consumes one use inside tx, failing when none are left.
func reserveCoupon(tx *gorm.DB, code string) error {
	res := tx.Model(&model.Coupon{}).
		Where("code = ? AND active = ?", code, true).
		Where("usage_limit IS NULL OR usage_count < usage_limit").
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return errors.Wrap(res.Error, "reserve coupon")
	}
	if res.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}
