package service

import (
	"context"
	"time"

	"dutyfree_shop/model"
	"dutyfree_shop/repository"
)

// The stores below are satisfied by the repository package.

type CouponStore interface {
	FindByCode(ctx context.Context, code string) (*model.Coupon, error)
	ListActive(ctx context.Context, tier model.LoyaltyTier, now time.Time) ([]model.Coupon, error)
	Create(ctx context.Context, coupon *model.Coupon) error
	Deactivate(ctx context.Context, id uint) error
	IncrementUsage(ctx context.Context, code string) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type OrderStore interface {
	Create(ctx context.Context, order *model.Order, reserveCode string) error
	FindByCode(ctx context.Context, code string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerId uint, limit int) ([]model.Order, error)
	TransitionStatus(ctx context.Context, id uint, from, to model.OrderStatus, extra map[string]any) error
	TransitionPayment(ctx context.Context, id uint, from, to model.PaymentStatus) error
	UpdatePickupTime(ctx context.Context, id uint, at time.Time) error
	HasCompletedPurchase(ctx context.Context, customerId, productId uint) (bool, error)
}

type QRStore interface {
	Create(ctx context.Context, qr *model.QRCode) error
	FindByCode(ctx context.Context, code string) (*model.QRCode, error)
	FindActiveByOrderCode(ctx context.Context, orderCode string) (*model.QRCode, error)
	ListByCustomer(ctx context.Context, customerId uint, activeOnly bool) ([]model.QRCode, error)
	Deactivate(ctx context.Context, code string) error
	DeactivateByOrderCode(ctx context.Context, orderCode string) (int64, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
	RecordScan(ctx context.Context, scan *model.QRScan) error
}

type CustomerStore interface {
	FindByID(ctx context.Context, id uint) (*model.Customer, error)
	AddLoyaltyPoints(ctx context.Context, id uint, points int, tierFor func(int) model.LoyaltyTier) (*model.Customer, error)
}

type ProductStore interface {
	List(ctx context.Context, f repository.ProductFilter) ([]model.Product, int64, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	Categories(ctx context.Context) ([]model.Category, error)
	UpdateRating(ctx context.Context, id uint, rating float64, reviews int) error
}

type ReviewStore interface {
	Create(ctx context.Context, review *model.Review) error
	FindByID(ctx context.Context, id uint) (*model.Review, error)
	ListByProduct(ctx context.Context, productId uint, limit, page int) ([]model.Review, error)
	Stats(ctx context.Context, productId uint) (model.ReviewStats, error)
	IncrementHelpful(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

var (
	_ CouponStore   = (*repository.CouponRepo)(nil)
	_ OrderStore    = (*repository.OrderRepo)(nil)
	_ QRStore       = (*repository.QRCodeRepo)(nil)
	_ CustomerStore = (*repository.CustomerRepo)(nil)
	_ ProductStore  = (*repository.ProductRepo)(nil)
	_ ReviewStore   = (*repository.ReviewRepo)(nil)
)
