package repository

import (
	"context"
	"time"

	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create writes the order header and all of its items in one transaction.
// When reserveCode is set, one use of that coupon is consumed in the same
// transaction and ErrCouponExhausted aborts the whole order.
func (r *OrderRepo) Create(ctx context.Context, order *model.Order, reserveCode string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if reserveCode != "" {
			if err := reserveCoupon(tx, reserveCode); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return errors.Wrap(err, "insert order")
		}
		if len(order.Items) == 0 {
			return nil
		}
		for i := range order.Items {
			order.Items[i].OrderId = order.ID
		}
		if err := tx.Create(&order.Items).Error; err != nil {
			return errors.Wrap(err, "insert order items")
		}
		return nil
	})
}

func (r *OrderRepo) FindByCode(ctx context.Context, code string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("public_code = ?", code).
		First(&order).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

// ListByCustomer returns the customer's orders, newest first.
func (r *OrderRepo) ListByCustomer(ctx context.Context, customerId uint, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerId).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}
	return orders, nil
}

// TransitionStatus moves the order from one status to another, applying the
// extra column updates in the same statement. ErrStaleState means the order
// was no longer in from.
func (r *OrderRepo) TransitionStatus(ctx context.Context, id uint, from, to model.OrderStatus, extra map[string]any) error {
	updates := map[string]any{"status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update order status")
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *OrderRepo) TransitionPayment(ctx context.Context, id uint, from, to model.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status = ?", id, from).
		Update("payment_status", to)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update payment status")
	}
	if res.RowsAffected == 0 {
		return ErrStaleState
	}
	return nil
}

func (r *OrderRepo) UpdatePickupTime(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).Where("id = ?", id).Update("pickup_time", at)
	if res.Error != nil {
		return errors.Wrap(res.Error, "update pickup time")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HasCompletedPurchase reports whether the customer collected an order
// containing the product.
func (r *OrderRepo) HasCompletedPurchase(ctx context.Context, customerId, productId uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.customer_id = ? AND orders.status = ? AND order_items.product_id = ?",
			customerId, model.OrderCompleted, productId).
		Count(&n).Error
	if err != nil {
		return false, errors.Wrap(err, "check purchase")
	}
	return n > 0, nil
}
