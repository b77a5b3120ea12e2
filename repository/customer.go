package repository

import (
	"context"

	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

type CustomerRepo struct {
	db *gorm.DB
}

func NewCustomerRepo(db *gorm.DB) *CustomerRepo {
	return &CustomerRepo{db: db}
}

func (r *CustomerRepo) FindByID(ctx context.Context, id uint) (*model.Customer, error) {
	var c model.Customer
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// AddLoyaltyPoints adds points and stores the tier tierFor derives from the
// new balance, returning the updated customer.
func (r *CustomerRepo) AddLoyaltyPoints(ctx context.Context, id uint, points int, tierFor func(int) model.LoyaltyTier) (*model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Customer{}).Where("id = ?", id).
			UpdateColumn("loyalty_points", gorm.Expr("loyalty_points + ?", points))
		if res.Error != nil {
			return errors.Wrap(res.Error, "add loyalty points")
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.First(&c, id).Error; err != nil {
			return notFound(err)
		}
		tier := tierFor(c.LoyaltyPoints)
		if tier == c.LoyaltyTier {
			return nil
		}
		c.LoyaltyTier = tier
		return tx.Model(&model.Customer{}).Where("id = ?", id).UpdateColumn("loyalty_tier", tier).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}
