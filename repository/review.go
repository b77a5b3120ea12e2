package repository

import (
	"context"

	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

type ReviewRepo struct {
	db *gorm.DB
}

func NewReviewRepo(db *gorm.DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

func (r *ReviewRepo) Create(ctx context.Context, review *model.Review) error {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return errors.Wrap(err, "create review")
	}
	return nil
}

func (r *ReviewRepo) FindByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &review, nil
}

// ListByProduct returns the product's reviews, most helpful first, with the
// author's display name.
func (r *ReviewRepo) ListByProduct(ctx context.Context, productId uint, limit, page int) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.WithContext(ctx).
		Select("reviews.*, customers.first_name || ' ' || customers.last_name AS user_name").
		Joins("LEFT JOIN customers ON customers.id = reviews.customer_id").
		Where("reviews.product_id = ?", productId).
		Order("reviews.helpful_count desc, reviews.created_at desc").
		Limit(limit).
		Offset(offset(limit, page)).
		Find(&reviews).Error
	if err != nil {
		return nil, errors.Wrap(err, "list reviews")
	}
	return reviews, nil
}

func (r *ReviewRepo) Stats(ctx context.Context, productId uint) (model.ReviewStats, error) {
	var rows []struct {
		Rating int
		N      int
	}
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Select("rating, COUNT(*) AS n").
		Where("product_id = ?", productId).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return model.ReviewStats{}, errors.Wrap(err, "review stats")
	}

	stats := model.ReviewStats{Distribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}
	sum := 0
	for _, row := range rows {
		stats.Distribution[row.Rating] = row.N
		stats.TotalReviews += int64(row.N)
		sum += row.Rating * row.N
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalReviews)
	}
	return stats, nil
}

func (r *ReviewRepo) IncrementHelpful(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", id).
		UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1"))
	if res.Error != nil {
		return errors.Wrap(res.Error, "mark review helpful")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Review{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete review")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
