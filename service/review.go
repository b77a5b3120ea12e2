package service

import (
	"context"
	"math"

	"dutyfree_shop/constants"
	"dutyfree_shop/model"

	"github.com/rs/zerolog/log"
)

type ReviewPage struct {
	Reviews []model.Review    `json:"reviews"`
	Stats   model.ReviewStats `json:"stats"`
}

type ReviewService struct {
	reviews  ReviewStore
	products ProductStore
	orders   OrderStore
	catalog  *CatalogService
}

func NewReviewService(reviews ReviewStore, products ProductStore, orders OrderStore, catalog *CatalogService) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, orders: orders, catalog: catalog}
}

func (s *ReviewService) List(ctx context.Context, productId uint, limit, page int) (ReviewPage, error) {
	if _, err := s.products.FindByID(ctx, productId); err != nil {
		return ReviewPage{}, err
	}
	if limit <= 0 {
		limit = constants.DEFAULT_LIMIT
	}
	reviews, err := s.reviews.ListByProduct(ctx, productId, limit, page)
	if err != nil {
		return ReviewPage{}, err
	}
	stats, err := s.reviews.Stats(ctx, productId)
	if err != nil {
		return ReviewPage{}, err
	}
	return ReviewPage{Reviews: reviews, Stats: stats}, nil
}

// Create stores the review, marking it verified when the customer has
// collected an order containing the product.
func (s *ReviewService) Create(ctx context.Context, customerId uint, in model.CreateReviewInput) (*model.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, invalidInput("rating must be between 1 and 5")
	}
	if _, err := s.products.FindByID(ctx, in.ProductId); err != nil {
		return nil, err
	}
	verified, err := s.orders.HasCompletedPurchase(ctx, customerId, in.ProductId)
	if err != nil {
		return nil, err
	}

	review := &model.Review{
		ProductId:  in.ProductId,
		CustomerId: customerId,
		Rating:     in.Rating,
		TitleEn:    in.TitleEn,
		TitleEs:    in.TitleEs,
		CommentEn:  in.CommentEn,
		CommentEs:  in.CommentEs,
		Verified:   verified,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.refreshRating(ctx, in.ProductId)
	return review, nil
}

func (s *ReviewService) Helpful(ctx context.Context, id uint) error {
	return s.reviews.IncrementHelpful(ctx, id)
}

// Delete removes a review; only its author may do so.
func (s *ReviewService) Delete(ctx context.Context, customerId, id uint) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if review.CustomerId != customerId {
		return ErrForbidden
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	s.refreshRating(ctx, review.ProductId)
	return nil
}

// refreshRating recomputes the product's rating and review count. The review
// write has already succeeded, so failures are only logged.
func (s *ReviewService) refreshRating(ctx context.Context, productId uint) {
	stats, err := s.reviews.Stats(ctx, productId)
	if err != nil {
		log.Error().Err(err).Uint("product_id", productId).Msg("failed to load review stats")
		return
	}
	rating := math.Round(stats.AverageRating*10) / 10
	if err := s.products.UpdateRating(ctx, productId, rating, int(stats.TotalReviews)); err != nil {
		log.Error().Err(err).Uint("product_id", productId).Msg("failed to update product rating")
		return
	}
	s.catalog.InvalidateProducts(ctx)
}
