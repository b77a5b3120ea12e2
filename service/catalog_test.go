package service

import (
	"context"
	"testing"

	"dutyfree_shop/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	page, err := f.catalog.ListProducts(ctx, model.FilterProductInput{Category: "perfumes"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, 1, page.Page)

	_, err = f.catalog.ListProducts(ctx, model.FilterProductInput{Category: "perfumes"})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), f.cache.Stats().Hits)

	p, err := f.catalog.ProductBySlug(ctx, "johnnie-walker-blue-label-750ml")
	require.NoError(t, err)
	assert.Equal(t, "alcohol", p.Category)
	assert.Equal(t, "USD", p.Currency)

	_, err = f.catalog.ProductBySlug(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	categories, err := f.catalog.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 6)
	assert.Equal(t, "perfumes", categories[0].Code)
	assert.Equal(t, int64(2), categories[0].ProductsCount)
}

func TestReviews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	perfume := f.product(t, "Dior Sauvage Eau de Parfum 100ml")

	unverified, err := f.reviews.Create(ctx, f.customer.ID, model.CreateReviewInput{ProductId: perfume.ID, Rating: 4, TitleEn: "Nice"})
	require.NoError(t, err)
	assert.False(t, unverified.Verified)

	view := f.placeOrder(t, "", line(perfume.ID, "perfumes", 1, "98.50"))
	_, err = f.orders.UpdateStatus(ctx, view.PublicCode, model.OrderReady)
	require.NoError(t, err)
	_, err = f.orders.Collect(ctx, model.CollectOrderInput{QRCode: *view.PickupQRCode, StaffName: "luis"})
	require.NoError(t, err)

	verified, err := f.reviews.Create(ctx, f.customer.ID, model.CreateReviewInput{ProductId: perfume.ID, Rating: 5})
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	require.NoError(t, f.reviews.Helpful(ctx, unverified.ID))
	page, err := f.reviews.List(ctx, perfume.ID, 0, 1)
	require.NoError(t, err)
	require.Len(t, page.Reviews, 2)
	assert.Equal(t, unverified.ID, page.Reviews[0].ID, "most helpful first")
	assert.Equal(t, "Ana Ruiz", page.Reviews[0].UserName)
	assert.Equal(t, int64(2), page.Stats.TotalReviews)
	assert.InDelta(t, 4.5, page.Stats.AverageRating, 0.001)
	assert.Equal(t, 1, page.Stats.Distribution[5])

	p, err := f.catalog.ProductBySlug(ctx, perfume.Slug)
	require.NoError(t, err)
	assert.InDelta(t, 4.5, p.Rating, 0.001)
	assert.Equal(t, 2, p.ReviewsCount)

	assert.ErrorIs(t, f.reviews.Delete(ctx, f.customer.ID+1, verified.ID), ErrForbidden)
	require.NoError(t, f.reviews.Delete(ctx, f.customer.ID, verified.ID))
	p, err = f.catalog.ProductBySlug(ctx, perfume.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ReviewsCount)

	_, err = f.reviews.Create(ctx, f.customer.ID, model.CreateReviewInput{ProductId: 9999, Rating: 3})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.reviews.Create(ctx, f.customer.ID, model.CreateReviewInput{ProductId: perfume.ID, Rating: 6})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = f.reviews.List(ctx, 9999, 0, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
