package service

import (
	"context"
	"strings"

	"dutyfree_shop/cache"
	"dutyfree_shop/constants"
	"dutyfree_shop/model"
	"dutyfree_shop/repository"
)

type ProductPage struct {
	Products   []model.Product `json:"products"`
	Limit      int             `json:"limit"`
	Page       int             `json:"page"`
	TotalCount int64           `json:"totalCount"`
}

// CatalogService serves the product catalogue through the cache.
type CatalogService struct {
	products ProductStore
	cache    cache.Store
}

func NewCatalogService(products ProductStore, store cache.Store) *CatalogService {
	return &CatalogService{products: products, cache: store}
}

func (s *CatalogService) ListProducts(ctx context.Context, in model.FilterProductInput) (ProductPage, error) {
	f := repository.ProductFilter{
		Category: strings.TrimSpace(in.Category),
		Terminal: strings.TrimSpace(in.Terminal),
		Featured: in.Featured,
		Search:   strings.TrimSpace(in.Search),
		Limit:    constants.DEFAULT_LIMIT,
		Page:     1,
	}
	if in.Limit != nil && *in.Limit > 0 {
		f.Limit = *in.Limit
	}
	if in.Page != nil && *in.Page > 0 {
		f.Page = *in.Page
	}

	load := func(ctx context.Context) (ProductPage, error) {
		products, total, err := s.products.List(ctx, f)
		if err != nil {
			return ProductPage{}, err
		}
		return ProductPage{Products: products, Limit: f.Limit, Page: f.Page, TotalCount: total}, nil
	}
	// free-text searches are not worth caching
	if f.Search != "" {
		return load(ctx)
	}
	key := cache.ProductListKey(f.Category, f.Terminal, f.Featured, f.Limit, f.Page)
	return cache.GetOrSet(ctx, s.cache, key, cache.TTLShort, load)
}

func (s *CatalogService) ProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	p, err := cache.GetOrSet(ctx, s.cache, cache.ProductKey(slug), cache.TTLLong,
		func(ctx context.Context) (model.Product, error) {
			p, err := s.products.FindBySlug(ctx, slug)
			if err != nil {
				return model.Product{}, err
			}
			return *p, nil
		})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *CatalogService) Categories(ctx context.Context) ([]model.Category, error) {
	return cache.GetOrSet(ctx, s.cache, cache.KeyCategories, cache.TTLVeryLong, s.products.Categories)
}

// InvalidateProducts drops every cached product page and detail.
func (s *CatalogService) InvalidateProducts(ctx context.Context) {
	cache.Invalidate(ctx, s.cache, cache.PrefixProducts)
	cache.Invalidate(ctx, s.cache, cache.KeyCategories)
}
