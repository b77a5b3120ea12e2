package repository

import (
	"context"
	"strings"

	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

type ProductFilter struct {
	Category string
	Terminal string
	Featured *bool
	Search   string
	Limit    int
	Page     int
}

func (r *ProductRepo) List(ctx context.Context, f ProductFilter) ([]model.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.Terminal != "" {
		q = q.Where("terminal = ?", f.Terminal)
	}
	if f.Featured != nil {
		q = q.Where("featured = ?", *f.Featured)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name_en) LIKE ? OR LOWER(name_es) LIKE ? OR LOWER(brand) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	var products []model.Product
	err := q.Order("featured desc, id").Limit(f.Limit).Offset(offset(f.Limit, f.Page)).Find(&products).Error
	if err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	return products, total, nil
}

func (r *ProductRepo) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProductRepo) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// Categories lists categories in display order with their product counts.
func (r *ProductRepo) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("display_order, code").Find(&categories).Error; err != nil {
		return nil, errors.Wrap(err, "list categories")
	}

	var counts []struct {
		Category string
		N        int64
	}
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("category, COUNT(*) AS n").
		Group("category").
		Scan(&counts).Error
	if err != nil {
		return nil, errors.Wrap(err, "count products per category")
	}
	byCode := make(map[string]int64, len(counts))
	for _, c := range counts {
		byCode[c.Category] = c.N
	}
	for i := range categories {
		categories[i].ProductsCount = byCode[categories[i].Code]
	}
	return categories, nil
}

func (r *ProductRepo) UpdateRating(ctx context.Context, id uint, rating float64, reviews int) error {
	err := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).
		Updates(map[string]any{"rating": rating, "reviews_count": reviews}).Error
	if err != nil {
		return errors.Wrap(err, "update product rating")
	}
	return nil
}
