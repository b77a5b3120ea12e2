package model

import "github.com/shopspring/decimal"

type Category struct {
	DTO
	Code          string `gorm:"uniqueIndex;size:50;not null" json:"code"`
	NameEn        string `gorm:"not null" json:"nameEn"`
	NameEs        string `json:"nameEs"`
	ParentCode    string `gorm:"size:50" json:"parentCode,omitempty"`
	DisplayOrder  int    `json:"displayOrder"`
	ProductsCount int64  `gorm:"-" json:"productsCount"`
}

type Product struct {
	DTO
	Slug          string          `gorm:"uniqueIndex;size:200;not null" json:"slug"`
	NameEn        string          `gorm:"not null" json:"nameEn"`
	NameEs        string          `json:"nameEs"`
	DescriptionEn string          `gorm:"type:text" json:"descriptionEn"`
	DescriptionEs string          `gorm:"type:text" json:"descriptionEs"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	OriginalPrice decimal.Decimal `gorm:"type:decimal(12,2)" json:"originalPrice"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	Category      string          `gorm:"size:50;not null;index" json:"category"`
	SubCategory   string          `gorm:"size:50" json:"subCategory,omitempty"`
	Brand         string          `json:"brand"`
	ImageUrl      string          `json:"image"`
	Stock         int             `json:"stock"`
	Terminal      string          `gorm:"size:50;index" json:"terminal"`
	Featured      bool            `gorm:"index" json:"featured"`
	Rating        float64         `json:"rating"`
	ReviewsCount  int             `json:"reviews"`
}

type FilterProductInput struct {
	Pagination
	Category string `query:"category"`
	Terminal string `query:"terminal"`
	Featured *bool  `query:"featured"`
	Search   string `query:"search"`
}
