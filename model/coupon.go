package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
	DiscountShipping   DiscountType = "shipping"
)

type Coupon struct {
	DTO
	Code          string              `gorm:"uniqueIndex;size:50;not null" json:"code"` // always upper case
	Type          DiscountType        `gorm:"size:20;not null" json:"type"`
	Value         decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"value"`
	DescriptionEn string              `gorm:"type:text" json:"descriptionEn"`
	DescriptionEs string              `gorm:"type:text" json:"descriptionEs"`
	MinPurchase   decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"minPurchase"`
	MaxDiscount   decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"maxDiscount"`
	Active        bool                `gorm:"not null;index" json:"active"`
	ExpiryDate    *time.Time          `gorm:"index" json:"expiryDate,omitempty"`
	UsageLimit    *int                `json:"usageLimit,omitempty"`
	UsageCount    int                 `gorm:"not null;default:0" json:"usageCount"`

	LoyaltyTierRequired LoyaltyTier      `gorm:"size:20" json:"loyaltyTierRequired,omitempty"`
	Categories          []CouponCategory `gorm:"foreignKey:CouponId;constraint:OnDelete:CASCADE" json:"categories,omitempty"`
}

type CouponCategory struct {
	CouponId     uint   `gorm:"primaryKey" json:"-"`
	CategoryCode string `gorm:"primaryKey;size:50" json:"categoryCode"`
}

// CategoryCodes returns the eligible category codes; empty means any category.
func (c Coupon) CategoryCodes() []string {
	codes := make([]string, 0, len(c.Categories))
	for _, cc := range c.Categories {
		codes = append(codes, cc.CategoryCode)
	}
	return codes
}

type CreateCouponInput struct {
	Code                string              `json:"code" validate:"required,max=50"`
	Type                DiscountType        `json:"type" validate:"required,oneof=percentage fixed shipping"`
	Value               decimal.Decimal     `json:"value"`
	DescriptionEn       string              `json:"descriptionEn"`
	DescriptionEs       string              `json:"descriptionEs"`
	MinPurchase         decimal.Decimal     `json:"minPurchase"`
	MaxDiscount         decimal.NullDecimal `json:"maxDiscount"`
	ExpiryDate          *time.Time          `json:"expiryDate"`
	UsageLimit          *int                `json:"usageLimit" validate:"omitempty,gt=0"`
	LoyaltyTierRequired LoyaltyTier         `json:"loyaltyTierRequired" validate:"omitempty,oneof=bronze silver gold platinum"`
	Categories          []string            `json:"categories" validate:"omitempty,dive,required" copier:"-"`
}

type ValidateCouponInput struct {
	Code       string          `json:"code" validate:"required"`
	CartTotal  decimal.Decimal `json:"cartTotal"`
	Categories []string        `json:"categories" validate:"required"`
	UserTier   LoyaltyTier     `json:"userTier" validate:"omitempty,oneof=bronze silver gold platinum"`
}

type ApplyCouponInput struct {
	Code      string `json:"code" validate:"required"`
	OrderCode string `json:"orderCode" validate:"required"`
}
