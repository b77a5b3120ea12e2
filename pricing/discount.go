package pricing

import (
	"dutyfree_shop/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateDiscount returns the amount the coupon takes off subtotal. The
// result is rounded to cents and always lies in [0, subtotal].
func CalculateDiscount(coupon *model.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil || !subtotal.IsPositive() {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch coupon.Type {
	case model.DiscountPercentage:
		amount = subtotal.Mul(coupon.Value).Div(hundred).Round(2)
		amount = capAt(amount, coupon.MaxDiscount)
	case model.DiscountFixed:
		amount = capAt(coupon.Value, coupon.MaxDiscount)
	case model.DiscountShipping:
		// the cap is the discount
		if coupon.MaxDiscount.Valid {
			amount = coupon.MaxDiscount.Decimal
		}
	}

	if amount.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(amount, subtotal).Round(2)
}

func capAt(amount decimal.Decimal, max decimal.NullDecimal) decimal.Decimal {
	if max.Valid && amount.GreaterThan(max.Decimal) {
		return max.Decimal
	}
	return amount
}
