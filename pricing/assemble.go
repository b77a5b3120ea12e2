package pricing

import (
	"dutyfree_shop/model"

	"github.com/shopspring/decimal"
)

// Line is one cart entry. Discount is per unit and independent of any coupon.
type Line struct {
	ProductId uint
	Category  string
	Quantity  int
	UnitPrice decimal.Decimal
	Discount  decimal.Decimal
}

type PricedLine struct {
	Line
	DiscountApplied decimal.Decimal
	Subtotal        decimal.Decimal
}

type Quote struct {
	Lines          []PricedLine
	Subtotal       decimal.Decimal // before any discount
	LineDiscount   decimal.Decimal
	CouponDiscount decimal.Decimal
	Discount       decimal.Decimal // line + coupon
	Tax            decimal.Decimal
	Total          decimal.Decimal
	ItemsCount     int
}

func priceLine(l Line) PricedLine {
	qty := decimal.NewFromInt(int64(l.Quantity))
	unitDiscount := l.Discount
	if unitDiscount.IsNegative() {
		unitDiscount = decimal.Zero
	}
	unitDiscount = decimal.Min(unitDiscount, l.UnitPrice)
	discount := unitDiscount.Mul(qty).Round(2)
	gross := l.UnitPrice.Mul(qty).Round(2)
	return PricedLine{Line: l, DiscountApplied: discount, Subtotal: gross.Sub(discount)}
}

// CartFromLines builds the coupon check snapshot: the subtotal after line
// discounts and the distinct categories in first-seen order.
func CartFromLines(lines []Line) Cart {
	cart := Cart{Subtotal: decimal.Zero}
	seen := map[string]bool{}
	for _, l := range lines {
		cart.Subtotal = cart.Subtotal.Add(priceLine(l).Subtotal)
		if l.Category != "" && !seen[l.Category] {
			seen[l.Category] = true
			cart.Categories = append(cart.Categories, l.Category)
		}
	}
	return cart
}

// Assemble prices the lines, applies the coupon (nil for none) to the
// post-line-discount subtotal and adds tax on what remains.
func Assemble(lines []Line, coupon *model.Coupon, taxRate decimal.Decimal) Quote {
	q := Quote{
		Lines:        make([]PricedLine, 0, len(lines)),
		Subtotal:     decimal.Zero,
		LineDiscount: decimal.Zero,
	}
	for _, l := range lines {
		pl := priceLine(l)
		q.Lines = append(q.Lines, pl)
		q.Subtotal = q.Subtotal.Add(pl.Subtotal.Add(pl.DiscountApplied))
		q.LineDiscount = q.LineDiscount.Add(pl.DiscountApplied)
		q.ItemsCount += l.Quantity
	}

	net := q.Subtotal.Sub(q.LineDiscount)
	q.CouponDiscount = CalculateDiscount(coupon, net)
	q.Discount = q.LineDiscount.Add(q.CouponDiscount)

	taxable := q.Subtotal.Sub(q.Discount)
	q.Tax = taxable.Mul(taxRate).Round(2)
	q.Total = taxable.Add(q.Tax)
	return q
}
