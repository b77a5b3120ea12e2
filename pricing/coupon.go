// Package pricing holds the coupon, discount and order total rules. Every
// function here is pure: callers supply the coupon, the cart and the clock.
package pricing

import (
	"fmt"
	"strings"
	"time"

	"dutyfree_shop/model"

	"github.com/shopspring/decimal"
)

type Reason string

const (
	ReasonInvalidCode       Reason = "invalid_code"
	ReasonExpired           Reason = "expired"
	ReasonUsageLimitReached Reason = "usage_limit_reached"
	ReasonMinPurchaseNotMet Reason = "min_purchase_not_met"
	ReasonTierMismatch      Reason = "tier_mismatch"
	ReasonNotApplicable     Reason = "not_applicable"
)

// Cart is the snapshot a coupon is checked against.
type Cart struct {
	Subtotal   decimal.Decimal
	Categories []string
}

type Validation struct {
	Accepted bool            `json:"accepted"`
	Reason   Reason          `json:"reason,omitempty"`
	Message  string          `json:"message"`
	Coupon   *model.Coupon   `json:"coupon,omitempty"`
	Discount decimal.Decimal `json:"discount"`
}

// NormalizeCode trims and upper-cases a coupon code. Codes are stored upper case.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func Reject(reason Reason, msg string) Validation {
	return Validation{Reason: reason, Message: msg}
}

// ValidateCoupon runs the eligibility checks in order and stops at the first
// failure. A nil coupon means the code was not found.
func ValidateCoupon(coupon *model.Coupon, cart Cart, tier model.LoyaltyTier, now time.Time) Validation {
	if coupon == nil || !coupon.Active {
		return Reject(ReasonInvalidCode, "Invalid coupon code")
	}
	if coupon.ExpiryDate != nil && !coupon.ExpiryDate.After(now) {
		return Reject(ReasonExpired, "This coupon has expired")
	}
	if coupon.UsageLimit != nil && coupon.UsageCount >= *coupon.UsageLimit {
		return Reject(ReasonUsageLimitReached, "This coupon has reached its usage limit")
	}
	if cart.Subtotal.LessThan(coupon.MinPurchase) {
		shortfall := coupon.MinPurchase.Sub(cart.Subtotal)
		return Reject(ReasonMinPurchaseNotMet, fmt.Sprintf(
			"Minimum purchase of $%s required. Add $%s more to use this coupon.",
			coupon.MinPurchase.StringFixed(2), shortfall.StringFixed(2)))
	}
	if coupon.LoyaltyTierRequired != "" && coupon.LoyaltyTierRequired != tier {
		return Reject(ReasonTierMismatch, fmt.Sprintf(
			"This coupon is only available for %s members", coupon.LoyaltyTierRequired))
	}
	if codes := coupon.CategoryCodes(); len(codes) > 0 && !intersects(codes, cart.Categories) {
		return Reject(ReasonNotApplicable, "This coupon is not applicable to items in your cart")
	}

	return Validation{
		Accepted: true,
		Message:  "Coupon applied successfully",
		Coupon:   coupon,
		Discount: CalculateDiscount(coupon, cart.Subtotal),
	}
}

func intersects(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	for _, v := range b {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
