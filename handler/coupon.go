package handler

import (
	"dutyfree_shop/constants"
	"dutyfree_shop/model"
	"dutyfree_shop/pricing"
	"dutyfree_shop/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// tierFor uses the signed in customer's stored tier. The requested tier only
// counts for guests browsing what a tier would unlock.
func tierFor(c *fiber.Ctx, requested model.LoyaltyTier) model.LoyaltyTier {
	if customer := currentCustomer(c); customer != nil {
		return customer.LoyaltyTier
	}
	return requested
}

func (h *Handler) GetCoupons(c *fiber.Ctx) error {
	tier := model.LoyaltyTier(c.Query("userTier"))
	switch tier {
	case "", model.TierBronze, model.TierSilver, model.TierGold, model.TierPlatinum:
	default:
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_INPUT, nil)
	}
	coupons, err := h.Coupons.ListActive(c.UserContext(), tierFor(c, tier))
	if err != nil {
		return fail(c, err, constants.COUPON_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, coupons)
}

type couponCheck struct {
	pricing.Validation
	FinalTotal *decimal.Decimal `json:"finalTotal,omitempty"`
}

// ValidateCoupon answers 200 for both outcomes; a rejection is a normal
// business result carried in the body.
func (h *Handler) ValidateCoupon(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.ValidateCouponInput)
	cart := pricing.Cart{Subtotal: input.CartTotal, Categories: input.Categories}

	v, err := h.Coupons.Validate(c.UserContext(), input.Code, cart, tierFor(c, input.UserTier))
	if err != nil {
		return fail(c, err, constants.COUPON_NOT_FOUND)
	}
	out := couponCheck{Validation: v}
	if v.Accepted {
		final := input.CartTotal.Sub(v.Discount)
		out.FinalTotal = &final
		out.Message = constants.COUPON_APPLIED
	}
	return utils.SuccessResponse(c, fiber.StatusOK, out)
}

// ApplyCoupon records a use of the coupon against one of the caller's orders.
func (h *Handler) ApplyCoupon(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.ApplyCouponInput)
	customer := currentCustomer(c)
	if _, err := h.Orders.Get(c.UserContext(), customer.ID, input.OrderCode); err != nil {
		return fail(c, err, constants.ORDER_NOT_FOUND)
	}
	if err := h.Coupons.Apply(c.UserContext(), input.Code); err != nil {
		return fail(c, err, constants.COUPON_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"code": pricing.NormalizeCode(input.Code), "orderCode": input.OrderCode})
}

func (h *Handler) CreateCoupon(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.CreateCouponInput)
	coupon, err := h.Coupons.Create(c.UserContext(), input)
	if err != nil {
		return fail(c, err, constants.COUPON_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, coupon)
}

func (h *Handler) DeactivateCoupon(c *fiber.Ctx) error {
	if err := h.Coupons.Deactivate(c.UserContext(), inputId(c)); err != nil {
		return fail(c, err, constants.COUPON_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": constants.COUPON_DEACTIVATED})
}
