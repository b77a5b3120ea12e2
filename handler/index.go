package handler

import (
	"dutyfree_shop/constants"
	"dutyfree_shop/helper"
	"dutyfree_shop/model"
	"dutyfree_shop/service"
	"dutyfree_shop/utils"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	Coupons  *service.CouponService
	Checkout *service.CheckoutService
	Orders   *service.OrderService
	QR       *service.QRService
	Loyalty  *service.LoyaltyService
	Catalog  *service.CatalogService
	Reviews  *service.ReviewService
	// Events is nil when Redis is not configured; the order stream is then
	// unavailable.
	Events *service.RedisNotifier
}

func currentCustomer(c *fiber.Ctx) *model.Customer {
	customer, _ := helper.CurrentCustomer(c)
	return customer
}

func inputId(c *fiber.Ctx) uint {
	id, _ := c.Locals("inputId").(uint)
	return id
}

// fail maps service errors onto HTTP statuses.
func fail(c *fiber.Ctx, err error, notFound string) error {
	var rejected *service.CouponRejectedError
	if errors.As(err, &rejected) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": rejected.Validation.Message,
			"error":   string(rejected.Validation.Reason),
		})
	}
	var qrRejected *service.QRRejectedError
	if errors.As(err, &qrRejected) {
		return utils.ErrorResponse(c, fiber.StatusUnprocessableEntity, "QR code cannot be used", err)
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, notFound, err)
	case errors.Is(err, service.ErrForbidden):
		return utils.ErrorResponse(c, fiber.StatusForbidden, constants.ERROR_FORBIDDEN, err)
	case errors.Is(err, service.ErrInvalidInput):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INVALID_INPUT, err)
	case errors.Is(err, service.ErrInvalidTransition):
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.ORDER_INVALID_TRANSITION, err)
	}

	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("request failed")
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, nil)
}
