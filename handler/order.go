package handler

import (
	"dutyfree_shop/constants"
	"dutyfree_shop/model"
	"dutyfree_shop/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func (h *Handler) CreateOrder(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.CreateOrderInput)
	customer := currentCustomer(c)

	view, err := h.Checkout.CreateOrder(c.UserContext(), customer, input)
	if err != nil {
		return fail(c, err, constants.COUPON_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, view)
}

func (h *Handler) GetMyOrders(c *fiber.Ctx) error {
	customer := currentCustomer(c)
	orders, err := h.Orders.List(c.UserContext(), customer.ID, c.QueryInt("limit", constants.DEFAULT_LIMIT))
	if err != nil {
		return fail(c, err, constants.ORDER_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, orders)
}

type orderDetail struct {
	*model.OrderView
	QRImage string `json:"qrImage,omitempty"`
}

func (h *Handler) GetOrderDetail(c *fiber.Ctx) error {
	customer := currentCustomer(c)
	view, err := h.Orders.Get(c.UserContext(), customer.ID, c.Params("orderCode"))
	if err != nil {
		return fail(c, err, constants.ORDER_NOT_FOUND)
	}

	detail := orderDetail{OrderView: view}
	if view.PickupQRCode != nil {
		uri, err := utils.QRDataURI(*view.PickupQRCode, 400)
		if err != nil {
			log.Warn().Err(err).Str("order_code", view.PublicCode).Msg("failed to render pickup qr")
		} else {
			detail.QRImage = uri
		}
	}
	return utils.SuccessResponse(c, fiber.StatusOK, detail)
}

func (h *Handler) UpdateOrderStatus(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.UpdateOrderStatusInput)
	view, err := h.Orders.UpdateStatus(c.UserContext(), c.Params("orderCode"), input.Status)
	if err != nil {
		return fail(c, err, constants.ORDER_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) UpdatePaymentStatus(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.UpdatePaymentStatusInput)
	view, err := h.Orders.UpdatePayment(c.UserContext(), c.Params("orderCode"), input.PaymentStatus)
	if err != nil {
		return fail(c, err, constants.ORDER_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) CancelOrder(c *fiber.Ctx) error {
	customer := currentCustomer(c)
	view, err := h.Orders.Cancel(c.UserContext(), customer.ID, c.Params("orderCode"))
	if err != nil {
		return fail(c, err, constants.ORDER_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) UpdatePickupTime(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.PickupTimeInput)
	customer := currentCustomer(c)
	view, err := h.Orders.SetPickupTime(c.UserContext(), customer.ID, c.Params("orderCode"), input.PickupTime)
	if err != nil {
		return fail(c, err, constants.ORDER_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}

func (h *Handler) CollectOrder(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.CollectOrderInput)
	view, err := h.Orders.Collect(c.UserContext(), input)
	if err != nil {
		return fail(c, err, constants.ORDER_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, view)
}
