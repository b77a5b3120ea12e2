package handler

import (
	"dutyfree_shop/constants"
	"dutyfree_shop/helper"
	"dutyfree_shop/model"
	"dutyfree_shop/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetMyQRCodes(c *fiber.Ctx) error {
	customer := currentCustomer(c)
	codes, err := h.QR.List(c.UserContext(), customer.ID, c.QueryBool("activeOnly", true))
	if err != nil {
		return fail(c, err, constants.QR_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, codes)
}

func (h *Handler) GenerateQRCode(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.GenerateQRInput)
	qr, err := h.QR.Generate(c.UserContext(), currentCustomer(c), input)
	if err != nil {
		return fail(c, err, constants.QR_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, qr)
}

func (h *Handler) GetQRCode(c *fiber.Ctx) error {
	customer := currentCustomer(c)
	qr, err := h.QR.GetOwned(c.UserContext(), customer.ID, c.Params("code"))
	if err != nil {
		return fail(c, err, constants.QR_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, qr)
}

// GetQRCodeImage renders the code as a PNG for printing or kiosk display.
func (h *Handler) GetQRCodeImage(c *fiber.Ctx) error {
	customer := currentCustomer(c)
	qr, err := h.QR.GetOwned(c.UserContext(), customer.ID, c.Params("code"))
	if err != nil {
		return fail(c, err, constants.QR_NOT_FOUND)
	}
	img, err := utils.GenerateQRCode(qr.Code, c.QueryInt("size", utils.QRDefaultSize))
	if err != nil {
		return fail(c, err, constants.QR_NOT_FOUND)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "private, max-age=300")
	return c.Send(img)
}

func (h *Handler) DeactivateQRCode(c *fiber.Ctx) error {
	customer := currentCustomer(c)
	if err := h.QR.Deactivate(c.UserContext(), customer.ID, c.Params("code")); err != nil {
		return fail(c, err, constants.QR_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{"message": constants.QR_DEACTIVATED})
}

// ValidateQRCode is the read-only check used by kiosks; nothing is recorded.
func (h *Handler) ValidateQRCode(c *fiber.Ctx) error {
	v, err := h.QR.Validate(c.UserContext(), c.Params("code"))
	if err != nil {
		return fail(c, err, constants.QR_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, v)
}

func (h *Handler) ScanQRCode(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.ScanQRInput)
	if input.ScannedBy == "" {
		if claim, _, ok := helper.GetInfoCustomerFromToken(c); ok {
			input.ScannedBy = claim.Username
		}
	}
	v, err := h.QR.Scan(c.UserContext(), input)
	if err != nil {
		return fail(c, err, constants.QR_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, v)
}
