package handler

import (
	"dutyfree_shop/constants"
	"dutyfree_shop/model"
	"dutyfree_shop/utils"

	"github.com/gofiber/fiber/v2"
)

func (h *Handler) GetProducts(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.FilterProductInput)
	page, err := h.Catalog.ListProducts(c.UserContext(), input)
	if err != nil {
		return fail(c, err, constants.PRODUCT_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, model.ResponseCustom{
		Rows:       page.Products,
		Limit:      &page.Limit,
		Page:       &page.Page,
		TotalCount: page.TotalCount,
	})
}

func (h *Handler) GetProductBySlug(c *fiber.Ctx) error {
	product, err := h.Catalog.ProductBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err, constants.PRODUCT_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, product)
}

func (h *Handler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.Catalog.Categories(c.UserContext())
	if err != nil {
		return fail(c, err, constants.PRODUCT_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, categories)
}

func (h *Handler) GetReviews(c *fiber.Ctx) error {
	page, err := h.Reviews.List(c.UserContext(), inputId(c), c.QueryInt("limit", constants.DEFAULT_LIMIT), c.QueryInt("page", 1))
	if err != nil {
		return fail(c, err, constants.PRODUCT_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, page)
}

func (h *Handler) CreateReview(c *fiber.Ctx) error {
	input := c.Locals(constants.LOCALS_INPUT).(model.CreateReviewInput)
	review, err := h.Reviews.Create(c.UserContext(), currentCustomer(c).ID, input)
	if err != nil {
		return fail(c, err, constants.PRODUCT_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusCreated, review)
}

func (h *Handler) MarkReviewHelpful(c *fiber.Ctx) error {
	if err := h.Reviews.Helpful(c.UserContext(), inputId(c)); err != nil {
		return fail(c, err, constants.REVIEW_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, nil)
}

func (h *Handler) DeleteReview(c *fiber.Ctx) error {
	if err := h.Reviews.Delete(c.UserContext(), currentCustomer(c).ID, inputId(c)); err != nil {
		return fail(c, err, constants.REVIEW_NOT_FOUND)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, nil)
}

func (h *Handler) GetLoyalty(c *fiber.Ctx) error {
	summary, err := h.Loyalty.Summary(c.UserContext(), currentCustomer(c).ID)
	if err != nil {
		return fail(c, err, constants.ERROR_UNAUTHORIZED)
	}
	return utils.SuccessResponse(c, fiber.StatusOK, summary)
}
