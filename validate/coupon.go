package validate

import (
	"dutyfree_shop/model"

	"github.com/gofiber/fiber/v2"
)

func ValidateCoupon() fiber.Handler {
	return body[model.ValidateCouponInput]()
}

func ApplyCoupon() fiber.Handler {
	return body[model.ApplyCouponInput]()
}

func CreateCoupon() fiber.Handler {
	return body[model.CreateCouponInput]()
}
