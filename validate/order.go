package validate

import (
	"dutyfree_shop/model"

	"github.com/gofiber/fiber/v2"
)

func CreateOrder() fiber.Handler {
	return body[model.CreateOrderInput]()
}

func UpdateOrderStatus() fiber.Handler {
	return body[model.UpdateOrderStatusInput]()
}

func UpdatePaymentStatus() fiber.Handler {
	return body[model.UpdatePaymentStatusInput]()
}

func PickupTime() fiber.Handler {
	return body[model.PickupTimeInput]()
}

func CollectOrder() fiber.Handler {
	return body[model.CollectOrderInput]()
}
