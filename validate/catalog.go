package validate

import (
	"dutyfree_shop/model"

	"github.com/gofiber/fiber/v2"
)

func FilterProducts() fiber.Handler {
	return query[model.FilterProductInput]()
}

func CreateReview() fiber.Handler {
	return body[model.CreateReviewInput]()
}

func GenerateQR() fiber.Handler {
	return body[model.GenerateQRInput]()
}

func ScanQR() fiber.Handler {
	return body[model.ScanQRInput]()
}
