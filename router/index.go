package router

import (
	"dutyfree_shop/handler"
	"dutyfree_shop/middleware"
	"dutyfree_shop/validate"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *fiber.App, h *handler.Handler, auth *middleware.Auth) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", logger.New())
	v1 := api.Group("/v1")

	v1.Get("/categories", h.GetCategories)

	products := v1.Group("/products")
	products.Get("/", validate.FilterProducts(), h.GetProducts)
	products.Get("/:slug", h.GetProductBySlug)
	products.Get("/:productId/reviews", validate.GetById("productId"), h.GetReviews)

	reviews := v1.Group("/reviews", auth.Protected())
	reviews.Post("/", validate.CreateReview(), h.CreateReview)
	reviews.Post("/:reviewId/helpful", validate.GetById("reviewId"), h.MarkReviewHelpful)
	reviews.Delete("/:reviewId", validate.GetById("reviewId"), h.DeleteReview)

	coupons := v1.Group("/coupons")
	coupons.Get("/", auth.OptionalJWT(), h.GetCoupons)
	coupons.Post("/validate", auth.OptionalJWT(), validate.ValidateCoupon(), h.ValidateCoupon)
	coupons.Post("/apply", auth.Protected(), validate.ApplyCoupon(), h.ApplyCoupon)

	admin := v1.Group("/admin", auth.Protected(), middleware.StaffOnly())
	admin.Post("/coupons", validate.CreateCoupon(), h.CreateCoupon)
	admin.Patch("/coupons/:couponId/deactivate", validate.GetById("couponId"), h.DeactivateCoupon)

	orders := v1.Group("/orders", auth.Protected())
	orders.Post("/", validate.CreateOrder(), h.CreateOrder)
	orders.Get("/", h.GetMyOrders)
	orders.Get("/:orderCode", h.GetOrderDetail)
	orders.Delete("/:orderCode", h.CancelOrder)
	orders.Get("/:orderCode/ws", h.WatchOrder, websocket.New(h.OrderStatusStream))
	orders.Patch("/:orderCode/pickup-time", validate.PickupTime(), h.UpdatePickupTime)
	orders.Patch("/:orderCode/status", middleware.StaffOnly(), validate.UpdateOrderStatus(), h.UpdateOrderStatus)
	orders.Patch("/:orderCode/payment", middleware.StaffOnly(), validate.UpdatePaymentStatus(), h.UpdatePaymentStatus)

	pickup := v1.Group("/pickup", auth.Protected(), middleware.StaffOnly())
	pickup.Post("/collect", validate.CollectOrder(), h.CollectOrder)

	qr := v1.Group("/qr-codes", auth.Protected())
	qr.Get("/", h.GetMyQRCodes)
	qr.Post("/", validate.GenerateQR(), h.GenerateQRCode)
	qr.Post("/validate", middleware.StaffOnly(), validate.ScanQR(), h.ScanQRCode)
	qr.Get("/:code", h.GetQRCode)
	qr.Get("/:code/image", h.GetQRCodeImage)
	qr.Get("/:code/validate", middleware.StaffOnly(), h.ValidateQRCode)
	qr.Delete("/:code", h.DeactivateQRCode)

	v1.Get("/loyalty", auth.Protected(), h.GetLoyalty)
}
