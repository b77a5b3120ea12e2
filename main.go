package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dutyfree_shop/cache"
	"dutyfree_shop/config"
	"dutyfree_shop/database"
	"dutyfree_shop/handler"
	"dutyfree_shop/helper"
	"dutyfree_shop/middleware"
	"dutyfree_shop/repository"
	"dutyfree_shop/router"
	"dutyfree_shop/service"
	"dutyfree_shop/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func main() {
	settings := config.Load()
	config.SetupLogger(settings)
	if settings.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	database.ConnectDB(settings)
	db := database.DB
	clock := clockwork.NewRealClock()

	rdb := redis.NewClient(&redis.Options{Addr: settings.RedisAddr})
	redisUp := true
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		redisUp = false
		log.Warn().Err(err).Str("addr", settings.RedisAddr).Msg("redis unavailable, order updates disabled")
	}

	var store cache.Store
	var cleaner helper.CacheCleaner
	switch settings.CacheBackend {
	case "redis":
		if !redisUp {
			log.Fatal().Msg("CACHE_BACKEND=redis but redis is unreachable")
		}
		store = cache.NewRedis(rdb, "dutyfree")
	default:
		mem := cache.NewMemory(settings.CacheCapacity, clock)
		store, cleaner = mem, mem
	}
	log.Info().Str("backend", settings.CacheBackend).Msg("cache ready")

	mailer, err := utils.NewMailer(settings.SMTP)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load mail templates")
	}

	orderRepo := repository.NewOrderRepo(db)
	productRepo := repository.NewProductRepo(db)
	customerRepo := repository.NewCustomerRepo(db)

	coupons := service.NewCouponService(repository.NewCouponRepo(db), store, clock)
	qr := service.NewQRService(repository.NewQRCodeRepo(db), clock, settings.QRValidity)
	loyalty := service.NewLoyaltyService(customerRepo)
	catalog := service.NewCatalogService(productRepo, store)

	h := &handler.Handler{
		Coupons: coupons,
		Checkout: service.NewCheckoutService(orderRepo, coupons, qr, mailer, service.CheckoutConfig{
			TaxRate:           settings.TaxRate,
			StrictCouponUsage: settings.StrictCouponUsage,
		}),
		QR:      qr,
		Loyalty: loyalty,
		Catalog: catalog,
		Reviews: service.NewReviewService(repository.NewReviewRepo(db), productRepo, orderRepo, catalog),
	}
	var notifier service.Notifier = service.NopNotifier{}
	if redisUp {
		h.Events = service.NewRedisNotifier(rdb)
		notifier = h.Events
	}
	h.Orders = service.NewOrderService(orderRepo, qr, loyalty, notifier, clock)

	schedulers, err := helper.StartSchedulers(coupons, qr, cleaner, time.UTC)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start schedulers")
	}

	app := fiber.New(fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     settings.CorsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Authorization, Accept",
		AllowCredentials: true,
		ExposeHeaders:    "Set-Cookie",
		MaxAge:           600,
	}))

	router.SetupRoutes(app, h, middleware.NewAuth(settings.JWTSecret, customerRepo))

	go func() {
		if err := app.Listen(":" + settings.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	schedulers.Stop()
	mailer.Wait()
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("close redis")
	}
}
