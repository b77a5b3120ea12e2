package database

import (
	"fmt"

	"dutyfree_shop/config"
	"dutyfree_shop/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDB(s config.Settings) {
	var err error

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", s.DBHost, s.DBPort, s.DBUser, s.DBPassword, s.DBName)
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(gormLogLevel(s.LogLevel)),
	})

	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	log.Info().Str("host", s.DBHost).Str("db", s.DBName).Msg("connection opened to database")
	if err := Migrate(DB); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}
	log.Info().Msg("database migrated")

	SeedData(DB)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Customer{},
		&model.Category{},
		&model.Product{},
		&model.Coupon{},
		&model.CouponCategory{},
		&model.Order{},
		&model.OrderItem{},
		&model.QRCode{},
		&model.QRScan{},
		&model.Review{},
	)
}

func gormLogLevel(level string) logger.LogLevel {
	if level == "DEBUG" {
		return logger.Info
	}
	return logger.Warn
}
