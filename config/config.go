package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var loadEnv sync.Once

// Config reads a key from the environment, loading .env on first use.
func Config(key string) string {
	loadEnv.Do(func() {
		if err := godotenv.Load(); err != nil {
			log.Debug().Err(err).Msg("no .env file, using process environment")
		}
	})
	return os.Getenv(key)
}

type SMTPSettings struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s SMTPSettings) Enabled() bool {
	return s.Host != ""
}

type Settings struct {
	Env      string
	Port     string
	LogLevel string

	DBHost     string
	DBPort     uint64
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret   string
	CorsOrigins string

	RedisAddr     string
	CacheBackend  string
	CacheCapacity int

	TaxRate           decimal.Decimal
	StrictCouponUsage bool
	QRValidity        time.Duration

	SMTP SMTPSettings
}

// Load builds Settings from the environment, falling back to defaults for
// anything unset or malformed.
func Load() Settings {
	return Settings{
		Env:      withDefault(Config("APP_ENV"), "production"),
		Port:     withDefault(Config("PORT"), "8002"),
		LogLevel: withDefault(Config("LOG_LEVEL"), "INFO"),

		DBHost:     withDefault(Config("DB_HOST"), "localhost"),
		DBPort:     uintOr(Config("DB_PORT"), 5432),
		DBUser:     Config("DB_USER"),
		DBPassword: Config("DB_PASSWORD"),
		DBName:     Config("DB_NAME"),

		JWTSecret:   Config("JWT_SECRET"),
		CorsOrigins: withDefault(Config("CORS_ORIGINS"), "http://localhost:5173"),

		RedisAddr:     withDefault(Config("REDIS_ADDR"), "localhost:6379"),
		CacheBackend:  strings.ToLower(withDefault(Config("CACHE_BACKEND"), "memory")),
		CacheCapacity: intOr(Config("CACHE_CAPACITY"), 200),

		TaxRate:           decimalOr(Config("TAX_RATE"), decimal.Zero),
		StrictCouponUsage: boolOr(Config("STRICT_COUPON_USAGE"), false),
		QRValidity:        time.Duration(intOr(Config("QR_VALIDITY_HOURS"), 7*24)) * time.Hour,

		SMTP: SMTPSettings{
			Host:     Config("SMTP_HOST"),
			Port:     intOr(Config("SMTP_PORT"), 587),
			Username: Config("SMTP_USERNAME"),
			Password: Config("SMTP_PASSWORD"),
			From:     withDefault(Config("SMTP_FROM"), "Duty Free <orders@dutyfree.local>"),
		},
	}
}

func withDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func intOr(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return n
}

func uintOr(v string, def uint64) uint64 {
	n, err := strconv.ParseUint(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return def
	}
	return n
}

func boolOr(v string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

func decimalOr(v string, def decimal.Decimal) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil || d.IsNegative() {
		return def
	}
	return d
}
