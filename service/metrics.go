package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dutyfree",
		Name:      "orders_created_total",
		Help:      "Orders committed at checkout.",
	})
	couponValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dutyfree",
		Name:      "coupon_validations_total",
		Help:      "Coupon validations by outcome.",
	}, []string{"outcome"})
	qrIssueFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dutyfree",
		Name:      "qr_issue_failures_total",
		Help:      "Pickup QR codes that could not be issued after checkout.",
	})
	couponUsageFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "dutyfree",
		Name:      "coupon_usage_increment_failures_total",
		Help:      "Post-checkout coupon usage increments that failed.",
	})
)
