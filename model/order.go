package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderReady     OrderStatus = "ready"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderReady, OrderCancelled},
	OrderReady:   {OrderCompleted, OrderCancelled},
}

// CanTransitionTo reports whether the order lifecycle allows moving to next.
// completed and cancelled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:    {PaymentProcessing},
	PaymentProcessing: {PaymentCompleted, PaymentFailed, PaymentRefunded},
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	DTO
	PublicCode string      `gorm:"uniqueIndex;size:20;not null" json:"orderCode"` // ORD-XXXXXXXX
	CustomerId uint        `gorm:"not null;index" json:"customerId"`
	Items      []OrderItem `gorm:"foreignKey:OrderId;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	ItemsCount int         `gorm:"not null" json:"itemsCount"`

	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"taxAmount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discountAmount"`
	CouponCode     *string         `gorm:"size:50" json:"couponCode,omitempty"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`

	Status          OrderStatus   `gorm:"size:20;not null;index" json:"status"`
	PaymentStatus   PaymentStatus `gorm:"size:20;not null" json:"paymentStatus"`
	PaymentMethod   string        `gorm:"size:30" json:"paymentMethod,omitempty"`
	PaymentMethodId string        `gorm:"size:100" json:"-"`

	Terminal   string     `gorm:"size:50;not null" json:"terminal"`
	PickupTime *time.Time `json:"pickupTime,omitempty"`

	CustomerName        string `json:"customerName,omitempty"`
	CustomerEmail       string `json:"customerEmail,omitempty"`
	CustomerPhone       string `json:"customerPhone,omitempty"`
	CustomerPassport    string `json:"customerPassport,omitempty"`
	CustomerNationality string `json:"customerNationality,omitempty"`

	FlightNumber     string     `gorm:"size:20" json:"flightNumber,omitempty"`
	FlightDate       *time.Time `json:"flightDate,omitempty"`
	DepartureAirport string     `gorm:"size:10" json:"departureAirport,omitempty"`
	ArrivalAirport   string     `gorm:"size:10" json:"arrivalAirport,omitempty"`

	PickupLocation     string     `json:"pickupLocation,omitempty"`
	PickupInstructions string     `gorm:"type:text" json:"pickupInstructions,omitempty"`
	CollectedAt        *time.Time `json:"collectedAt,omitempty"`
	CollectedBy        string     `json:"collectedBy,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	Notes              string     `gorm:"type:text" json:"notes,omitempty"`
}

type OrderItem struct {
	DTO
	OrderId         uint            `gorm:"not null;index" json:"-"`
	ProductId       uint            `gorm:"not null;index" json:"productId"`
	Category        string          `gorm:"size:50" json:"category"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountApplied decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discountApplied"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}

// OrderView is the order as returned to clients. The pickup QR is looked up
// by order code and never stored on the order row.
type OrderView struct {
	Order
	PickupQRCode *string `json:"pickupQrCode"`
	PickupQR     *QRCode `json:"pickupQr,omitempty"`
}

type CheckoutItemInput struct {
	ProductId uint            `json:"productId" validate:"required"`
	Category  string          `json:"category"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price"`
	Discount  decimal.Decimal `json:"discount"`
}

// CheckoutDetails carries the optional order metadata; field names match
// Order so it can be copied across.
type CheckoutDetails struct {
	PaymentMethod   string `json:"paymentMethod"`
	PaymentMethodId string `json:"paymentMethodId"`

	CustomerName        string `json:"customerName"`
	CustomerEmail       string `json:"customerEmail" validate:"omitempty,email"`
	CustomerPhone       string `json:"customerPhone"`
	CustomerPassport    string `json:"customerPassport"`
	CustomerNationality string `json:"customerNationality"`

	FlightNumber     string     `json:"flightNumber"`
	FlightDate       *time.Time `json:"flightDate"`
	DepartureAirport string     `json:"departureAirport"`
	ArrivalAirport   string     `json:"arrivalAirport"`

	PickupLocation     string `json:"pickupLocation"`
	PickupInstructions string `json:"pickupInstructions"`
	Notes              string `json:"notes"`
}

type CreateOrderInput struct {
	Items      []CheckoutItemInput `json:"items" validate:"required,min=1,dive"`
	Terminal   string              `json:"terminal" validate:"required"`
	CouponCode string              `json:"couponCode"`
	CheckoutDetails
}

type UpdateOrderStatusInput struct {
	Status OrderStatus `json:"status" validate:"required,oneof=pending ready completed cancelled"`
}

type UpdatePaymentStatusInput struct {
	PaymentStatus PaymentStatus `json:"paymentStatus" validate:"required,oneof=pending processing completed failed refunded"`
}

type PickupTimeInput struct {
	PickupTime time.Time `json:"pickupTime" validate:"required"`
}

type CollectOrderInput struct {
	QRCode    string `json:"qrCode" validate:"required"`
	StaffName string `json:"staffName" validate:"required"`
	Terminal  string `json:"terminal"`
	DeviceId  string `json:"deviceId"`
}

type OrderStatusEvent struct {
	OrderCode     string        `json:"orderCode"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	At            time.Time     `json:"at"`
}
