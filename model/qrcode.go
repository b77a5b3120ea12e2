package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type QRType string

const (
	QRCustomer QRType = "customer"
	QRBoarding QRType = "boarding"
	QRLoyalty  QRType = "loyalty"
	QROrder    QRType = "order"
)

// QRPayloadVersion is bumped whenever QRPayload changes shape.
const QRPayloadVersion = 1

// QRPayload is the typed content behind a QR code. Only the fields relevant
// to Kind are populated.
type QRPayload struct {
	Version int    `json:"v"`
	Kind    QRType `json:"kind"`

	UserId        uint   `json:"userId"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	Passport      string `json:"passport,omitempty"`
	Nationality   string `json:"nationality,omitempty"`

	FlightNumber     string `json:"flightNumber,omitempty"`
	FlightDate       string `json:"flightDate,omitempty"`
	DepartureAirport string `json:"departureAirport,omitempty"`
	ArrivalAirport   string `json:"arrivalAirport,omitempty"`

	OrderCode  string           `json:"orderCode,omitempty"`
	OrderTotal *decimal.Decimal `json:"orderTotal,omitempty"`
	Terminal   string           `json:"terminal,omitempty"`

	LoyaltyTier   LoyaltyTier `json:"loyaltyTier,omitempty"`
	LoyaltyPoints int         `json:"loyaltyPoints,omitempty"`
	CardNumber    string      `json:"cardNumber,omitempty"`

	GeneratedAt time.Time  `json:"generatedAt"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
}

type QRCode struct {
	DTO
	CustomerId uint      `gorm:"not null;index" json:"customerId"`
	Code       string    `gorm:"uniqueIndex;size:80;not null" json:"code"`
	Payload    QRPayload `gorm:"serializer:json;type:text;not null" json:"payload"`
	Type       QRType    `gorm:"size:20;not null" json:"type"`
	Purpose    string    `json:"purpose,omitempty"`
	FlightId   string    `gorm:"size:50" json:"flightId,omitempty"`
	// OrderCode is a lookup key, not an ownership relation.
	OrderCode string     `gorm:"size:20;index" json:"orderCode,omitempty"`
	Active    bool       `gorm:"not null;index" json:"active"`
	ExpiresAt *time.Time `gorm:"index" json:"expiresAt,omitempty"`
}

type QRScanResult string

const (
	ScanSuccess QRScanResult = "success"
	ScanFailed  QRScanResult = "failed"
	ScanInvalid QRScanResult = "invalid"
	ScanExpired QRScanResult = "expired"
)

type QRScan struct {
	DTO
	OrderCode    string       `gorm:"size:20;not null;index" json:"orderCode"`
	QRCode       string       `gorm:"size:80;not null" json:"qrCode"`
	ScannedBy    string       `json:"scannedBy,omitempty"`
	ScannedAt    time.Time    `gorm:"not null" json:"scannedAt"`
	ScanLocation string       `json:"scanLocation,omitempty"`
	Terminal     string       `json:"terminal,omitempty"`
	DeviceId     string       `json:"deviceId,omitempty"`
	Result       QRScanResult `gorm:"size:20;not null" json:"result"`
	Notes        string       `json:"notes,omitempty"`
}

type GenerateQRInput struct {
	Type      QRType     `json:"type" validate:"omitempty,oneof=customer boarding loyalty order"`
	Purpose   string     `json:"purpose"`
	FlightId  string     `json:"flightId"`
	Data      QRPayload  `json:"qrData"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type ScanQRInput struct {
	QRCode       string `json:"qrCode" validate:"required"`
	OrderCode    string `json:"orderCode"`
	ScannedBy    string `json:"scannedBy"`
	ScanLocation string `json:"scanLocation"`
	Terminal     string `json:"terminal"`
	DeviceId     string `json:"deviceId"`
}
