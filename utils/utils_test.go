package utils

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dutyfree_shop/config"
	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQRCode(t *testing.T) {
	raw, err := GenerateQRCode("DFS-ORDER-ABC", 256)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())

	// out of range sizes fall back to the default
	raw, err = GenerateQRCode("DFS-ORDER-ABC", 5)
	require.NoError(t, err)
	img, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, QRDefaultSize, img.Bounds().Dx())

	uri, err := QRDataURI("DFS-ORDER-ABC", 128)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))
}

func testOrder() *model.Order {
	code := "WELCOME20"
	return &model.Order{
		PublicCode:     "ORD-1A2B3C4D",
		CustomerName:   "Ana Ruiz",
		CustomerEmail:  "ana@example.com",
		Terminal:       "T1",
		FlightNumber:   "IB6250",
		Subtotal:       decimal.RequireFromString("300"),
		DiscountAmount: decimal.RequireFromString("60"),
		TaxAmount:      decimal.RequireFromString("24"),
		Total:          decimal.RequireFromString("264"),
		CouponCode:     &code,
	}
}

func TestOrderConfirmationEmail(t *testing.T) {
	m, err := NewMailer(config.SMTPSettings{From: "shop@example.com"})
	require.NoError(t, err)

	expires := time.Date(2026, 5, 8, 10, 0, 0, 0, time.UTC)
	qr := &model.QRCode{Code: "DFS-ORDER-0011223344556677", ExpiresAt: &expires}

	msg, err := m.OrderConfirmation(testOrder(), qr)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Subject: Order confirmation #ORD-1A2B3C4D")
	assert.Contains(t, out, "To: ana@example.com")
	assert.Contains(t, out, "Content-ID: <pickup-qr.png>")
	assert.Contains(t, out, "image/png")
}

func TestOrderConfirmationData(t *testing.T) {
	data := NewOrderConfirmationData(testOrder(), nil)
	assert.Equal(t, "300.00", data.Subtotal)
	assert.Equal(t, "60.00", data.Discount)
	assert.True(t, data.HasDiscount)
	assert.Equal(t, "WELCOME20", data.CouponCode)
	assert.Equal(t, "264.00", data.Total)
	assert.False(t, data.HasQR)
}

func TestSendOrderConfirmation_SkippedWithoutSMTP(t *testing.T) {
	m, err := NewMailer(config.SMTPSettings{})
	require.NoError(t, err)
	m.SendOrderConfirmation(testOrder(), nil)
	m.Wait()
}

func TestResponses(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return SuccessResponse(c, fiber.StatusOK, fiber.Map{"n": 1})
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusNotFound, "Order not found", errors.New("record not found"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var ok struct {
		Status string         `json:"status"`
		Data   map[string]int `json:"data"`
	}
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &ok))
	assert.Equal(t, "success", ok.Status)
	assert.Equal(t, 1, ok.Data["n"])

	resp, err = app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var fail map[string]string
	body, _ = io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &fail))
	assert.Equal(t, "Order not found", fail["message"])
	assert.Equal(t, "record not found", fail["error"])
}
