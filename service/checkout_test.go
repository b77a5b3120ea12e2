package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"dutyfree_shop/model"
	"dutyfree_shop/pricing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMoney(t *testing.T, want string, got interface{ String() string }) {
	t.Helper()
	assert.Equal(t, money(want).String(), got.String())
}

func TestCreateOrder_WithCoupon(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	whisky := f.product(t, "Johnnie Walker Blue Label 750ml")

	view := f.placeOrder(t, "welcome20", line(whisky.ID, "alcohol", 2, "150"))

	assert.True(t, strings.HasPrefix(view.PublicCode, "ORD-"))
	assert.Len(t, view.PublicCode, len("ORD-")+8)
	assert.Equal(t, model.OrderPending, view.Status)
	assert.Equal(t, model.PaymentPending, view.PaymentStatus)
	assertMoney(t, "300", view.Subtotal)
	assertMoney(t, "60", view.DiscountAmount)
	assertMoney(t, "24", view.TaxAmount)
	assertMoney(t, "264", view.Total)
	assert.Equal(t, 2, view.ItemsCount)
	require.NotNil(t, view.CouponCode)
	assert.Equal(t, "WELCOME20", *view.CouponCode)
	assert.Equal(t, "Ana Ruiz", view.CustomerName)
	assert.Equal(t, "ana@example.com", view.CustomerEmail)

	require.NotNil(t, view.PickupQRCode)
	assert.True(t, strings.HasPrefix(*view.PickupQRCode, "DFS-ORDER-"))
	require.NotNil(t, view.PickupQR)
	assert.Equal(t, view.PublicCode, view.PickupQR.Payload.OrderCode)
	assert.Equal(t, model.QRPayloadVersion, view.PickupQR.Payload.Version)
	require.NotNil(t, view.PickupQR.ExpiresAt)
	assert.Equal(t, f.clock.Now().Add(7*24*time.Hour).UTC(), view.PickupQR.ExpiresAt.UTC())

	assert.Equal(t, 1, f.coupon(t, "WELCOME20").UsageCount)
	assert.Equal(t, []string{view.PublicCode}, f.mailer.sent)

	// the QR code is not stored on the order row
	stored, err := f.orders.Get(ctx, f.customer.ID, view.PublicCode)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assertMoney(t, "300", stored.Items[0].Subtotal)
	require.NotNil(t, stored.PickupQRCode)
	assert.Equal(t, *view.PickupQRCode, *stored.PickupQRCode)
}

func TestCreateOrder_LineDiscountsAndTax(t *testing.T) {
	f := newFixture(t)
	perfume := f.product(t, "Chanel No. 5 Eau de Parfum 100ml")

	item := line(perfume.ID, "perfumes", 2, "110")
	item.Discount = money("20")
	view := f.placeOrder(t, "WELCOME20", item)

	// 220 gross, 40 off the lines, 20% of the remaining 180
	assertMoney(t, "220", view.Subtotal)
	assertMoney(t, "76", view.DiscountAmount)
	assertMoney(t, "14.40", view.TaxAmount)
	assertMoney(t, "158.40", view.Total)
	assertMoney(t, "40", view.Items[0].DiscountApplied)
	assertMoney(t, "180", view.Items[0].Subtotal)
}

func TestCreateOrder_CouponRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.checkout.CreateOrder(ctx, &f.customer, model.CreateOrderInput{
		Items:      []model.CheckoutItemInput{line(1, "confectionery", 2, "20")},
		Terminal:   "T1",
		CouponCode: "WELCOME20",
	})
	require.ErrorIs(t, err, ErrCouponRejected)
	var rejected *CouponRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, pricing.ReasonMinPurchaseNotMet, rejected.Validation.Reason)
	assert.Contains(t, rejected.Validation.Message, "$10.00")

	var n int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Zero(t, f.coupon(t, "WELCOME20").UsageCount)
}

func TestCreateOrder_UnknownCoupon(t *testing.T) {
	f := newFixture(t)
	_, err := f.checkout.CreateOrder(context.Background(), &f.customer, model.CreateOrderInput{
		Items:      []model.CheckoutItemInput{line(1, "alcohol", 1, "100")},
		Terminal:   "T1",
		CouponCode: "NOPE",
	})
	var rejected *CouponRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, pricing.ReasonInvalidCode, rejected.Validation.Reason)
}

func TestCreateOrder_RejectsBadInput(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.checkout.CreateOrder(ctx, &f.customer, model.CreateOrderInput{Terminal: "T1"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.checkout.CreateOrder(ctx, &f.customer, model.CreateOrderInput{
		Items: []model.CheckoutItemInput{line(1, "alcohol", 0, "10")}, Terminal: "T1",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.checkout.CreateOrder(ctx, &f.customer, model.CreateOrderInput{
		Items: []model.CheckoutItemInput{line(1, "alcohol", 1, "10")},
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreateOrder_QRFailureKeepsOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, brokenQR)

	view := f.placeOrder(t, "", line(1, "confectionery", 3, "9.99"))
	assert.Nil(t, view.PickupQRCode)
	assert.Nil(t, view.PickupQR)
	assertMoney(t, "29.97", view.Subtotal)
	assertMoney(t, "3.00", view.TaxAmount)
	assertMoney(t, "32.97", view.Total)

	stored, err := f.orders.Get(ctx, f.customer.ID, view.PublicCode)
	require.NoError(t, err)
	assert.Equal(t, model.OrderPending, stored.Status)
	assert.Nil(t, stored.PickupQRCode)
}

func TestCreateOrder_StrictUsageConsumesInTransaction(t *testing.T) {
	f := newFixture(t, strictUsage)
	f.placeOrder(t, "WELCOME20", line(1, "alcohol", 1, "100"))
	assert.Equal(t, 1, f.coupon(t, "WELCOME20").UsageCount)
}

func TestCreateOrder_StrictUsageExhausted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, strictUsage, staleCoupons)
	require.NoError(t, f.db.Model(&model.Coupon{}).Where("code = ?", "WELCOME20").
		Updates(map[string]any{"usage_limit": 1, "usage_count": 1}).Error)

	_, err := f.checkout.CreateOrder(ctx, &f.customer, model.CreateOrderInput{
		Items:      []model.CheckoutItemInput{line(1, "alcohol", 1, "100")},
		Terminal:   "T1",
		CouponCode: "WELCOME20",
	})
	var rejected *CouponRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, pricing.ReasonUsageLimitReached, rejected.Validation.Reason)

	var n int64
	require.NoError(t, f.db.Model(&model.Order{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.Equal(t, 1, f.coupon(t, "WELCOME20").UsageCount)
}
