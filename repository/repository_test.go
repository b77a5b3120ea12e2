package repository

import (
	"context"
	"testing"
	"time"

	"dutyfree_shop/database"
	"dutyfree_shop/model"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedCoupon(t *testing.T, db *gorm.DB, c model.Coupon) model.Coupon {
	t.Helper()
	require.NoError(t, db.Create(&c).Error)
	return c
}

func seedCustomer(t *testing.T, db *gorm.DB) model.Customer {
	t.Helper()
	c := model.Customer{Email: "ana@example.com", FirstName: "Ana", LastName: "Ruiz", LoyaltyTier: model.TierBronze, IsActive: true}
	require.NoError(t, db.Create(&c).Error)
	return c
}

func newOrder(code string, customerId uint, items ...model.OrderItem) *model.Order {
	return &model.Order{
		PublicCode:     code,
		CustomerId:     customerId,
		Items:          items,
		ItemsCount:     len(items),
		Subtotal:       money("100"),
		TaxAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
		Total:          money("100"),
		Status:         model.OrderPending,
		PaymentStatus:  model.PaymentPending,
		Terminal:       "T1",
	}
}

func item(productId uint, qty int) model.OrderItem {
	return model.OrderItem{ProductId: productId, Category: "alcohol", Quantity: qty, Price: money("50"), DiscountApplied: decimal.Zero, Subtotal: money("50").Mul(decimal.NewFromInt(int64(qty)))}
}

func TestCouponRepo_FindByCodeCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	seedCoupon(t, db, model.Coupon{Code: "WELCOME20", Type: model.DiscountPercentage, Value: money("20"), MinPurchase: money("50"), Active: true,
		Categories: []model.CouponCategory{{CategoryCode: "alcohol"}}})
	repo := NewCouponRepo(db)

	c, err := repo.FindByCode(ctx, " welcome20 ")
	require.NoError(t, err)
	assert.Equal(t, "WELCOME20", c.Code)
	assert.Equal(t, []string{"alcohol"}, c.CategoryCodes())
	assert.True(t, c.Value.Equal(money("20")))

	_, err = repo.FindByCode(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCouponRepo_ListActiveAndExpire(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	seedCoupon(t, db, model.Coupon{Code: "OPEN", Type: model.DiscountFixed, Value: money("5"), Active: true})
	seedCoupon(t, db, model.Coupon{Code: "GOLD", Type: model.DiscountFixed, Value: money("5"), Active: true, LoyaltyTierRequired: model.TierGold})
	seedCoupon(t, db, model.Coupon{Code: "LATER", Type: model.DiscountFixed, Value: money("5"), Active: true, ExpiryDate: &future})
	seedCoupon(t, db, model.Coupon{Code: "OLD", Type: model.DiscountFixed, Value: money("5"), Active: true, ExpiryDate: &past})
	seedCoupon(t, db, model.Coupon{Code: "USED", Type: model.DiscountFixed, Value: money("5"), Active: true, UsageLimit: intPtr(1), UsageCount: 1})
	seedCoupon(t, db, model.Coupon{Code: "OFF", Type: model.DiscountFixed, Value: money("5"), Active: false})
	repo := NewCouponRepo(db)

	codes := func(cs []model.Coupon) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.Code)
		}
		return out
	}

	bronze, err := repo.ListActive(ctx, model.TierBronze, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"OPEN", "LATER"}, codes(bronze))

	gold, err := repo.ListActive(ctx, model.TierGold, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"OPEN", "LATER", "GOLD"}, codes(gold))

	n, err := repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	old, err := repo.FindByCode(ctx, "OLD")
	require.NoError(t, err)
	assert.False(t, old.Active)
}

func intPtr(n int) *int { return &n }

func TestCouponRepo_IncrementAndDeactivate(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	c := seedCoupon(t, db, model.Coupon{Code: "TEN", Type: model.DiscountFixed, Value: money("10"), Active: true})
	repo := NewCouponRepo(db)

	require.NoError(t, repo.IncrementUsage(ctx, "TEN"))
	require.NoError(t, repo.IncrementUsage(ctx, "TEN"))
	assert.ErrorIs(t, repo.IncrementUsage(ctx, "NOPE"), ErrNotFound)

	require.NoError(t, repo.Deactivate(ctx, c.ID))
	assert.ErrorIs(t, repo.Deactivate(ctx, 9999), ErrNotFound)

	got, err := repo.FindByCode(ctx, "TEN")
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsageCount)
	assert.False(t, got.Active)
}

func TestOrderRepo_CreateIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cust := seedCustomer(t, db)
	repo := NewOrderRepo(db)

	order := newOrder("ORD-AAAA0001", cust.ID, item(1, 2), item(2, 1))
	require.NoError(t, repo.Create(ctx, order, ""))
	assert.NotZero(t, order.ID)

	got, err := repo.FindByCode(ctx, "ORD-AAAA0001")
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, uint(1), got.Items[0].ProductId)
	assert.True(t, got.Items[0].Subtotal.Equal(money("100")))

	// a failing item insert must not leave the header behind
	require.NoError(t, db.Migrator().DropTable(&model.OrderItem{}))
	broken := newOrder("ORD-BBBB0002", cust.ID, item(3, 1))
	require.Error(t, repo.Create(ctx, broken, ""))

	var headers int64
	require.NoError(t, db.Model(&model.Order{}).Where("public_code = ?", "ORD-BBBB0002").Count(&headers).Error)
	assert.Zero(t, headers)
}

func TestOrderRepo_StrictCouponReservation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cust := seedCustomer(t, db)
	seedCoupon(t, db, model.Coupon{Code: "ONCE", Type: model.DiscountFixed, Value: money("5"), Active: true, UsageLimit: intPtr(1)})
	repo := NewOrderRepo(db)

	require.NoError(t, repo.Create(ctx, newOrder("ORD-00000001", cust.ID, item(1, 1)), "ONCE"))

	err := repo.Create(ctx, newOrder("ORD-00000002", cust.ID, item(1, 1)), "ONCE")
	assert.ErrorIs(t, err, ErrCouponExhausted)
	_, err = repo.FindByCode(ctx, "ORD-00000002")
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := NewCouponRepo(db).FindByCode(ctx, "ONCE")
	require.NoError(t, err)
	assert.Equal(t, 1, c.UsageCount)
}

func TestOrderRepo_Transitions(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cust := seedCustomer(t, db)
	repo := NewOrderRepo(db)
	order := newOrder("ORD-CCCC0003", cust.ID, item(7, 1))
	require.NoError(t, repo.Create(ctx, order, ""))

	require.NoError(t, repo.TransitionStatus(ctx, order.ID, model.OrderPending, model.OrderReady, nil))
	assert.ErrorIs(t, repo.TransitionStatus(ctx, order.ID, model.OrderPending, model.OrderCancelled, nil), ErrStaleState)

	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, repo.TransitionStatus(ctx, order.ID, model.OrderReady, model.OrderCompleted,
		map[string]any{"collected_at": at, "collected_by": "Luis"}))

	require.NoError(t, repo.TransitionPayment(ctx, order.ID, model.PaymentPending, model.PaymentProcessing))
	assert.ErrorIs(t, repo.TransitionPayment(ctx, order.ID, model.PaymentPending, model.PaymentProcessing), ErrStaleState)
	require.NoError(t, repo.UpdatePickupTime(ctx, order.ID, at))

	got, err := repo.FindByCode(ctx, order.PublicCode)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCompleted, got.Status)
	assert.Equal(t, model.PaymentProcessing, got.PaymentStatus)
	assert.Equal(t, "Luis", got.CollectedBy)
	require.NotNil(t, got.CollectedAt)
	assert.True(t, at.Equal(*got.CollectedAt))

	bought, err := repo.HasCompletedPurchase(ctx, cust.ID, 7)
	require.NoError(t, err)
	assert.True(t, bought)
	bought, err = repo.HasCompletedPurchase(ctx, cust.ID, 8)
	require.NoError(t, err)
	assert.False(t, bought)
}

func TestOrderRepo_ListByCustomer(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cust := seedCustomer(t, db)
	repo := NewOrderRepo(db)
	for _, code := range []string{"ORD-1", "ORD-2", "ORD-3"} {
		require.NoError(t, repo.Create(ctx, newOrder(code, cust.ID, item(1, 1)), ""))
	}
	require.NoError(t, repo.Create(ctx, newOrder("ORD-X", cust.ID+1, item(1, 1)), ""))

	orders, err := repo.ListByCustomer(ctx, cust.ID, 2)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, "ORD-3", orders[0].PublicCode)
	assert.Len(t, orders[0].Items, 1)
}

func TestQRCodeRepo(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewQRCodeRepo(db)
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(7 * 24 * time.Hour)
	total := money("120")

	pickup := &model.QRCode{CustomerId: 1, Code: "DFS-ORDER-1", Type: model.QROrder, OrderCode: "ORD-1", Active: true, ExpiresAt: &future,
		Payload: model.QRPayload{Version: model.QRPayloadVersion, Kind: model.QROrder, UserId: 1, OrderCode: "ORD-1", OrderTotal: &total, GeneratedAt: now}}
	require.NoError(t, repo.Create(ctx, pickup))
	require.NoError(t, repo.Create(ctx, &model.QRCode{CustomerId: 1, Code: "DFS-LOYALTY-1", Type: model.QRLoyalty, Active: true, ExpiresAt: &past}))

	got, err := repo.FindActiveByOrderCode(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, "DFS-ORDER-1", got.Code)
	assert.Equal(t, model.QRPayloadVersion, got.Payload.Version)
	require.NotNil(t, got.Payload.OrderTotal)
	assert.True(t, got.Payload.OrderTotal.Equal(total))

	n, err := repo.DeactivateExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	active, err := repo.ListByCustomer(ctx, 1, true)
	require.NoError(t, err)
	assert.Len(t, active, 1)
	all, err := repo.ListByCustomer(ctx, 1, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	n, err = repo.DeactivateByOrderCode(ctx, "ORD-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = repo.FindActiveByOrderCode(ctx, "ORD-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Deactivate(ctx, "missing"), ErrNotFound)

	require.NoError(t, repo.RecordScan(ctx, &model.QRScan{OrderCode: "ORD-1", QRCode: "DFS-ORDER-1", ScannedAt: now, Result: model.ScanSuccess}))
	scans, err := repo.ListScans(ctx, "ORD-1")
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, model.ScanSuccess, scans[0].Result)
}

func TestProductAndReviewRepo(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	database.SeedData(db)
	products := NewProductRepo(db)
	reviews := NewReviewRepo(db)

	list, total, err := products.List(ctx, ProductFilter{Category: "perfumes", Limit: 10, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	_, total, err = products.List(ctx, ProductFilter{Search: "walker", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	p, err := products.FindBySlug(ctx, "johnnie-walker-blue-label-750ml")
	require.NoError(t, err)
	assert.Equal(t, "alcohol", p.Category)
	_, err = products.FindBySlug(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	cats, err := products.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 6)
	assert.Equal(t, "perfumes", cats[0].Code)
	assert.Equal(t, int64(2), cats[0].ProductsCount)

	cust := seedCustomer(t, db)
	for _, rating := range []int{5, 4, 4} {
		require.NoError(t, reviews.Create(ctx, &model.Review{ProductId: p.ID, CustomerId: cust.ID, Rating: rating}))
	}
	stats, err := reviews.Stats(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalReviews)
	assert.InDelta(t, 4.333, stats.AverageRating, 0.001)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 2, 5: 1}, stats.Distribution)

	listed, err := reviews.ListByProduct(ctx, p.ID, 10, 1)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "Ana Ruiz", listed[0].UserName)

	require.NoError(t, reviews.IncrementHelpful(ctx, listed[2].ID))
	listed, err = reviews.ListByProduct(ctx, p.ID, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, listed[0].HelpfulCount)

	require.NoError(t, reviews.Delete(ctx, listed[0].ID))
	assert.ErrorIs(t, reviews.Delete(ctx, listed[0].ID), ErrNotFound)

	require.NoError(t, products.UpdateRating(ctx, p.ID, 4.5, 2))
	p, err = products.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, p.ReviewsCount)
}

func TestCustomerRepo_AddLoyaltyPoints(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cust := seedCustomer(t, db)
	repo := NewCustomerRepo(db)
	tierFor := func(points int) model.LoyaltyTier {
		if points >= 1000 {
			return model.TierSilver
		}
		return model.TierBronze
	}

	c, err := repo.AddLoyaltyPoints(ctx, cust.ID, 600, tierFor)
	require.NoError(t, err)
	assert.Equal(t, 600, c.LoyaltyPoints)
	assert.Equal(t, model.TierBronze, c.LoyaltyTier)

	c, err = repo.AddLoyaltyPoints(ctx, cust.ID, 500, tierFor)
	require.NoError(t, err)
	assert.Equal(t, 1100, c.LoyaltyPoints)
	assert.Equal(t, model.TierSilver, c.LoyaltyTier)

	stored, err := repo.FindByID(ctx, cust.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TierSilver, stored.LoyaltyTier)

	_, err = repo.AddLoyaltyPoints(ctx, 999, 1, tierFor)
	assert.ErrorIs(t, err, ErrNotFound)
}
