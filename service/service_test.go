package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"dutyfree_shop/cache"
	"dutyfree_shop/database"
	"dutyfree_shop/model"
	"dutyfree_shop/repository"

	"github.com/glebarez/sqlite"
	"github.com/go-faster/errors"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type recordingNotifier struct {
	mu     sync.Mutex
	events []model.OrderStatusEvent
}

func (n *recordingNotifier) Publish(_ context.Context, e model.OrderStatusEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return nil
}

func (n *recordingNotifier) statuses() []model.OrderStatus {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.OrderStatus, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Status)
	}
	return out
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) SendOrderConfirmation(order *model.Order, _ *model.QRCode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, order.PublicCode)
}

// brokenQRStore fails every insert.
type brokenQRStore struct {
	*repository.QRCodeRepo
}

func (brokenQRStore) Create(context.Context, *model.QRCode) error {
	return errors.New("qr store unavailable")
}

// staleCouponStore hands out a snapshot that still shows uses left.
type staleCouponStore struct {
	*repository.CouponRepo
}

func (s staleCouponStore) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	c, err := s.CouponRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	c.UsageCount = 0
	return c, nil
}

type fixture struct {
	db       *gorm.DB
	clock    *clockwork.FakeClock
	cache    *cache.Memory
	notifier *recordingNotifier
	mailer   *recordingMailer
	customer model.Customer

	coupons  *CouponService
	qr       *QRService
	loyalty  *LoyaltyService
	checkout *CheckoutService
	orders   *OrderService
	catalog  *CatalogService
	reviews  *ReviewService
}

type fixtureDeps struct {
	coupons CouponStore
	qr      QRStore
	strict  bool
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	database.SeedData(db)
	return db
}

func newFixture(t *testing.T, opts ...func(db *gorm.DB, d *fixtureDeps)) *fixture {
	t.Helper()
	db := newTestDB(t)

	deps := &fixtureDeps{
		coupons: repository.NewCouponRepo(db),
		qr:      repository.NewQRCodeRepo(db),
	}
	for _, opt := range opts {
		opt(db, deps)
	}

	f := &fixture{
		db:       db,
		clock:    clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)),
		notifier: &recordingNotifier{},
		mailer:   &recordingMailer{},
	}
	f.cache = cache.NewMemory(100, f.clock)
	f.customer = model.Customer{Email: "ana@example.com", FirstName: "Ana", LastName: "Ruiz", LoyaltyTier: model.TierBronze, IsActive: true}
	require.NoError(t, db.Create(&f.customer).Error)

	orderRepo := repository.NewOrderRepo(db)
	productRepo := repository.NewProductRepo(db)

	f.coupons = NewCouponService(deps.coupons, f.cache, f.clock)
	f.qr = NewQRService(deps.qr, f.clock, 7*24*time.Hour)
	f.loyalty = NewLoyaltyService(repository.NewCustomerRepo(db))
	f.checkout = NewCheckoutService(orderRepo, f.coupons, f.qr, f.mailer, CheckoutConfig{
		TaxRate:           money("0.10"),
		StrictCouponUsage: deps.strict,
	})
	f.orders = NewOrderService(orderRepo, f.qr, f.loyalty, f.notifier, f.clock)
	f.catalog = NewCatalogService(productRepo, f.cache)
	f.reviews = NewReviewService(repository.NewReviewRepo(db), productRepo, orderRepo, f.catalog)
	return f
}

func brokenQR(db *gorm.DB, d *fixtureDeps) {
	d.qr = brokenQRStore{repository.NewQRCodeRepo(db)}
}

func strictUsage(_ *gorm.DB, d *fixtureDeps) {
	d.strict = true
}

func staleCoupons(db *gorm.DB, d *fixtureDeps) {
	d.coupons = staleCouponStore{repository.NewCouponRepo(db)}
}

func (f *fixture) product(t *testing.T, name string) model.Product {
	t.Helper()
	var p model.Product
	require.NoError(t, f.db.Where("name_en = ?", name).First(&p).Error)
	return p
}

func (f *fixture) coupon(t *testing.T, code string) model.Coupon {
	t.Helper()
	var c model.Coupon
	require.NoError(t, f.db.Where("code = ?", code).First(&c).Error)
	return c
}

func (f *fixture) placeOrder(t *testing.T, couponCode string, items ...model.CheckoutItemInput) *model.OrderView {
	t.Helper()
	view, err := f.checkout.CreateOrder(context.Background(), &f.customer, model.CreateOrderInput{
		Items:      items,
		Terminal:   "T1",
		CouponCode: couponCode,
	})
	require.NoError(t, err)
	return view
}

func line(productId uint, category string, qty int, price string) model.CheckoutItemInput {
	return model.CheckoutItemInput{ProductId: productId, Category: category, Quantity: qty, Price: money(price)}
}
