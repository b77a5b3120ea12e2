package service

import (
	"context"
	"strings"

	"dutyfree_shop/constants"
	"dutyfree_shop/model"
	"dutyfree_shop/pricing"
	"dutyfree_shop/repository"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type CheckoutConfig struct {
	TaxRate decimal.Decimal
	// StrictCouponUsage consumes the coupon inside the order transaction.
	StrictCouponUsage bool
}

type CheckoutService struct {
	orders  OrderStore
	coupons *CouponService
	qr      *QRService
	mailer  Mailer
	cfg     CheckoutConfig
}

func NewCheckoutService(orders OrderStore, coupons *CouponService, qr *QRService, mailer Mailer, cfg CheckoutConfig) *CheckoutService {
	if mailer == nil {
		mailer = NopMailer{}
	}
	return &CheckoutService{orders: orders, coupons: coupons, qr: qr, mailer: mailer, cfg: cfg}
}

func newOrderCode() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return constants.ORDER_CODE_PREFIX + strings.ToUpper(id[:8])
}

func linesFrom(items []model.CheckoutItemInput) ([]pricing.Line, error) {
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			return nil, invalidInput("quantity must be positive")
		}
		if it.Price.IsNegative() {
			return nil, invalidInput("price must not be negative")
		}
		lines = append(lines, pricing.Line{
			ProductId: it.ProductId,
			Category:  it.Category,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
			Discount:  it.Discount,
		})
	}
	return lines, nil
}

// CreateOrder prices the cart, persists the order with its items atomically
// and issues the pickup QR. A QR failure leaves the order in place and the
// view's PickupQRCode nil.
func (s *CheckoutService) CreateOrder(ctx context.Context, customer *model.Customer, in model.CreateOrderInput) (*model.OrderView, error) {
	if len(in.Items) == 0 {
		return nil, invalidInput("order needs at least one item")
	}
	if strings.TrimSpace(in.Terminal) == "" {
		return nil, invalidInput("terminal is required")
	}
	lines, err := linesFrom(in.Items)
	if err != nil {
		return nil, err
	}

	var coupon *model.Coupon
	couponCode := pricing.NormalizeCode(in.CouponCode)
	if couponCode != "" {
		v, err := s.coupons.Validate(ctx, couponCode, pricing.CartFromLines(lines), customer.LoyaltyTier)
		if err != nil {
			return nil, err
		}
		if !v.Accepted {
			return nil, &CouponRejectedError{Validation: v}
		}
		coupon = v.Coupon
	}

	quote := pricing.Assemble(lines, coupon, s.cfg.TaxRate)
	order, err := s.buildOrder(customer, in, quote)
	if err != nil {
		return nil, err
	}
	if coupon != nil {
		order.CouponCode = &coupon.Code
	}

	reserve := ""
	if coupon != nil && s.cfg.StrictCouponUsage {
		reserve = coupon.Code
	}
	if err := s.orders.Create(ctx, order, reserve); err != nil {
		if errors.Is(err, repository.ErrCouponExhausted) {
			return nil, &CouponRejectedError{Validation: pricing.Reject(pricing.ReasonUsageLimitReached, "This coupon has reached its usage limit")}
		}
		return nil, err
	}
	ordersCreated.Inc()
	log.Info().Str("order_code", order.PublicCode).Uint("user_id", customer.ID).Str("total", order.Total.StringFixed(2)).Msg("order created")

	if reserve != "" {
		s.coupons.invalidate(ctx)
	}
	if coupon != nil && !s.cfg.StrictCouponUsage {
		// Runs outside the order transaction; a failure here leaves the order
		// valid and the coupon under-counted.
		if err := s.coupons.Apply(ctx, coupon.Code); err != nil {
			couponUsageFailures.Inc()
			log.Error().Err(err).Str("order_code", order.PublicCode).Str("coupon", coupon.Code).Msg("failed to record coupon usage")
		}
	}

	view := &model.OrderView{Order: *order}
	qr, err := s.qr.IssueForOrder(ctx, order)
	if err != nil {
		qrIssueFailures.Inc()
		log.Error().Err(err).Str("order_code", order.PublicCode).Msg("failed to issue pickup qr")
	} else {
		view.PickupQRCode = &qr.Code
		view.PickupQR = qr
	}

	if order.CustomerEmail != "" {
		s.mailer.SendOrderConfirmation(order, qr)
	}
	return view, nil
}

func (s *CheckoutService) buildOrder(customer *model.Customer, in model.CreateOrderInput, q pricing.Quote) (*model.Order, error) {
	order := &model.Order{}
	if err := copier.Copy(order, &in.CheckoutDetails); err != nil {
		return nil, errors.Wrap(err, "copy checkout details")
	}
	order.PublicCode = newOrderCode()
	order.CustomerId = customer.ID
	order.Terminal = in.Terminal
	order.Status = model.OrderPending
	order.PaymentStatus = model.PaymentPending
	order.ItemsCount = q.ItemsCount
	order.Subtotal = q.Subtotal
	order.DiscountAmount = q.Discount
	order.TaxAmount = q.Tax
	order.Total = q.Total
	if order.CustomerName == "" {
		order.CustomerName = customer.FullName()
	}
	if order.CustomerEmail == "" {
		order.CustomerEmail = customer.Email
	}
	if order.CustomerPhone == "" {
		order.CustomerPhone = customer.Phone
	}

	order.Items = make([]model.OrderItem, 0, len(q.Lines))
	for _, l := range q.Lines {
		order.Items = append(order.Items, model.OrderItem{
			ProductId:       l.ProductId,
			Category:        l.Category,
			Quantity:        l.Quantity,
			Price:           l.UnitPrice,
			DiscountApplied: l.DiscountApplied,
			Subtotal:        l.Subtotal,
		})
	}
	return order, nil
}
