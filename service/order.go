package service

import (
	"context"
	"time"

	"dutyfree_shop/constants"
	"dutyfree_shop/model"
	"dutyfree_shop/repository"

	"github.com/go-faster/errors"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

type OrderService struct {
	orders   OrderStore
	qr       *QRService
	loyalty  *LoyaltyService
	notifier Notifier
	clock    clockwork.Clock
}

func NewOrderService(orders OrderStore, qr *QRService, loyalty *LoyaltyService, notifier Notifier, clock clockwork.Clock) *OrderService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &OrderService{orders: orders, qr: qr, loyalty: loyalty, notifier: notifier, clock: clock}
}

func (s *OrderService) view(ctx context.Context, order *model.Order) *model.OrderView {
	v := &model.OrderView{Order: *order}
	qr, err := s.qr.ForOrder(ctx, order.PublicCode)
	if err != nil {
		log.Warn().Err(err).Str("order_code", order.PublicCode).Msg("failed to load pickup qr")
		return v
	}
	if qr != nil {
		v.PickupQRCode = &qr.Code
		v.PickupQR = qr
	}
	return v
}

// Get returns the order with its active pickup QR. Only the owner may read it.
func (s *OrderService) Get(ctx context.Context, customerId uint, code string) (*model.OrderView, error) {
	order, err := s.owned(ctx, customerId, code)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, order), nil
}

func (s *OrderService) owned(ctx context.Context, customerId uint, code string) (*model.Order, error) {
	order, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if order.CustomerId != customerId {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, customerId uint, limit int) ([]model.Order, error) {
	if limit <= 0 {
		limit = constants.DEFAULT_LIMIT
	}
	return s.orders.ListByCustomer(ctx, customerId, limit)
}

// UpdateStatus moves the order along its lifecycle. It is a staff operation
// and does not check ownership.
func (s *OrderService) UpdateStatus(ctx context.Context, code string, next model.OrderStatus) (*model.OrderView, error) {
	order, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, order, next, nil); err != nil {
		return nil, err
	}
	return s.view(ctx, order), nil
}

func (s *OrderService) transition(ctx context.Context, order *model.Order, next model.OrderStatus, extra map[string]any) error {
	if !order.Status.CanTransitionTo(next) {
		return errors.Wrapf(ErrInvalidTransition, "%s to %s", order.Status, next)
	}
	if extra == nil {
		extra = map[string]any{}
	}
	now := s.clock.Now().UTC()
	switch next {
	case model.OrderCancelled:
		extra["cancelled_at"] = now
		order.CancelledAt = &now
	case model.OrderCompleted:
		if _, ok := extra["collected_at"]; !ok {
			extra["collected_at"] = now
			order.CollectedAt = &now
		}
	}

	if err := s.orders.TransitionStatus(ctx, order.ID, order.Status, next, extra); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return errors.Wrap(ErrInvalidTransition, "order changed concurrently")
		}
		return err
	}
	prev := order.Status
	order.Status = next

	switch next {
	case model.OrderCancelled:
		s.deactivatePickup(ctx, order)
	case model.OrderCompleted:
		// every path to completed spends the pickup QR and earns points
		s.deactivatePickup(ctx, order)
		if _, err := s.loyalty.Award(ctx, order.CustomerId, order.Total); err != nil {
			log.Error().Err(err).Str("order_code", order.PublicCode).Msg("failed to award loyalty points")
		}
	}
	log.Info().Str("order_code", order.PublicCode).Str("from", string(prev)).Str("to", string(next)).Msg("order status changed")
	s.publish(ctx, order)
	return nil
}

func (s *OrderService) deactivatePickup(ctx context.Context, order *model.Order) {
	if err := s.qr.DeactivateForOrder(ctx, order.PublicCode); err != nil {
		log.Error().Err(err).Str("order_code", order.PublicCode).Msg("failed to deactivate pickup qr")
	}
}

func (s *OrderService) publish(ctx context.Context, order *model.Order) {
	event := model.OrderStatusEvent{
		OrderCode:     order.PublicCode,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		At:            s.clock.Now().UTC(),
	}
	if err := s.notifier.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("order_code", order.PublicCode).Msg("failed to publish order event")
	}
}

// UpdatePayment advances the payment sub-state. It is not gated on the order
// status.
func (s *OrderService) UpdatePayment(ctx context.Context, code string, next model.PaymentStatus) (*model.OrderView, error) {
	order, err := s.orders.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !order.PaymentStatus.CanTransitionTo(next) {
		return nil, errors.Wrapf(ErrInvalidTransition, "payment %s to %s", order.PaymentStatus, next)
	}
	if err := s.orders.TransitionPayment(ctx, order.ID, order.PaymentStatus, next); err != nil {
		if errors.Is(err, repository.ErrStaleState) {
			return nil, errors.Wrap(ErrInvalidTransition, "order changed concurrently")
		}
		return nil, err
	}
	order.PaymentStatus = next
	log.Info().Str("order_code", order.PublicCode).Str("payment_status", string(next)).Msg("payment status changed")
	s.publish(ctx, order)
	return s.view(ctx, order), nil
}

// Cancel lets the owner cancel a pending or ready order.
func (s *OrderService) Cancel(ctx context.Context, customerId uint, code string) (*model.OrderView, error) {
	order, err := s.owned(ctx, customerId, code)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, order, model.OrderCancelled, nil); err != nil {
		return nil, err
	}
	return &model.OrderView{Order: *order}, nil
}

func (s *OrderService) SetPickupTime(ctx context.Context, customerId uint, code string, at time.Time) (*model.OrderView, error) {
	order, err := s.owned(ctx, customerId, code)
	if err != nil {
		return nil, err
	}
	if order.Status == model.OrderCompleted || order.Status == model.OrderCancelled {
		return nil, errors.Wrapf(ErrInvalidTransition, "order is %s", order.Status)
	}
	if !at.After(s.clock.Now()) {
		return nil, invalidInput("pickup time must be in the future")
	}
	if err := s.orders.UpdatePickupTime(ctx, order.ID, at.UTC()); err != nil {
		return nil, err
	}
	at = at.UTC()
	order.PickupTime = &at
	return s.view(ctx, order), nil
}

// Collect completes a ready order at the pickup desk after checking the
// presented QR. The scan is logged against the order as success only once the
// order has actually moved to completed.
func (s *OrderService) Collect(ctx context.Context, in model.CollectOrderInput) (*model.OrderView, error) {
	scan := model.ScanQRInput{
		QRCode:       in.QRCode,
		ScannedBy:    in.StaffName,
		ScanLocation: "pickup_desk",
		Terminal:     in.Terminal,
		DeviceId:     in.DeviceId,
	}
	v, err := s.qr.Validate(ctx, in.QRCode)
	if err != nil {
		return nil, err
	}
	if !v.Valid {
		if v.QRCode != nil && v.QRCode.OrderCode != "" {
			result := model.ScanInvalid
			if v.Reason == QRReasonExpired {
				result = model.ScanExpired
			}
			s.qr.recordScan(ctx, scan, v.QRCode.OrderCode, result)
		}
		return nil, &QRRejectedError{Reason: v.Reason}
	}
	if v.QRCode.Type != model.QROrder || v.QRCode.OrderCode == "" {
		return nil, &QRRejectedError{Reason: "not_an_order_code"}
	}

	order, err := s.orders.FindByCode(ctx, v.QRCode.OrderCode)
	if err != nil {
		return nil, err
	}
	if order.Status != model.OrderReady {
		s.qr.recordScan(ctx, scan, order.PublicCode, model.ScanFailed)
		return nil, errors.Wrapf(ErrInvalidTransition, "order is %s, not ready for pickup", order.Status)
	}

	now := s.clock.Now().UTC()
	extra := map[string]any{"collected_at": now, "collected_by": in.StaffName}
	order.CollectedAt = &now
	order.CollectedBy = in.StaffName
	if err := s.transition(ctx, order, model.OrderCompleted, extra); err != nil {
		s.qr.recordScan(ctx, scan, order.PublicCode, model.ScanFailed)
		return nil, err
	}
	s.qr.recordScan(ctx, scan, order.PublicCode, model.ScanSuccess)
	return &model.OrderView{Order: *order}, nil
}
