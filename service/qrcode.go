package service

import (
	"context"
	"strings"
	"time"

	"dutyfree_shop/constants"
	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	QRReasonNotFound    = "not_found"
	QRReasonDeactivated = "deactivated"
	QRReasonExpired     = "expired"
	QRReasonBadPayload  = "unsupported_payload"
)

type QRValidation struct {
	Valid  bool          `json:"valid"`
	Reason string        `json:"reason,omitempty"`
	QRCode *model.QRCode `json:"qrCode,omitempty"`
}

type QRService struct {
	codes    QRStore
	clock    clockwork.Clock
	validity time.Duration
}

func NewQRService(codes QRStore, clock clockwork.Clock, validity time.Duration) *QRService {
	return &QRService{codes: codes, clock: clock, validity: validity}
}

func newQRCode(kind model.QRType) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return constants.QR_CODE_PREFIX + strings.ToUpper(string(kind)) + "-" + id[:16]
}

// IssueForOrder creates the pickup QR for a freshly placed order. The QR is
// linked to the order only through its order code.
func (s *QRService) IssueForOrder(ctx context.Context, order *model.Order) (*model.QRCode, error) {
	now := s.clock.Now().UTC()
	validUntil := now.Add(s.validity)
	total := order.Total

	qr := &model.QRCode{
		CustomerId: order.CustomerId,
		Code:       newQRCode(model.QROrder),
		Type:       model.QROrder,
		Purpose:    "order_pickup",
		OrderCode:  order.PublicCode,
		Active:     true,
		ExpiresAt:  &validUntil,
		Payload: model.QRPayload{
			Version:       model.QRPayloadVersion,
			Kind:          model.QROrder,
			UserId:        order.CustomerId,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			OrderCode:     order.PublicCode,
			OrderTotal:    &total,
			Terminal:      order.Terminal,
			FlightNumber:  order.FlightNumber,
			GeneratedAt:   now,
			ValidUntil:    &validUntil,
		},
	}
	if err := s.codes.Create(ctx, qr); err != nil {
		return nil, err
	}
	return qr, nil
}

// Generate issues a customer, boarding or loyalty QR from the request.
func (s *QRService) Generate(ctx context.Context, customer *model.Customer, in model.GenerateQRInput) (*model.QRCode, error) {
	kind := in.Type
	if kind == "" {
		kind = model.QRCustomer
	}
	if kind == model.QROrder {
		return nil, invalidInput("order QR codes are issued at checkout")
	}
	if kind == model.QRBoarding && in.Data.FlightNumber == "" {
		return nil, invalidInput("boarding QR codes need a flight number")
	}

	now := s.clock.Now().UTC()
	payload := in.Data
	payload.Version = model.QRPayloadVersion
	payload.Kind = kind
	payload.UserId = customer.ID
	payload.GeneratedAt = now
	payload.ValidUntil = in.ExpiresAt
	payload.OrderCode = ""
	payload.OrderTotal = nil
	if payload.CustomerName == "" {
		payload.CustomerName = customer.FullName()
	}
	if kind == model.QRLoyalty {
		payload.LoyaltyTier = customer.LoyaltyTier
		payload.LoyaltyPoints = customer.LoyaltyPoints
	}

	qr := &model.QRCode{
		CustomerId: customer.ID,
		Code:       newQRCode(kind),
		Payload:    payload,
		Type:       kind,
		Purpose:    in.Purpose,
		FlightId:   in.FlightId,
		Active:     true,
		ExpiresAt:  in.ExpiresAt,
	}
	if err := s.codes.Create(ctx, qr); err != nil {
		return nil, err
	}
	return qr, nil
}

func (s *QRService) Get(ctx context.Context, code string) (*model.QRCode, error) {
	return s.codes.FindByCode(ctx, strings.TrimSpace(code))
}

// GetOwned returns the QR only when it belongs to customerId.
func (s *QRService) GetOwned(ctx context.Context, customerId uint, code string) (*model.QRCode, error) {
	qr, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if qr.CustomerId != customerId {
		return nil, ErrForbidden
	}
	return qr, nil
}

func (s *QRService) List(ctx context.Context, customerId uint, activeOnly bool) ([]model.QRCode, error) {
	return s.codes.ListByCustomer(ctx, customerId, activeOnly)
}

func (s *QRService) Deactivate(ctx context.Context, customerId uint, code string) error {
	qr, err := s.GetOwned(ctx, customerId, code)
	if err != nil {
		return err
	}
	return s.codes.Deactivate(ctx, qr.Code)
}

// ForOrder returns the active pickup QR for the order, nil when none exists.
func (s *QRService) ForOrder(ctx context.Context, orderCode string) (*model.QRCode, error) {
	qr, err := s.codes.FindActiveByOrderCode(ctx, orderCode)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	return qr, err
}

func (s *QRService) DeactivateForOrder(ctx context.Context, orderCode string) error {
	_, err := s.codes.DeactivateByOrderCode(ctx, orderCode)
	return err
}

// Validate reports whether code can be used right now.
func (s *QRService) Validate(ctx context.Context, code string) (QRValidation, error) {
	qr, err := s.Get(ctx, code)
	if errors.Is(err, ErrNotFound) {
		return QRValidation{Reason: QRReasonNotFound}, nil
	}
	if err != nil {
		return QRValidation{}, err
	}
	switch {
	case !qr.Active:
		return QRValidation{Reason: QRReasonDeactivated, QRCode: qr}, nil
	case qr.ExpiresAt != nil && !qr.ExpiresAt.After(s.clock.Now()):
		return QRValidation{Reason: QRReasonExpired, QRCode: qr}, nil
	}
	if err := CheckPayload(qr.Payload); err != nil {
		return QRValidation{Reason: QRReasonBadPayload, QRCode: qr}, nil
	}
	return QRValidation{Valid: true, QRCode: qr}, nil
}

// CheckPayload rejects payloads written by a schema this build cannot read.
func CheckPayload(p model.QRPayload) error {
	if p.Version != model.QRPayloadVersion {
		return errors.Wrapf(ErrUnsupportedPayloadVersion, "version %d", p.Version)
	}
	return nil
}

// Scan validates the code and, when an order is involved, records the scan.
func (s *QRService) Scan(ctx context.Context, in model.ScanQRInput) (QRValidation, error) {
	v, err := s.Validate(ctx, in.QRCode)
	if err != nil {
		return v, err
	}

	orderCode := in.OrderCode
	if orderCode == "" && v.QRCode != nil {
		orderCode = v.QRCode.OrderCode
	}
	if orderCode == "" {
		return v, nil
	}

	result := model.ScanSuccess
	switch {
	case v.Reason == QRReasonExpired:
		result = model.ScanExpired
	case !v.Valid:
		result = model.ScanInvalid
	case v.QRCode.OrderCode != "" && v.QRCode.OrderCode != orderCode:
		// a valid code presented for someone else's order
		v = QRValidation{Reason: QRReasonNotFound}
		result = model.ScanInvalid
	}
	s.recordScan(ctx, in, orderCode, result)
	return v, nil
}

func (s *QRService) recordScan(ctx context.Context, in model.ScanQRInput, orderCode string, result model.QRScanResult) {
	scan := &model.QRScan{
		OrderCode:    orderCode,
		QRCode:       in.QRCode,
		ScannedBy:    in.ScannedBy,
		ScannedAt:    s.clock.Now().UTC(),
		ScanLocation: in.ScanLocation,
		Terminal:     in.Terminal,
		DeviceId:     in.DeviceId,
		Result:       result,
	}
	if err := s.codes.RecordScan(ctx, scan); err != nil {
		log.Error().Err(err).Str("order_code", orderCode).Msg("failed to record qr scan")
	}
}

// ExpireCodes switches off QR codes whose expiry has passed.
func (s *QRService) ExpireCodes(ctx context.Context) (int64, error) {
	return s.codes.DeactivateExpired(ctx, s.clock.Now().UTC())
}
