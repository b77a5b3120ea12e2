package service

import (
	"dutyfree_shop/pricing"
	"dutyfree_shop/repository"

	"github.com/go-faster/errors"
)

var (
	ErrNotFound                  = repository.ErrNotFound
	ErrForbidden                 = errors.New("forbidden")
	ErrInvalidTransition         = errors.New("invalid status transition")
	ErrInvalidInput              = errors.New("invalid input")
	ErrCouponRejected            = errors.New("coupon rejected")
	ErrQRRejected                = errors.New("qr code rejected")
	ErrUnsupportedPayloadVersion = errors.New("unsupported qr payload version")
)

// CouponRejectedError carries the validation outcome that stopped a checkout.
type CouponRejectedError struct {
	Validation pricing.Validation
}

func (e *CouponRejectedError) Error() string {
	return "coupon rejected: " + string(e.Validation.Reason)
}

func (e *CouponRejectedError) Is(target error) bool {
	return target == ErrCouponRejected
}

// QRRejectedError is returned when a pickup scan presents an unusable code.
type QRRejectedError struct {
	Reason string
}

func (e *QRRejectedError) Error() string {
	return "qr code rejected: " + e.Reason
}

func (e *QRRejectedError) Is(target error) bool {
	return target == ErrQRRejected
}

func invalidInput(msg string) error {
	return errors.Wrap(ErrInvalidInput, msg)
}
