package service

import "dutyfree_shop/model"

// Mailer delivers the order confirmation. Implementations must not block
// the caller; delivery is best effort.
type Mailer interface {
	SendOrderConfirmation(order *model.Order, qr *model.QRCode)
}

type NopMailer struct{}

func (NopMailer) SendOrderConfirmation(*model.Order, *model.QRCode) {}
