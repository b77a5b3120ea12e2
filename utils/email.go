package utils

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"sync"

	"dutyfree_shop/config"
	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templates embed.FS

const pickupQRFile = "pickup-qr.png"

type OrderConfirmationData struct {
	CustomerName string
	OrderCode    string
	Terminal     string
	FlightNumber string
	Subtotal     string
	Discount     string
	HasDiscount  bool
	CouponCode   string
	Tax          string
	Total        string
	HasQR        bool
	QRCode       string
	ValidUntil   string
}

func NewOrderConfirmationData(order *model.Order, qr *model.QRCode) OrderConfirmationData {
	data := OrderConfirmationData{
		CustomerName: order.CustomerName,
		OrderCode:    order.PublicCode,
		Terminal:     order.Terminal,
		FlightNumber: order.FlightNumber,
		Subtotal:     order.Subtotal.StringFixed(2),
		Discount:     order.DiscountAmount.StringFixed(2),
		HasDiscount:  order.DiscountAmount.IsPositive(),
		Tax:          order.TaxAmount.StringFixed(2),
		Total:        order.Total.StringFixed(2),
	}
	if order.CouponCode != nil {
		data.CouponCode = *order.CouponCode
	}
	if qr != nil {
		data.HasQR = true
		data.QRCode = qr.Code
		if qr.ExpiresAt != nil {
			data.ValidUntil = qr.ExpiresAt.Format("02 Jan 2006 15:04 MST")
		}
	}
	return data
}

// Mailer sends order confirmations over SMTP in the background.
type Mailer struct {
	smtp   config.SMTPSettings
	tmpl   *template.Template
	dialer *gomail.Dialer
	wg     sync.WaitGroup
}

func NewMailer(smtp config.SMTPSettings) (*Mailer, error) {
	tmpl, err := template.ParseFS(templates, "templates/order_confirmation.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse email templates")
	}
	return &Mailer{
		smtp:   smtp,
		tmpl:   tmpl,
		dialer: gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password),
	}, nil
}

// SendOrderConfirmation returns immediately. Nothing is sent when SMTP is
// not configured or the order has no e-mail address.
func (m *Mailer) SendOrderConfirmation(order *model.Order, qr *model.QRCode) {
	if !m.smtp.Enabled() || order.CustomerEmail == "" {
		log.Debug().Str("order_code", order.PublicCode).Msg("skipping order confirmation email")
		return
	}
	msg, err := m.OrderConfirmation(order, qr)
	if err != nil {
		log.Error().Err(err).Str("order_code", order.PublicCode).Msg("failed to build order confirmation email")
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.dialer.DialAndSend(msg); err != nil {
			log.Error().Err(err).Str("order_code", order.PublicCode).Msg("failed to send order confirmation email")
			return
		}
		log.Info().Str("order_code", order.PublicCode).Msg("order confirmation email sent")
	}()
}

// OrderConfirmation builds the message with the pickup QR embedded inline.
func (m *Mailer) OrderConfirmation(order *model.Order, qr *model.QRCode) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := m.tmpl.Execute(&body, NewOrderConfirmationData(order, qr)); err != nil {
		return nil, errors.Wrap(err, "render order confirmation")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.smtp.From)
	msg.SetHeader("To", order.CustomerEmail)
	msg.SetHeader("Subject", "Order confirmation #"+order.PublicCode)
	msg.SetBody("text/html", body.String())

	if qr != nil {
		img, err := GenerateQRCode(qr.Code, QRDefaultSize)
		if err != nil {
			return nil, err
		}
		msg.Embed(pickupQRFile, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(img)
			return err
		}))
	}
	return msg, nil
}

// Wait blocks until queued e-mails are done; used on shutdown.
func (m *Mailer) Wait() {
	m.wg.Wait()
}
