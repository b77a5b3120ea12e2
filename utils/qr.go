package utils

import (
	"bytes"
	"encoding/base64"
	"image/png"

	"github.com/go-faster/errors"
	"github.com/skip2/go-qrcode"
)

const (
	QRDefaultSize = 300
	qrMinSize     = 64
	qrMaxSize     = 1024
)

// GenerateQRCode renders content as a PNG of size x size pixels.
func GenerateQRCode(content string, size int) ([]byte, error) {
	if size < qrMinSize || size > qrMaxSize {
		size = QRDefaultSize
	}
	qr, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(err, "encode qr")
	}

	buf := new(bytes.Buffer)
	if err := png.Encode(buf, qr.Image(size)); err != nil {
		return nil, errors.Wrap(err, "render qr png")
	}
	return buf.Bytes(), nil
}

// QRDataURI returns the PNG as a data URI for inline <img> use.
func QRDataURI(content string, size int) (string, error) {
	img, err := GenerateQRCode(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img), nil
}
