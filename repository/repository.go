// Package repository wraps the gorm queries behind small per-aggregate stores.
package repository

import (
	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrCouponExhausted is returned when a strict coupon reservation finds no
	// remaining uses.
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	// ErrStaleState means a conditional update matched no row because the
	// record changed since it was read.
	ErrStaleState = errors.New("record state changed concurrently")
)

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func offset(limit, page int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * limit
}
