// Package cache provides the read-through cache used by the catalogue and
// coupon listings. Stores are explicit values handed to the services.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dutyfree_shop/constants"

	"github.com/go-faster/errors"
	"github.com/rs/zerolog/log"
)

var ErrMiss = errors.New("cache miss")

type Store interface {
	// Get returns ErrMiss when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value; a ttl of zero or less never expires.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

const (
	TTLShort    = constants.CACHE_TTL_SHORT * time.Second
	TTLMedium   = constants.CACHE_TTL_MEDIUM * time.Second
	TTLLong     = constants.CACHE_TTL_LONG * time.Second
	TTLVeryLong = constants.CACHE_TTL_VERY_LONG * time.Second
)

const (
	PrefixProducts = "products:"
	PrefixCoupons  = "coupons:"
	KeyCategories  = "categories:all"
)

func ProductKey(slug string) string {
	return PrefixProducts + "slug:" + slug
}

func ProductListKey(category, terminal string, featured *bool, limit, page int) string {
	f := "any"
	if featured != nil {
		f = fmt.Sprint(*featured)
	}
	return fmt.Sprintf("%slist:%s:%s:%s:%d:%d", PrefixProducts, category, terminal, f, limit, page)
}

func ActiveCouponsKey(tier string) string {
	if tier == "" {
		tier = "any"
	}
	return PrefixCoupons + "active:" + tier
}

// GetOrSet returns the cached value for key, or calls load and caches its
// result. Cache failures are logged and never returned; only load errors are.
func GetOrSet[T any](ctx context.Context, s Store, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	if raw, err := s.Get(ctx, key); err == nil {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		log.Warn().Str("key", key).Msg("dropping undecodable cache entry")
	} else if !errors.Is(err, ErrMiss) {
		log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	raw, err := json.Marshal(v)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache encode failed")
		return v, nil
	}
	if err := s.Set(ctx, key, raw, ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
	return v, nil
}

// Invalidate drops every key under prefix, logging instead of failing.
func Invalidate(ctx context.Context, s Store, prefix string) {
	if err := s.DeletePrefix(ctx, prefix); err != nil {
		log.Warn().Err(err).Str("prefix", prefix).Msg("cache invalidation failed")
	}
}
