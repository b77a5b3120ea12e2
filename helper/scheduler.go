package helper

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/go-faster/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

type CouponExpirer interface {
	ExpireCoupons(ctx context.Context) (int64, error)
}

type QRExpirer interface {
	ExpireCodes(ctx context.Context) (int64, error)
}

// CacheCleaner is implemented by the in-process cache, which needs expired
// entries swept out; Redis expires keys itself.
type CacheCleaner interface {
	Cleanup() int
}

// Schedulers runs the housekeeping jobs: coupon expiry once a day and QR
// expiry plus cache sweeping every five minutes.
type Schedulers struct {
	daily    gocron.Scheduler
	frequent *cron.Cron
}

func StartSchedulers(coupons CouponExpirer, codes QRExpirer, cleaner CacheCleaner, loc *time.Location) (*Schedulers, error) {
	daily, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, errors.Wrap(err, "create daily scheduler")
	}
	_, err = daily.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() { ExpireCoupons(context.Background(), coupons) }),
		gocron.WithName("expire-coupons"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "schedule coupon expiry")
	}

	frequent := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := frequent.AddFunc("*/5 * * * *", func() {
		ExpireQRCodes(context.Background(), codes)
		if cleaner != nil {
			if n := cleaner.Cleanup(); n > 0 {
				log.Debug().Int("entries", n).Msg("swept expired cache entries")
			}
		}
	}); err != nil {
		return nil, errors.Wrap(err, "schedule qr expiry")
	}

	daily.Start()
	frequent.Start()
	log.Info().Msg("housekeeping schedulers started")
	return &Schedulers{daily: daily, frequent: frequent}, nil
}

func (s *Schedulers) Stop() {
	<-s.frequent.Stop().Done()
	if err := s.daily.Shutdown(); err != nil {
		log.Error().Err(err).Msg("failed to stop daily scheduler")
	}
}

func ExpireCoupons(ctx context.Context, coupons CouponExpirer) {
	n, err := coupons.ExpireCoupons(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to expire coupons")
		return
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("expired coupons deactivated")
	}
}

func ExpireQRCodes(ctx context.Context, codes QRExpirer) {
	n, err := codes.ExpireCodes(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to expire qr codes")
		return
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("expired qr codes deactivated")
	}
}
