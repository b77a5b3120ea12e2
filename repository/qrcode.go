package repository

import (
	"context"
	"time"

	"dutyfree_shop/model"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

type QRCodeRepo struct {
	db *gorm.DB
}

func NewQRCodeRepo(db *gorm.DB) *QRCodeRepo {
	return &QRCodeRepo{db: db}
}

func (r *QRCodeRepo) Create(ctx context.Context, qr *model.QRCode) error {
	if err := r.db.WithContext(ctx).Create(qr).Error; err != nil {
		return errors.Wrap(err, "create qr code")
	}
	return nil
}

func (r *QRCodeRepo) FindByCode(ctx context.Context, code string) (*model.QRCode, error) {
	var qr model.QRCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&qr).Error; err != nil {
		return nil, notFound(err)
	}
	return &qr, nil
}

// FindActiveByOrderCode returns the newest active QR issued for the order.
func (r *QRCodeRepo) FindActiveByOrderCode(ctx context.Context, orderCode string) (*model.QRCode, error) {
	var qr model.QRCode
	err := r.db.WithContext(ctx).
		Where("order_code = ? AND active = ?", orderCode, true).
		Order("created_at desc, id desc").
		First(&qr).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &qr, nil
}

func (r *QRCodeRepo) ListByCustomer(ctx context.Context, customerId uint, activeOnly bool) ([]model.QRCode, error) {
	q := r.db.WithContext(ctx).Where("customer_id = ?", customerId)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var codes []model.QRCode
	if err := q.Order("created_at desc, id desc").Find(&codes).Error; err != nil {
		return nil, errors.Wrap(err, "list qr codes")
	}
	return codes, nil
}

func (r *QRCodeRepo) Deactivate(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Model(&model.QRCode{}).Where("code = ?", code).Update("active", false)
	if res.Error != nil {
		return errors.Wrap(res.Error, "deactivate qr code")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateByOrderCode switches off every QR issued for the order.
func (r *QRCodeRepo) DeactivateByOrderCode(ctx context.Context, orderCode string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.QRCode{}).
		Where("order_code = ? AND active = ?", orderCode, true).
		Update("active", false)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "deactivate order qr codes")
	}
	return res.RowsAffected, nil
}

func (r *QRCodeRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.QRCode{}).
		Where("active = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Update("active", false)
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "deactivate expired qr codes")
	}
	return res.RowsAffected, nil
}

func (r *QRCodeRepo) RecordScan(ctx context.Context, scan *model.QRScan) error {
	if err := r.db.WithContext(ctx).Create(scan).Error; err != nil {
		return errors.Wrap(err, "record qr scan")
	}
	return nil
}

func (r *QRCodeRepo) ListScans(ctx context.Context, orderCode string) ([]model.QRScan, error) {
	var scans []model.QRScan
	err := r.db.WithContext(ctx).Where("order_code = ?", orderCode).Order("scanned_at desc, id desc").Find(&scans).Error
	if err != nil {
		return nil, errors.Wrap(err, "list qr scans")
	}
	return scans, nil
}
