package checkout

import (
	"context"
	"time"

	"jengamart/internal/common/models"
	database "jengamart/internal/pkg/db"
)

type IRepository interface {
	CreateRecord(ctx context.Context, record *models.CheckoutRecord) error
	FindByFlowID(ctx context.Context, flowID string) (*models.CheckoutRecord, error)
	MarkPaid(ctx context.Context, flowID string, paidAt time.Time) error
	MarkAbandoned(ctx context.Context, flowID string) error
	RecordAttempt(ctx context.Context, attempt *models.PaymentAttempt) error
}

type Repository struct {
	db *database.Database
}

func NewRepo(db *database.Database) IRepository {
	return &Repository{db: db}
}

func (r *Repository) CreateRecord(ctx context.Context, record *models.CheckoutRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *Repository) FindByFlowID(ctx context.Context, flowID string) (*models.CheckoutRecord, error) {
	var record models.CheckoutRecord
	err := r.db.WithContext(ctx).Where("flow_id = ?", flowID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *Repository) MarkPaid(ctx context.Context, flowID string, paidAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.CheckoutRecord{}).
		Where("flow_id = ?", flowID).
		Updates(map[string]any{"status": "paid", "paid_at": paidAt}).Error
}

func (r *Repository) MarkAbandoned(ctx context.Context, flowID string) error {
	return r.db.WithContext(ctx).
		Model(&models.CheckoutRecord{}).
		Where("flow_id = ?", flowID).
		Update("status", "abandoned").Error
}

func (r *Repository) RecordAttempt(ctx context.Context, attempt *models.PaymentAttempt) error {
	return r.db.WithContext(ctx).Create(attempt).Error
}
