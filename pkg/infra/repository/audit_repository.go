package repository

import (
	"context"

	"github.com/autoshield/autoshield/pkg/domain/audit"
	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &auditRepository{
		db: db,
	}
}

func (r *auditRepository) Save(ctx context.Context, record *audit.DispatchRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *auditRepository) List(ctx context.Context, filter audit.Filter) ([]audit.DispatchRecord, error) {
	query := r.db.WithContext(ctx).Model(&audit.DispatchRecord{})
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.SubscriptionID != "" {
		query = query.Where("subscription_id = ?", filter.SubscriptionID)
	}
	if filter.RunID != nil {
		query = query.Where("run_id = ?", *filter.RunID)
	}
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var records []audit.DispatchRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
