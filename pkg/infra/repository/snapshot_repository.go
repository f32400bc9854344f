package repository

import (
	"context"

	"github.com/autoshield/autoshield/pkg/domain/snapshot"
	"gorm.io/gorm"
)

type snapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) snapshot.Repository {
	return &snapshotRepository{
		db: db,
	}
}

func (r *snapshotRepository) ListAll(ctx context.Context) ([]snapshot.StagedRange, error) {
	var rows []snapshot.StagedRange
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *snapshotRepository) ReplaceAll(ctx context.Context, rows []snapshot.StagedRange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM public.staged_ip_ranges").Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, writeBatchSize).Error
	})
}

func (r *snapshotRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&snapshot.StagedRange{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
