package repository

import (
	"context"
	"time"

	"github.com/autoshield/autoshield/pkg/domain/iprange"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const writeBatchSize = 500

type IPRangeRepository struct {
	db *gorm.DB
}

func NewIPRangeRepository(db *gorm.DB) iprange.Repository {
	return &IPRangeRepository{
		db: db,
	}
}

func (r *IPRangeRepository) ListActive(ctx context.Context) ([]iprange.IPRange, error) {
	var ranges []iprange.IPRange
	if err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		Find(&ranges).Error; err != nil {
		return nil, err
	}
	return ranges, nil
}

func (r *IPRangeRepository) ListActiveByScope(ctx context.Context, component, region string) ([]iprange.IPRange, error) {
	var ranges []iprange.IPRange
	if err := r.db.WithContext(ctx).
		Where("component = ? AND region = ? AND deleted = ?", component, region, false).
		Find(&ranges).Error; err != nil {
		return nil, err
	}
	return ranges, nil
}

func (r *IPRangeRepository) List(ctx context.Context, filter iprange.Filter) ([]iprange.IPRange, error) {
	query := r.db.WithContext(ctx).Model(&iprange.IPRange{})
	if filter.Component != "" {
		query = query.Where("component = ?", filter.Component)
	}
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if !filter.IncludeDeleted {
		query = query.Where("deleted = ?", false)
	}
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var ranges []iprange.IPRange
	if err := query.Order("component, region, address").Find(&ranges).Error; err != nil {
		return nil, err
	}
	return ranges, nil
}

func (r *IPRangeRepository) MarkDeleted(ctx context.Context, keys []iprange.Key, at time.Time) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for start := 0; start < len(keys); start += writeBatchSize {
			end := start + writeBatchSize
			if end > len(keys) {
				end = len(keys)
			}
			tuples := make([][]interface{}, 0, end-start)
			for _, k := range keys[start:end] {
				tuples = append(tuples, []interface{}{k.Component, k.Region, k.Address})
			}
			if err := tx.Model(&iprange.IPRange{}).
				Where("(component, region, address) IN ?", tuples).
				Updates(map[string]interface{}{"deleted": true, "updated_at": at}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *IPRangeRepository) Upsert(ctx context.Context, ranges []iprange.IPRange) error {
	if len(ranges) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "component"}, {Name: "region"}, {Name: "address"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"start_ip", "end_ip", "deleted", "updated_at",
			}),
		}).CreateInBatches(ranges, writeBatchSize).Error
	})
}
