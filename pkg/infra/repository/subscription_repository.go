package repository

import (
	"context"
	"errors"

	"github.com/autoshield/autoshield/pkg/domain"
	"github.com/autoshield/autoshield/pkg/domain/subscription"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) subscription.Repository {
	return &subscriptionRepository{
		db: db,
	}
}

// Save inserts atomically; when any entry collides with an existing
// (firewall identity, scope) pair the whole batch is rolled back.
func (r *subscriptionRepository) Save(ctx context.Context, entries []subscription.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "offering_type"}, {Name: "offering_name"},
				{Name: "subscription_id"}, {Name: "resource_group"},
				{Name: "component"}, {Name: "region"},
			},
			DoNothing: true,
		}).Create(&entries)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected < int64(len(entries)) {
			return domain.ErrAlreadyRegistered
		}
		return nil
	})
}

func (r *subscriptionRepository) Get(ctx context.Context, id uuid.UUID) (*subscription.Entry, error) {
	var entry subscription.Entry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("subscription", id)
		}
		return nil, err
	}
	return &entry, nil
}

func (r *subscriptionRepository) ListAll(ctx context.Context) ([]subscription.Entry, error) {
	var entries []subscription.Entry
	if err := r.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *subscriptionRepository) List(ctx context.Context, offset, limit int) ([]subscription.Entry, error) {
	query := r.db.WithContext(ctx)
	if limit > 0 {
		query = query.Offset(offset).Limit(limit)
	}

	var entries []subscription.Entry
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *subscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&subscription.Entry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("subscription", id)
	}
	return nil
}
