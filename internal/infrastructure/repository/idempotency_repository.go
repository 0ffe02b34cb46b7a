package repository

import (
	"context"
	"errors"
	"time"

	"github.com/kikibeach/kiki-pos/internal/domain/entity"
	domainRepo "github.com/kikibeach/kiki-pos/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type idempotencyRepository struct {
	db *gorm.DB
}

// NewIdempotencyRepository creates a new idempotency repository
func NewIdempotencyRepository(db *gorm.DB) domainRepo.IdempotencyRepository {
	return &idempotencyRepository{db: db}
}

func (r *idempotencyRepository) GetByKey(ctx context.Context, key, scope string) (*entity.IdempotencyKey, error) {
	var ikey entity.IdempotencyKey
	err := r.db.WithContext(ctx).
		Where("key = ? AND scope = ?", key, scope).
		First(&ikey).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ikey, err
}

func (r *idempotencyRepository) Reserve(ctx context.Context, ikey *entity.IdempotencyKey) (bool, error) {
	var reserved bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// an expired row would otherwise hold the unique index until the purge runs
		if err := tx.Where("key = ? AND scope = ? AND expires_at < ?", ikey.Key, ikey.Scope, time.Now()).
			Delete(&entity.IdempotencyKey{}).Error; err != nil {
			return err
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(ikey)
		if result.Error != nil {
			return result.Error
		}
		reserved = result.RowsAffected == 1
		return nil
	})
	return reserved, err
}

func (r *idempotencyRepository) Complete(ctx context.Context, ikey *entity.IdempotencyKey) error {
	return r.db.WithContext(ctx).Model(&entity.IdempotencyKey{}).
		Where("key = ? AND scope = ?", ikey.Key, ikey.Scope).
		Updates(map[string]interface{}{
			"response_code": ikey.ResponseCode,
			"response_body": ikey.ResponseBody,
			"expires_at":    ikey.ExpiresAt,
		}).Error
}

func (r *idempotencyRepository) Release(ctx context.Context, key, scope string) error {
	return r.db.WithContext(ctx).
		Where("key = ? AND scope = ? AND response_code = ?", key, scope, entity.IdempotencyPending).
		Delete(&entity.IdempotencyKey{}).Error
}

func (r *idempotencyRepository) DeleteExpired(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&entity.IdempotencyKey{}).Error
}
