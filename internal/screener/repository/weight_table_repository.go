package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/hyfhx/stock-screener/internal/entity"
	"github.com/hyfhx/stock-screener/pkg/common"
)

// WeightTableRepository stores immutable weight table versions. Proposals
// are created inactive; Commit flips the active pointer in one transaction.
type WeightTableRepository interface {
	GetActive(ctx context.Context) (*entity.WeightTableVersion, error)
	Create(ctx context.Context, version *entity.WeightTableVersion) error
	Commit(ctx context.Context, id uint) error
	History(ctx context.Context, limit int) ([]entity.WeightTableVersion, error)
}

type weightTableRepository struct {
	db *gorm.DB
}

func NewWeightTableRepository(db *gorm.DB) WeightTableRepository {
	return &weightTableRepository{db: db}
}

// GetActive returns the committed weight table, or
// common.ErrNoActiveWeightTable when none has been committed yet.
func (r *weightTableRepository) GetActive(ctx context.Context) (*entity.WeightTableVersion, error) {
	var version entity.WeightTableVersion
	err := r.db.WithContext(ctx).Where("active = ?", true).First(&version).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNoActiveWeightTable
	}
	if err != nil {
		return nil, err
	}
	return &version, nil
}

func (r *weightTableRepository) Create(ctx context.Context, version *entity.WeightTableVersion) error {
	return r.db.WithContext(ctx).Create(version).Error
}

// Commit activates the given version and deactivates the rest.
func (r *weightTableRepository) Commit(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.WeightTableVersion{}).
			Where("active = ?", true).
			Update("active", false).Error; err != nil {
			return err
		}
		result := tx.Model(&entity.WeightTableVersion{}).
			Where("id = ?", id).
			Update("active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *weightTableRepository) History(ctx context.Context, limit int) ([]entity.WeightTableVersion, error) {
	var versions []entity.WeightTableVersion
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}
