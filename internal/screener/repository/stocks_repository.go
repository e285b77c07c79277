package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/hyfhx/stock-screener/internal/entity"
)

// StocksRepository supplies the screening universe. The list is resolved
// externally and loaded into the stocks table; the screener treats it as an
// opaque ordered input.
type StocksRepository interface {
	GetUniverse(ctx context.Context) ([]entity.Stock, error)
}

type stocksRepository struct {
	db *gorm.DB
}

func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

// GetUniverse returns active symbols ordered by priority, then code for a
// deterministic batch order.
func (s *stocksRepository) GetUniverse(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("priority DESC, code ASC").
		Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}
