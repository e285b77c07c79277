package entity

import (
	"time"

	"gorm.io/gorm"
)

// Stock is one symbol of the screening universe, resolved externally and
// loaded into the stocks table.
type Stock struct {
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"not null;uniqueIndex"`
	Name      string         `gorm:"not null"`
	Priority  int            `gorm:"not null;default:0"`
	IsActive  bool           `gorm:"not null;default:true"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Stock) TableName() string {
	return "stocks"
}
