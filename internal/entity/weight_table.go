package entity

import (
	"database/sql"
	"time"

	"gorm.io/datatypes"
)

// WeightTableVersion is one immutable version of the signal weight table.
// Exactly one version is active at a time; the tuner proposes inactive
// versions and committing flips the active pointer.
type WeightTableVersion struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Weights      datatypes.JSON  `gorm:"type:jsonb;not null" json:"weights"`
	Active       bool            `gorm:"not null;default:false" json:"active"`
	AccuracyRate sql.NullFloat64 `json:"accuracy_rate"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (WeightTableVersion) TableName() string {
	return "weight_table_versions"
}
