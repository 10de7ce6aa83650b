package department

import (
	"time"

	"gorm.io/gorm"
)

type Department struct {
	ID          int64          `gorm:"primaryKey"`
	// Index parsial: nama departemen yang sudah soft-delete boleh dipakai lagi.
	Name        string         `gorm:"size:255;not null;uniqueIndex:uq_department_name,where:deleted_at IS NULL"`
	Description string         `gorm:"type:text"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}
