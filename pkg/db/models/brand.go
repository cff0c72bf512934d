package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Brand is a phone manufacturer. Soft-deleted brands stay addressable from the dashboard.
type Brand struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Name        string         `gorm:"column:name;not null;uniqueIndex:brands_name_key"`
	Slug        string         `gorm:"column:slug;not null;uniqueIndex:brands_slug_key"`
	Description *string        `gorm:"column:description"`
	LogoURL     *string        `gorm:"column:logo_url"`
	Website     *string        `gorm:"column:website"`
	Country     *string        `gorm:"column:country"`
	FoundedYear *int           `gorm:"column:founded_year"`
	IsActive    bool           `gorm:"column:is_active;not null"`
	IsVerified  bool           `gorm:"column:is_verified;not null;default:false"`
	PhoneCount  int            `gorm:"column:phone_count;not null;default:0"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"column:deleted_at;index"`
}
