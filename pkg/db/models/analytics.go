package models

import (
	"time"

	"github.com/google/uuid"
)

// PageView is appended for every phone detail fetch.
type PageView struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	PhoneID   uuid.UUID  `gorm:"column:phone_id;type:uuid;not null;index"`
	Path      string     `gorm:"column:path;not null"`
	IPAddress *string    `gorm:"column:ip_address"`
	UserAgent *string    `gorm:"column:user_agent"`
	Referrer  *string    `gorm:"column:referrer"`
	UserID    *uuid.UUID `gorm:"column:user_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime;index"`
}

// SearchLog records one full search request.
type SearchLog struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Query       string    `gorm:"column:query;not null"`
	ResultCount int       `gorm:"column:result_count;not null;default:0"`
	IPAddress   *string   `gorm:"column:ip_address"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime;index"`
}
