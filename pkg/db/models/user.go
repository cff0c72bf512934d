package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

// User is a catalog member or staff account.
type User struct {
	ID           uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	Email        string         `gorm:"column:email;type:text;not null;uniqueIndex:users_email_key"`
	Name         string         `gorm:"column:name;not null"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;type:user_role;not null;default:user"`
	AvatarURL    *string        `gorm:"column:avatar_url"`
	IsActive     bool           `gorm:"column:is_active;not null"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
