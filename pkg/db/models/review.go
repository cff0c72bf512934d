package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

// Review is unique per (user, phone). Sub-ratings are optional.
type Review struct {
	ID                uuid.UUID      `gorm:"column:id;type:uuid;primaryKey"`
	UserID            uuid.UUID      `gorm:"column:user_id;type:uuid;not null;uniqueIndex:reviews_user_phone_key"`
	User              *User          `gorm:"foreignKey:UserID"`
	PhoneID           uuid.UUID      `gorm:"column:phone_id;type:uuid;not null;index;uniqueIndex:reviews_user_phone_key"`
	Phone             *Phone         `gorm:"foreignKey:PhoneID"`
	Rating            int            `gorm:"column:rating;not null"`
	Title             *string        `gorm:"column:title"`
	Content           *string        `gorm:"column:content"`
	DesignRating      *int           `gorm:"column:design_rating"`
	PerformanceRating *int           `gorm:"column:performance_rating"`
	CameraRating      *int           `gorm:"column:camera_rating"`
	BatteryRating     *int           `gorm:"column:battery_rating"`
	ValueRating       *int           `gorm:"column:value_rating"`
	Pros              pq.StringArray `gorm:"column:pros;type:text[]"`
	Cons              pq.StringArray `gorm:"column:cons;type:text[]"`
	HelpfulCount      int64          `gorm:"column:helpful_count;not null;default:0"`
	NotHelpfulCount   int64          `gorm:"column:not_helpful_count;not null;default:0"`
	IsVerified        bool           `gorm:"column:is_verified;not null;default:false"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// Comment is a threaded discussion entry. ParentID nil means top-level.
type Comment struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	PhoneID     uuid.UUID           `gorm:"column:phone_id;type:uuid;not null;index"`
	UserID      uuid.UUID           `gorm:"column:user_id;type:uuid;not null"`
	User        *User               `gorm:"foreignKey:UserID"`
	ParentID    *uuid.UUID          `gorm:"column:parent_id;type:uuid;index"`
	Content     string              `gorm:"column:content;not null"`
	Status      enums.CommentStatus `gorm:"column:status;type:comment_status;not null;default:published"`
	LikeCount   int64               `gorm:"column:like_count;not null;default:0"`
	ReportCount int64               `gorm:"column:report_count;not null;default:0"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// WishlistItem links a user to a saved phone.
type WishlistItem struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID              `gorm:"column:user_id;type:uuid;not null;index;uniqueIndex:wishlist_items_user_phone_key"`
	PhoneID   uuid.UUID              `gorm:"column:phone_id;type:uuid;not null;index;uniqueIndex:wishlist_items_user_phone_key"`
	Phone     *Phone                 `gorm:"foreignKey:PhoneID"`
	Notes     *string                `gorm:"column:notes"`
	Priority  enums.WishlistPriority `gorm:"column:priority;type:wishlist_priority;not null;default:medium"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
