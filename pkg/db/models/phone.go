package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

// Phone is the catalog entry. Counters are maintained by side-effecting updates.
type Phone struct {
	ID              uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	BrandID         uuid.UUID         `gorm:"column:brand_id;type:uuid;not null;index"`
	Brand           *Brand            `gorm:"foreignKey:BrandID"`
	Name            string            `gorm:"column:name;not null"`
	Slug            string            `gorm:"column:slug;not null;uniqueIndex:phones_slug_key"`
	Model           *string           `gorm:"column:model"`
	Series          *string           `gorm:"column:series"`
	Description     *string           `gorm:"column:description"`
	Status          enums.PhoneStatus `gorm:"column:status;type:phone_status;not null;default:draft"`
	LaunchPrice     *decimal.Decimal  `gorm:"column:launch_price;type:numeric(10,2)"`
	CurrentPrice    *decimal.Decimal  `gorm:"column:current_price;type:numeric(10,2)"`
	Currency        string            `gorm:"column:currency;not null;default:USD"`
	ReleaseDate     *time.Time        `gorm:"column:release_date"`
	ThumbnailURL    *string           `gorm:"column:thumbnail_url"`
	MetaTitle       *string           `gorm:"column:meta_title"`
	MetaDescription *string           `gorm:"column:meta_description"`
	ViewCount       int64             `gorm:"column:view_count;not null;default:0"`
	LikeCount       int64             `gorm:"column:like_count;not null;default:0"`
	ReviewCount     int64             `gorm:"column:review_count;not null;default:0"`
	AverageRating   float64           `gorm:"column:average_rating;not null;default:0"`
	Specifications  []Specification   `gorm:"foreignKey:PhoneID;constraint:OnDelete:CASCADE"`
	Colors          []PhoneColor      `gorm:"foreignKey:PhoneID;constraint:OnDelete:CASCADE"`
	Variants        []PhoneVariant    `gorm:"foreignKey:PhoneID;constraint:OnDelete:CASCADE"`
	Images          []GalleryImage    `gorm:"foreignKey:PhoneID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt    `gorm:"column:deleted_at;index"`
}

// EffectivePrice is the current price, falling back to the launch price.
func (p Phone) EffectivePrice() *decimal.Decimal {
	if p.CurrentPrice != nil {
		return p.CurrentPrice
	}
	return p.LaunchPrice
}

// Specification is a key/value row scoped to a phone.
type Specification struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PhoneID     uuid.UUID `gorm:"column:phone_id;type:uuid;not null;index"`
	Category    string    `gorm:"column:category;not null"`
	Key         string    `gorm:"column:key;not null"`
	DisplayName string    `gorm:"column:display_name;not null"`
	Value       string    `gorm:"column:value;not null"`
	Unit        *string   `gorm:"column:unit"`
	IsHighlight bool      `gorm:"column:is_highlight;not null;default:false"`
	Priority    int       `gorm:"column:priority;not null;default:0"`
}

// PhoneColor is a color swatch a phone ships in.
type PhoneColor struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PhoneID     uuid.UUID `gorm:"column:phone_id;type:uuid;not null;index"`
	Name        string    `gorm:"column:name;not null"`
	HexCode     *string   `gorm:"column:hex_code"`
	ImageURL    *string   `gorm:"column:image_url"`
	IsAvailable bool      `gorm:"column:is_available;not null"`
}

// PhoneVariant is a storage/RAM/price combination.
type PhoneVariant struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	PhoneID     uuid.UUID        `gorm:"column:phone_id;type:uuid;not null;index"`
	Storage     string           `gorm:"column:storage;not null"`
	RAM         *string          `gorm:"column:ram"`
	Price       *decimal.Decimal `gorm:"column:price;type:numeric(10,2)"`
	IsAvailable bool             `gorm:"column:is_available;not null"`
}

// GalleryImage is an ordered product shot.
type GalleryImage struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PhoneID  uuid.UUID `gorm:"column:phone_id;type:uuid;not null;index"`
	URL      string    `gorm:"column:url;not null"`
	AltText  *string   `gorm:"column:alt_text"`
	Position int       `gorm:"column:position;not null;default:0"`
}
