package wishlist

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

// AddItemInput is the POST /wishlist body.
type AddItemInput struct {
	PhoneID  uuid.UUID              `json:"phoneId" validate:"required"`
	Notes    *string                `json:"notes" validate:"omitempty,max=1000"`
	Priority enums.WishlistPriority `json:"priority"`
}

// UpdateItemInput is the PATCH /wishlist/{phoneId} body.
type UpdateItemInput struct {
	Notes    *string                 `json:"notes" validate:"omitempty,max=1000"`
	Priority *enums.WishlistPriority `json:"priority"`
}

// WishlistItemDTO wraps the phone summary included in a wishlist row.
type WishlistItemDTO struct {
	ID        uuid.UUID              `json:"id"`
	PhoneID   uuid.UUID              `json:"phoneId"`
	Notes     *string                `json:"notes"`
	Priority  enums.WishlistPriority `json:"priority"`
	CreatedAt time.Time              `json:"createdAt"`
	UpdatedAt time.Time              `json:"updatedAt"`
	Phone     *catalog.PhoneSummary  `json:"phone,omitempty"`
}

// NewWishlistItemDTO maps a wishlist row and its preloaded phone.
func NewWishlistItemDTO(item models.WishlistItem) WishlistItemDTO {
	dto := WishlistItemDTO{
		ID:        item.ID,
		PhoneID:   item.PhoneID,
		Notes:     item.Notes,
		Priority:  item.Priority,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	if item.Phone != nil {
		summary := catalog.NewPhoneSummary(*item.Phone)
		dto.Phone = &summary
	}
	return dto
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
