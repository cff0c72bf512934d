package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/internal/repo"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

const priorityRank = "CASE wishlist_items.priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END"

const livePhone = "JOIN phones ON phones.id = wishlist_items.phone_id AND phones.deleted_at IS NULL"

// Repository encapsulates wishlist persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a wishlist repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

func (r *Repository) userItems(ctx context.Context, userID uuid.UUID) *gorm.DB {
	return r.DB(ctx).
		Model(&models.WishlistItem{}).
		Joins(livePhone).
		Where("wishlist_items.user_id = ?", userID)
}

// ListItems returns one page of the user's wishlist, high priority first and
// newest first within a priority. Entries for deleted phones are skipped.
func (r *Repository) ListItems(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]models.WishlistItem, int64, error) {
	var total int64
	if err := r.userItems(ctx, userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []models.WishlistItem{}
	if total == 0 {
		return rows, 0, nil
	}
	err := r.userItems(ctx, userID).
		Preload("Phone.Brand", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Order(priorityRank).
		Order("wishlist_items.created_at DESC").
		Order("wishlist_items.id DESC").
		Scopes(repo.Paginate(page)).
		Find(&rows).Error
	return rows, total, err
}

// Find loads the user's entry for phoneID with the phone preloaded.
func (r *Repository) Find(ctx context.Context, userID, phoneID uuid.UUID) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.DB(ctx).
		Preload("Phone.Brand", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("user_id = ? AND phone_id = ?", userID, phoneID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// PublicPhoneExists reports whether the phone is live and not a draft.
func (r *Repository) PublicPhoneExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Phone{}).
		Where("id = ? AND status <> ?", id, enums.PhoneStatusDraft).
		Count(&count).Error
	return count > 0, err
}

// AddItem inserts a wishlist entry.
func (r *Repository) AddItem(ctx context.Context, item *models.WishlistItem) error {
	return r.DB(ctx).Omit("Phone").Create(item).Error
}

// UpdateItem writes notes and priority.
func (r *Repository) UpdateItem(ctx context.Context, item *models.WishlistItem) error {
	return r.DB(ctx).Model(item).Updates(map[string]any{
		"notes":    item.Notes,
		"priority": item.Priority,
	}).Error
}

// RemoveItem deletes the user-phone entry and reports whether it existed.
func (r *Repository) RemoveItem(ctx context.Context, userID, phoneID uuid.UUID) (bool, error) {
	res := r.DB(ctx).
		Where("user_id = ? AND phone_id = ?", userID, phoneID).
		Delete(&models.WishlistItem{})
	return res.RowsAffected > 0, res.Error
}

// AdjustLikeCount adds delta to the phone's like_count, never below zero.
func (r *Repository) AdjustLikeCount(ctx context.Context, phoneID uuid.UUID, delta int) error {
	return r.DB(ctx).Unscoped().
		Model(&models.Phone{}).
		Where("id = ?", phoneID).
		UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count + ? < 0 THEN 0 ELSE like_count + ? END", delta, delta)).
		Error
}
