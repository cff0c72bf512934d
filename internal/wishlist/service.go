// Package wishlist keeps each caller's saved phones and the like_count they
// contribute to.
package wishlist

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups dependencies for the wishlist service.
type ServiceParams struct {
	WishlistRepo *Repository
	TxRunner     txRunner
}

// Service exposes business rules for wishlist management.
type Service interface {
	GetWishlist(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]WishlistItemDTO, types.Pagination, error)
	AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (WishlistItemDTO, error)
	UpdateItem(ctx context.Context, userID, phoneID uuid.UUID, input UpdateItemInput) (WishlistItemDTO, error)
	RemoveItem(ctx context.Context, userID, phoneID uuid.UUID) error
}

type service struct {
	wishlistRepo *Repository
	tx           txRunner
}

// NewService builds a wishlist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.WishlistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wishlist repo is required")
	}
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{wishlistRepo: params.WishlistRepo, tx: params.TxRunner}, nil
}

// GetWishlist returns the paginated wishlist for a user.
func (s *service) GetWishlist(ctx context.Context, userID uuid.UUID, page pagination.Params) ([]WishlistItemDTO, types.Pagination, error) {
	if userID == uuid.Nil {
		return nil, types.Pagination{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, total, err := s.wishlistRepo.ListItems(ctx, userID, page)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list wishlist")
	}
	out := make([]WishlistItemDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewWishlistItemDTO(row))
	}
	return out, page.Meta(total), nil
}

func validPriority(p enums.WishlistPriority) error {
	if !p.IsValid() {
		return pkgerrors.InvalidField("priority", "invalid priority", "must be one of low, medium, high")
	}
	return nil
}

// AddItem ensures the phone exists and adds it to the wishlist.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (WishlistItemDTO, error) {
	if userID == uuid.Nil {
		return WishlistItemDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.PhoneID == uuid.Nil {
		return WishlistItemDTO{}, pkgerrors.InvalidField("phoneId", "phone id is required", "is required")
	}
	priority := input.Priority
	if priority == "" {
		priority = enums.WishlistPriorityMedium
	}
	if err := validPriority(priority); err != nil {
		return WishlistItemDTO{}, err
	}

	var out WishlistItemDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.wishlistRepo.WithTx(tx)
		ok, err := repo.PublicPhoneExists(ctx, input.PhoneID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load phone")
		}
		if !ok {
			return pkgerrors.NotFound("phone")
		}
		if _, err := repo.Find(ctx, userID, input.PhoneID); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "phone is already on the wishlist")
		} else if !db.IsNotFound(err) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check wishlist")
		}

		item := &models.WishlistItem{
			UserID:   userID,
			PhoneID:  input.PhoneID,
			Notes:    trimmed(input.Notes),
			Priority: priority,
		}
		if err := repo.AddItem(ctx, item); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "phone is already on the wishlist")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: insert wishlist item")
		}
		if err := repo.AdjustLikeCount(ctx, input.PhoneID, 1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: bump like count")
		}
		stored, err := repo.Find(ctx, userID, input.PhoneID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: reload wishlist item")
		}
		out = NewWishlistItemDTO(*stored)
		return nil
	})
	if err != nil {
		return WishlistItemDTO{}, err
	}
	return out, nil
}

// UpdateItem edits notes or priority of an existing entry.
func (s *service) UpdateItem(ctx context.Context, userID, phoneID uuid.UUID, input UpdateItemInput) (WishlistItemDTO, error) {
	if input.Priority != nil {
		if err := validPriority(*input.Priority); err != nil {
			return WishlistItemDTO{}, err
		}
	}
	item, err := s.wishlistRepo.Find(ctx, userID, phoneID)
	if err != nil {
		if db.IsNotFound(err) {
			return WishlistItemDTO{}, pkgerrors.NotFound("wishlist item")
		}
		return WishlistItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load wishlist item")
	}
	if input.Notes != nil {
		item.Notes = trimmed(input.Notes)
	}
	if input.Priority != nil {
		item.Priority = *input.Priority
	}
	if err := s.wishlistRepo.UpdateItem(ctx, item); err != nil {
		return WishlistItemDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: update wishlist item")
	}
	return NewWishlistItemDTO(*item), nil
}

// RemoveItem drops the wishlist entry and releases its like.
func (s *service) RemoveItem(ctx context.Context, userID, phoneID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.wishlistRepo.WithTx(tx)
		removed, err := repo.RemoveItem(ctx, userID, phoneID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete wishlist item")
		}
		if !removed {
			return pkgerrors.NotFound("wishlist item")
		}
		if err := repo.AdjustLikeCount(ctx, phoneID, -1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: release like count")
		}
		return nil
	})
}
