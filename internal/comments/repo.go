package comments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/internal/repo"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	"github.com/angelmondragon/phonedex-backend/pkg/filter"
)

// Repository persists comments.
type Repository struct {
	repo.Base
}

// NewRepository binds the comment repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Published returns every published comment on the phone, oldest first.
func (r *Repository) Published(ctx context.Context, phoneID uuid.UUID) ([]models.Comment, error) {
	rows := []models.Comment{}
	err := r.DB(ctx).
		Preload("User").
		Where("phone_id = ? AND status = ?", phoneID, enums.CommentStatusPublished).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// List returns one page of comments for moderation, newest first.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Comment, int64, error) {
	where := filter.All(
		filter.EqOpt("phone_id", q.PhoneID),
		filter.EqOpt("status", q.Status),
	)
	var total int64
	if err := where.Apply(r.DB(ctx).Model(&models.Comment{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []models.Comment{}
	if total == 0 {
		return rows, 0, nil
	}
	err := where.Apply(r.DB(ctx).Model(&models.Comment{})).
		Preload("User").
		Order("created_at DESC").
		Order("id DESC").
		Scopes(repo.Paginate(q.Page)).
		Find(&rows).Error
	return rows, total, err
}

// FindByID loads a comment with its author.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.DB(ctx).Preload("User").First(&comment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// PublicPhoneExists reports whether the phone is live and not a draft.
func (r *Repository) PublicPhoneExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Phone{}).
		Where("id = ? AND status <> ?", id, enums.PhoneStatusDraft).
		Count(&count).Error
	return count > 0, err
}

// Create inserts comment.
func (r *Repository) Create(ctx context.Context, comment *models.Comment) error {
	return r.DB(ctx).Omit("User").Create(comment).Error
}

// SetStatus updates the moderation status.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status enums.CommentStatus) (bool, error) {
	res := r.DB(ctx).Model(&models.Comment{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}
