package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/internal/repo"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/filter"
)

var sortKeys = filter.SortKeys{
	Default: "createdAt",
	Columns: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"name":      "name",
		"email":     "email",
		"role":      "role",
	},
}

// Repository exposes user-related persistence operations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns one page of users and the total match count.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.User, int64, error) {
	where := filter.All(
		filter.ContainsFold(q.Search, "name", "email"),
		filter.EqOpt("role", q.Role),
		filter.EqOpt("is_active", q.IsActive),
	)

	var total int64
	if err := where.Apply(r.DB(ctx).Model(&models.User{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []models.User{}
	if total == 0 {
		return rows, 0, nil
	}
	query := sortKeys.Resolve(q.SortBy, q.SortOrder).Apply(where.Apply(r.DB(ctx).Model(&models.User{})), "id")
	err := query.Scopes(repo.Paginate(q.Page)).Find(&rows).Error
	return rows, total, err
}

// Create inserts a new user.
func (r *Repository) Create(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Create(user).Error
}

// Save persists every column of user.
func (r *Repository) Save(ctx context.Context, user *models.User) error {
	return r.DB(ctx).Save(user).Error
}

// Delete removes the user row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.DB(ctx).Delete(&models.User{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

// EmailTaken reports whether another user already holds email.
func (r *Repository) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	query := r.DB(ctx).Model(&models.User{}).Where("LOWER(email) = ?", email)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).Where("LOWER(email) = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// ReviewedPhoneIDs lists the phones the user has reviewed.
func (r *Repository) ReviewedPhoneIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB(ctx).Model(&models.Review{}).
		Where("user_id = ?", userID).
		Pluck("phone_id", &ids).Error
	return ids, err
}

// PurgeActivity removes the user's reviews, comments and wishlist entries,
// releasing the like each wishlist entry held on its phone.
func (r *Repository) PurgeActivity(ctx context.Context, userID uuid.UUID) error {
	db := r.DB(ctx)
	liked := db.Model(&models.WishlistItem{}).Select("phone_id").Where("user_id = ?", userID)
	if err := db.Unscoped().Model(&models.Phone{}).
		Where("id IN (?)", liked).
		UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).
		Error; err != nil {
		return err
	}
	for _, model := range []any{&models.WishlistItem{}, &models.Comment{}, &models.Review{}} {
		if err := db.Where("user_id = ?", userID).Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}
