package reviews

import (
	"context"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/internal/repo"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/filter"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

var sortKeys = filter.SortKeys{
	Default: "createdAt",
	Columns: map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"rating":    "rating",
		"helpful":   "helpful_count",
	},
}

// Repository persists reviews and keeps the phone rating aggregate in sync.
type Repository struct {
	repo.Base
}

// NewRepository binds the review repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

// List returns one page of reviews, authors preloaded.
func (r *Repository) List(ctx context.Context, where filter.Predicate, sort filter.Sort, page pagination.Params) ([]models.Review, int64, error) {
	var total int64
	if err := where.Apply(r.DB(ctx).Model(&models.Review{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []models.Review{}
	if total == 0 {
		return rows, 0, nil
	}
	err := sort.Apply(where.Apply(r.DB(ctx).Model(&models.Review{})), "id").
		Preload("User").
		Scopes(repo.Paginate(page)).
		Find(&rows).Error
	return rows, total, err
}

// FindByID loads a review with its author.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.DB(ctx).Preload("User").First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// Exists reports whether the user already reviewed the phone.
func (r *Repository) Exists(ctx context.Context, userID, phoneID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Review{}).
		Where("user_id = ? AND phone_id = ?", userID, phoneID).
		Count(&count).Error
	return count > 0, err
}

// FindPhone loads a phone that is not soft-deleted.
func (r *Repository) FindPhone(ctx context.Context, id uuid.UUID) (*models.Phone, error) {
	var phone models.Phone
	if err := r.DB(ctx).Select("id", "status", "brand_id").First(&phone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &phone, nil
}

// FindUser loads a user by id.
func (r *Repository) FindUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts review.
func (r *Repository) Create(ctx context.Context, review *models.Review) error {
	return r.DB(ctx).Omit("User", "Phone").Create(review).Error
}

// Save persists every column of review.
func (r *Repository) Save(ctx context.Context, review *models.Review) error {
	return r.DB(ctx).Omit("User", "Phone").Save(review).Error
}

// Delete removes the review row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Review{}, "id = ?", id).Error
}

// Vote bumps the helpful or not-helpful counter.
func (r *Repository) Vote(ctx context.Context, id uuid.UUID, helpful bool) (bool, error) {
	column := "not_helpful_count"
	if helpful {
		column = "helpful_count"
	}
	res := r.DB(ctx).Model(&models.Review{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	return res.RowsAffected > 0, res.Error
}

type ratingAggregate struct {
	Total   int64
	Average *float64
}

// RecomputePhoneRating rewrites review_count and average_rating on the phone
// from the reviews table.
func (r *Repository) RecomputePhoneRating(ctx context.Context, phoneID uuid.UUID) error {
	var agg ratingAggregate
	err := r.DB(ctx).Model(&models.Review{}).
		Select("COUNT(*) AS total, AVG(rating) AS average").
		Where("phone_id = ?", phoneID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	average := 0.0
	if agg.Average != nil {
		average = math.Round(*agg.Average*100) / 100
	}
	return r.DB(ctx).Unscoped().Model(&models.Phone{}).
		Where("id = ?", phoneID).
		UpdateColumns(map[string]any{
			"review_count":   agg.Total,
			"average_rating": average,
		}).Error
}
