package brands

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
		"createdAt":  "created_at",
		"updatedAt":  "updated_at",
		"name":       "name",
		"phoneCount": "phone_count",
		"country":    "country",
	},
}

// Repository persists brands for the dashboard.
type Repository struct {
	repo.Base
}

// NewRepository binds the brand repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

func (r *Repository) scoped(ctx context.Context, includeDeleted bool) *gorm.DB {
	db := r.DB(ctx).Model(&models.Brand{})
	if includeDeleted {
		db = db.Unscoped()
	}
	return db
}

// List returns one page of brands and the total match count.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Brand, int64, error) {
	where := filter.All(
		filter.ContainsFold(q.Search, "name", "slug", "country"),
		filter.EqOpt("is_active", q.IsActive),
	)

	var total int64
	if err := where.Apply(r.scoped(ctx, q.IncludeDeleted)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []models.Brand{}
	if total == 0 {
		return rows, 0, nil
	}
	query := sortKeys.Resolve(q.SortBy, q.SortOrder).Apply(where.Apply(r.scoped(ctx, q.IncludeDeleted)), "id")
	err := query.Scopes(repo.Paginate(q.Page)).Find(&rows).Error
	return rows, total, err
}

// FindByID loads a brand, soft-deleted ones included.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.DB(ctx).Unscoped().First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// FindLiveByID loads a brand that is not soft-deleted.
func (r *Repository) FindLiveByID(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.DB(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &brand, nil
}

// Conflicts reports whether another brand, deleted or not, already uses name
// or slug.
func (r *Repository) Conflicts(ctx context.Context, name, slug string, exclude uuid.UUID) (bool, error) {
	query := r.DB(ctx).Unscoped().Model(&models.Brand{}).
		Where("(LOWER(name) = LOWER(?) OR slug = ?)", name, slug)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts brand.
func (r *Repository) Create(ctx context.Context, brand *models.Brand) error {
	return r.DB(ctx).Create(brand).Error
}

// Save persists every column of brand.
func (r *Repository) Save(ctx context.Context, brand *models.Brand) error {
	return r.DB(ctx).Unscoped().Save(brand).Error
}

// SoftDelete stamps deleted_at.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Brand{}, "id = ?", id).Error
}

// Restore clears deleted_at.
func (r *Repository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Unscoped().
		Model(&models.Brand{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}

// AdjustPhoneCount adds delta to phone_count, never going below zero.
func (r *Repository) AdjustPhoneCount(ctx context.Context, id uuid.UUID, delta int) error {
	return r.DB(ctx).Unscoped().
		Model(&models.Brand{}).
		Where("id = ?", id).
		UpdateColumn("phone_count", gorm.Expr("CASE WHEN phone_count + ? < 0 THEN 0 ELSE phone_count + ? END", delta, delta)).
		Error
}

// ReconcilePhoneCounts rewrites every brand's phone_count from its live phones
// and returns the number of brands touched.
func (r *Repository) ReconcilePhoneCounts(ctx context.Context) (int64, error) {
	res := r.DB(ctx).Exec(`UPDATE brands SET phone_count = (
  SELECT COUNT(*) FROM phones WHERE phones.brand_id = brands.id AND phones.deleted_at IS NULL
)`)
	return res.RowsAffected, res.Error
}
