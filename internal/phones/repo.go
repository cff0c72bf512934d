package phones

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
		"createdAt":     "phones.created_at",
		"updatedAt":     "phones.updated_at",
		"name":          "phones.name",
		"status":        "phones.status",
		"launchPrice":   "phones.launch_price",
		"currentPrice":  "phones.current_price",
		"releaseDate":   "phones.release_date",
		"viewCount":     "phones.view_count",
		"averageRating": "phones.average_rating",
	},
}

// Repository persists phones and their child collections.
type Repository struct {
	repo.Base
}

// NewRepository binds the phone repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Base.WithTx(tx)}
}

func (r *Repository) scoped(ctx context.Context, includeDeleted bool) *gorm.DB {
	db := r.DB(ctx).Model(&models.Phone{})
	if includeDeleted {
		db = db.Unscoped()
	}
	return db
}

// List returns one page of phones, brand preloaded.
func (r *Repository) List(ctx context.Context, q ListQuery) ([]models.Phone, int64, error) {
	where := filter.All(
		filter.ContainsFold(q.Search, "phones.name", "phones.slug", "phones.model", "phones.series"),
		filter.EqOpt("phones.brand_id", q.BrandID),
		filter.EqOpt("phones.status", q.Status),
	)

	var total int64
	if err := where.Apply(r.scoped(ctx, q.IncludeDeleted)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	rows := []models.Phone{}
	if total == 0 {
		return rows, 0, nil
	}
	query := sortKeys.Resolve(q.SortBy, q.SortOrder).Apply(where.Apply(r.scoped(ctx, q.IncludeDeleted)), "phones.id")
	err := query.
		Preload("Brand", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Scopes(repo.Paginate(q.Page)).
		Find(&rows).Error
	return rows, total, err
}

// FindByID loads a phone, soft-deleted ones included, without children.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Phone, error) {
	var phone models.Phone
	if err := r.DB(ctx).Unscoped().First(&phone, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &phone, nil
}

// FindDetail loads a phone with brand and every child collection.
func (r *Repository) FindDetail(ctx context.Context, id uuid.UUID) (*models.Phone, error) {
	var phone models.Phone
	err := r.DB(ctx).
		Unscoped().
		Preload("Brand", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Specifications", func(db *gorm.DB) *gorm.DB {
			return db.Order("category ASC").Order("priority DESC").Order("key ASC")
		}).
		Preload("Colors", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Variants", func(db *gorm.DB) *gorm.DB { return db.Order("price ASC").Order("storage ASC") }).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&phone, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &phone, nil
}

// SlugTaken reports whether another phone, deleted or not, uses slug.
func (r *Repository) SlugTaken(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	query := r.DB(ctx).Unscoped().Model(&models.Phone{}).Where("slug = ?", slug)
	if exclude != uuid.Nil {
		query = query.Where("id <> ?", exclude)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the phone row only; children are written separately.
func (r *Repository) Create(ctx context.Context, phone *models.Phone) error {
	return r.DB(ctx).Omit(
		"Brand", "Specifications", "Colors", "Variants", "Images",
	).Create(phone).Error
}

// Save persists every scalar column of phone.
func (r *Repository) Save(ctx context.Context, phone *models.Phone) error {
	return r.DB(ctx).Unscoped().Omit(
		"Brand", "Specifications", "Colors", "Variants", "Images",
	).Save(phone).Error
}

// ReplaceSpecifications swaps the phone's specification rows.
func (r *Repository) ReplaceSpecifications(ctx context.Context, phoneID uuid.UUID, rows []models.Specification) error {
	return replaceChildren(r.DB(ctx), phoneID, &models.Specification{}, rows)
}

// ReplaceColors swaps the phone's colors.
func (r *Repository) ReplaceColors(ctx context.Context, phoneID uuid.UUID, rows []models.PhoneColor) error {
	return replaceChildren(r.DB(ctx), phoneID, &models.PhoneColor{}, rows)
}

// ReplaceVariants swaps the phone's variants.
func (r *Repository) ReplaceVariants(ctx context.Context, phoneID uuid.UUID, rows []models.PhoneVariant) error {
	return replaceChildren(r.DB(ctx), phoneID, &models.PhoneVariant{}, rows)
}

// ReplaceImages swaps the phone's gallery.
func (r *Repository) ReplaceImages(ctx context.Context, phoneID uuid.UUID, rows []models.GalleryImage) error {
	return replaceChildren(r.DB(ctx), phoneID, &models.GalleryImage{}, rows)
}

func replaceChildren[T any](db *gorm.DB, phoneID uuid.UUID, model *T, rows []T) error {
	if err := db.Where("phone_id = ?", phoneID).Delete(model).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}

// SoftDelete stamps deleted_at.
func (r *Repository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Delete(&models.Phone{}, "id = ?", id).Error
}

// Restore clears deleted_at.
func (r *Repository) Restore(ctx context.Context, id uuid.UUID) error {
	return r.DB(ctx).Unscoped().
		Model(&models.Phone{}).
		Where("id = ?", id).
		Update("deleted_at", nil).Error
}
