package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/internal/repo"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	"github.com/angelmondragon/phonedex-backend/pkg/filter"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

const (
	// JoinLiveBrands restricts phone queries to brands that are not soft-deleted.
	JoinLiveBrands = "JOIN brands ON brands.id = phones.brand_id AND brands.deleted_at IS NULL"
	// NotDraft hides unpublished phones from public reads.
	NotDraft = "phones.status <> 'draft'"
)

var phoneSortKeys = filter.SortKeys{
	Default: "createdAt",
	Columns: map[string]string{
		"createdAt":     "phones.created_at",
		"name":          "phones.name",
		"launchPrice":   "phones.launch_price",
		"currentPrice":  "phones.current_price",
		"releaseDate":   "phones.release_date",
		"viewCount":     "phones.view_count",
		"averageRating": "phones.average_rating",
	},
}

// Repository reads the public catalog.
type Repository struct {
	repo.Base
}

// NewRepository binds the catalog repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// PublicPhones scopes a phone query to live phones of live brands.
func PublicPhones(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Phone{}).Joins(JoinLiveBrands).Where(NotDraft)
}

// ListPhones returns one page of phones matching where, brand preloaded.
func (r *Repository) ListPhones(ctx context.Context, where filter.Predicate, sort filter.Sort, page pagination.Params) ([]models.Phone, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		return where.Apply(db.Model(&models.Phone{}).Joins(JoinLiveBrands))
	}

	var total int64
	if err := r.DB(ctx).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Phone
	if total == 0 {
		return rows, 0, nil
	}
	query := sort.Apply(r.DB(ctx).Scopes(scope), "phones.id").
		Preload("Brand").
		Scopes(repo.Paginate(page))
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// FindPhone loads a phone by id or slug with every child collection. Drafts
// are returned; soft-deleted phones and phones of deleted brands are not.
func (r *Repository) FindPhone(ctx context.Context, idOrSlug string) (*models.Phone, error) {
	query := r.DB(ctx).
		Model(&models.Phone{}).
		Joins(JoinLiveBrands).
		Preload("Brand").
		Preload("Specifications", func(db *gorm.DB) *gorm.DB {
			return db.Order("category ASC").Order("priority DESC").Order("key ASC")
		}).
		Preload("Colors", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("price ASC").Order("storage ASC")
		}).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	key := strings.TrimSpace(idOrSlug)
	if id, err := uuid.Parse(key); err == nil {
		query = query.Where("phones.id = ?", id)
	} else {
		query = query.Where("phones.slug = ?", strings.ToLower(key))
	}

	var phone models.Phone
	if err := query.First(&phone).Error; err != nil {
		return nil, err
	}
	return &phone, nil
}

// ListBrands returns active brands ordered by name.
func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	err := r.DB(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// FindBrandBySlug returns an active brand.
func (r *Repository) FindBrandBySlug(ctx context.Context, slug string) (*models.Brand, error) {
	var brand models.Brand
	err := r.DB(ctx).
		Where("slug = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(slug)), true).
		First(&brand).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// ListBrandPhones returns the public phones of a brand, newest release first.
func (r *Repository) ListBrandPhones(ctx context.Context, brandID uuid.UUID) ([]models.Phone, error) {
	var rows []models.Phone
	err := r.DB(ctx).
		Scopes(PublicPhones).
		Where("phones.brand_id = ?", brandID).
		Order("phones.release_date DESC").
		Order("phones.name ASC").
		Find(&rows).Error
	return rows, err
}

// StatusPredicate filters on status, or hides drafts when none is requested.
func StatusPredicate(status *enums.PhoneStatus) filter.Predicate {
	if status == nil {
		return filter.Raw(NotDraft)
	}
	return filter.Eq("phones.status", *status)
}
