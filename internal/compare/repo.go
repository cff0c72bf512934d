package compare

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/internal/repo"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
)

const galleryLimit = 3

// RatingAggregate is the per-phone review rollup. Sub-rating averages are
// nil when no review populated that field.
type RatingAggregate struct {
	PhoneID     uuid.UUID
	Total       int64
	Overall     *float64
	Design      *float64
	Performance *float64
	Camera      *float64
	Battery     *float64
	Value       *float64
}

// Snapshot is everything the builder needs for one comparison.
type Snapshot struct {
	Phones  []models.Phone
	Ratings map[uuid.UUID]RatingAggregate
	Images  map[uuid.UUID][]models.GalleryImage
}

// Repository loads comparison inputs.
type Repository struct {
	repo.Base
}

// NewRepository binds the comparison repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Load fetches phones, review aggregates and galleries concurrently.
func (r *Repository) Load(ctx context.Context, ids []uuid.UUID) (Snapshot, error) {
	var snap Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		phones, err := r.phones(gctx, ids)
		snap.Phones = phones
		return err
	})
	g.Go(func() error {
		ratings, err := r.ratings(gctx, ids)
		snap.Ratings = ratings
		return err
	})
	g.Go(func() error {
		images, err := r.images(gctx, ids)
		snap.Images = images
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (r *Repository) phones(ctx context.Context, ids []uuid.UUID) ([]models.Phone, error) {
	var rows []models.Phone
	err := r.DB(ctx).
		Model(&models.Phone{}).
		Joins(catalog.JoinLiveBrands).
		Preload("Brand").
		Preload("Specifications").
		Preload("Colors", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_available = ?", true).Order("price ASC").Order("storage ASC")
		}).
		Where("phones.id IN ?", ids).
		Find(&rows).Error
	return rows, err
}

func (r *Repository) ratings(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]RatingAggregate, error) {
	var rows []RatingAggregate
	err := r.DB(ctx).
		Model(&models.Review{}).
		Select(`phone_id,
  COUNT(*) AS total,
  AVG(rating) AS overall,
  AVG(design_rating) AS design,
  AVG(performance_rating) AS performance,
  AVG(camera_rating) AS camera,
  AVG(battery_rating) AS battery,
  AVG(value_rating) AS value`).
		Where("phone_id IN ?", ids).
		Group("phone_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]RatingAggregate, len(rows))
	for _, row := range rows {
		out[row.PhoneID] = row
	}
	return out, nil
}

func (r *Repository) images(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]models.GalleryImage, error) {
	var rows []models.GalleryImage
	err := r.DB(ctx).
		Where("phone_id IN ?", ids).
		Order("phone_id ASC").
		Order("position ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID][]models.GalleryImage, len(ids))
	for _, row := range rows {
		if len(out[row.PhoneID]) < galleryLimit {
			out[row.PhoneID] = append(out[row.PhoneID], row)
		}
	}
	return out, nil
}
