package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/internal/repo"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
)

// Repository persists raw analytics rows.
type Repository struct {
	repo.Base
}

// NewRepository binds the analytics repository to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// InsertPageView stores one phone page visit.
func (r *Repository) InsertPageView(ctx context.Context, row *models.PageView) error {
	return r.DB(ctx).Create(row).Error
}

// InsertSearchLog stores one executed search.
func (r *Repository) InsertSearchLog(ctx context.Context, row *models.SearchLog) error {
	return r.DB(ctx).Create(row).Error
}

// IncrementViewCount bumps phones.view_count directly, bypassing the buffer.
func (r *Repository) IncrementViewCount(ctx context.Context, phoneID uuid.UUID, n int64) error {
	return r.DB(ctx).
		Model(&models.Phone{}).
		Where("id = ?", phoneID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", n)).
		Error
}

// ApplyViewCounts adds flushed buffer counts to phones.view_count. Unknown ids
// are skipped by the WHERE clause.
func (r *Repository) ApplyViewCounts(ctx context.Context, tx *gorm.DB, counts map[uuid.UUID]int64) error {
	db := r.conn(ctx, tx)
	for phoneID, n := range counts {
		err := db.Unscoped().
			Model(&models.Phone{}).
			Where("id = ?", phoneID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", n)).
			Error
		if err != nil {
			return err
		}
	}
	return nil
}

// PopularQueries groups normalized queries logged since the cutoff, most
// frequent first.
func (r *Repository) PopularQueries(ctx context.Context, since time.Time, limit int) ([]PopularQuery, error) {
	var rows []PopularQuery
	err := r.DB(ctx).
		Model(&models.SearchLog{}).
		Select("LOWER(TRIM(query)) AS query, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("LOWER(TRIM(query))").
		Order("count DESC").
		Order("query ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// DeleteSearchLogsOlderThan removes search logs created before cutoff.
func (r *Repository) DeleteSearchLogsOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	return deleteOlderThan(ctx, r.conn(ctx, tx), &models.SearchLog{}, cutoff)
}

// DeletePageViewsOlderThan removes page views created before cutoff.
func (r *Repository) DeletePageViewsOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	return deleteOlderThan(ctx, r.conn(ctx, tx), &models.PageView{}, cutoff)
}

func (r *Repository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx.WithContext(ctx)
	}
	return r.DB(ctx)
}

func deleteOlderThan(ctx context.Context, db *gorm.DB, model any, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(model)
	return res.RowsAffected, res.Error
}
