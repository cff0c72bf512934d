package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

const (
	defaultSearchLogRetentionDays = 30
	defaultPageViewRetentionDays  = 90
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RetentionDeleter removes analytics rows created before cutoff.
type RetentionDeleter func(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)

// RetentionJobParams configure an analytics retention job.
type RetentionJobParams struct {
	Name    string
	Logger  *logger.Logger
	DB      txRunner
	Delete  RetentionDeleter
	Days    int
	Default int
}

// NewRetentionJob builds a job that prunes rows older than Days.
func NewRetentionJob(params RetentionJobParams) (Job, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("job name required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Delete == nil {
		return nil, fmt.Errorf("delete func required")
	}
	days := params.Days
	if days <= 0 {
		days = params.Default
	}
	if days <= 0 {
		return nil, fmt.Errorf("%s: retention days must be positive", params.Name)
	}
	return &retentionJob{
		name:   params.Name,
		logg:   params.Logger,
		db:     params.DB,
		delete: params.Delete,
		days:   days,
		now:    time.Now,
	}, nil
}

// NewSearchLogRetentionJob prunes search_logs, 30 days by default.
func NewSearchLogRetentionJob(logg *logger.Logger, db txRunner, del RetentionDeleter, days int) (Job, error) {
	return NewRetentionJob(RetentionJobParams{
		Name:    "search-log-retention",
		Logger:  logg,
		DB:      db,
		Delete:  del,
		Days:    days,
		Default: defaultSearchLogRetentionDays,
	})
}

// NewPageViewRetentionJob prunes page_views, 90 days by default.
func NewPageViewRetentionJob(logg *logger.Logger, db txRunner, del RetentionDeleter, days int) (Job, error) {
	return NewRetentionJob(RetentionJobParams{
		Name:    "page-view-retention",
		Logger:  logg,
		DB:      db,
		Delete:  del,
		Days:    days,
		Default: defaultPageViewRetentionDays,
	})
}

type retentionJob struct {
	name   string
	logg   *logger.Logger
	db     txRunner
	delete RetentionDeleter
	days   int
	now    func() time.Time
}

func (j *retentionJob) Name() string { return j.name }

func (j *retentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-time.Duration(j.days) * 24 * time.Hour)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.delete(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", j.name, err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":         cutoff,
		"retention_days": j.days,
		"rows_deleted":   deleted,
	})
	j.logg.Info(logCtx, "retention cleanup complete")
	return nil
}
