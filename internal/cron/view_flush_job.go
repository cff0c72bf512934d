package cron

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/logger"
	"github.com/angelmondragon/phonedex-backend/pkg/redis"
)

type viewBuffer interface {
	ClaimViews(ctx context.Context) (redis.ViewClaim, error)
	AckViews(ctx context.Context, claim redis.ViewClaim) error
	RestoreViews(ctx context.Context, claim redis.ViewClaim) error
}

type viewCountStore interface {
	ApplyViewCounts(ctx context.Context, tx *gorm.DB, counts map[uuid.UUID]int64) error
}

// ViewFlushJobParams configure the view-count flush.
type ViewFlushJobParams struct {
	Logger *logger.Logger
	DB     txRunner
	Buffer viewBuffer
	Store  viewCountStore
}

// NewViewFlushJob moves buffered Redis view counters into phones.view_count.
func NewViewFlushJob(params ViewFlushJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Buffer == nil {
		return nil, fmt.Errorf("view buffer required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("view count store required")
	}
	return &viewFlushJob{logg: params.Logger, db: params.DB, buffer: params.Buffer, store: params.Store}, nil
}

type viewFlushJob struct {
	logg   *logger.Logger
	db     txRunner
	buffer viewBuffer
	store  viewCountStore
}

func (j *viewFlushJob) Name() string { return "view-count-flush" }

func (j *viewFlushJob) Run(ctx context.Context) error {
	claim, err := j.buffer.ClaimViews(ctx)
	if err != nil {
		if claim.Key != "" {
			if restoreErr := j.buffer.RestoreViews(ctx, claim); restoreErr != nil {
				j.logg.Error(ctx, "restore view claim", restoreErr)
			}
		}
		return fmt.Errorf("claim views: %w", err)
	}
	if claim.Empty() {
		return j.buffer.AckViews(ctx, claim)
	}

	counts := make(map[uuid.UUID]int64, len(claim.Counts))
	var skipped int
	for raw, n := range claim.Counts {
		id, parseErr := uuid.Parse(raw)
		if parseErr != nil {
			skipped++
			continue
		}
		counts[id] += n
	}

	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		return j.store.ApplyViewCounts(ctx, tx, counts)
	})
	if err != nil {
		if restoreErr := j.buffer.RestoreViews(ctx, claim); restoreErr != nil {
			j.logg.Error(ctx, "restore view claim", restoreErr)
		}
		return fmt.Errorf("apply view counts: %w", err)
	}
	if err := j.buffer.AckViews(ctx, claim); err != nil {
		return fmt.Errorf("ack view claim: %w", err)
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"phones":  len(counts),
		"views":   total,
		"skipped": skipped,
	})
	j.logg.Info(logCtx, "view counts flushed")
	return nil
}
