package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

type phoneCountReconciler interface {
	ReconcilePhoneCounts(ctx context.Context) (int64, error)
}

// NewBrandPhoneCountJob recomputes brands.phone_count from live phones.
func NewBrandPhoneCountJob(logg *logger.Logger, repo phoneCountReconciler) (Job, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if repo == nil {
		return nil, fmt.Errorf("brand repository required")
	}
	return &brandPhoneCountJob{logg: logg, repo: repo}, nil
}

type brandPhoneCountJob struct {
	logg *logger.Logger
	repo phoneCountReconciler
}

func (j *brandPhoneCountJob) Name() string { return "brand-phone-count-reconcile" }

func (j *brandPhoneCountJob) Run(ctx context.Context) error {
	n, err := j.repo.ReconcilePhoneCounts(ctx)
	if err != nil {
		return fmt.Errorf("reconcile brand phone counts: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "brands", n), "brand phone counts reconciled")
	return nil
}
