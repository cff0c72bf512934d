// Package analytics records page views and searches off the request path and
// serves the popular query list used by suggestions.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/pkg/background"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/logger"
)

const (
	TaskViewIncrement = "phone.view.increment"
	TaskPageViewLog   = "phone.view.log"
	TaskSearchLog     = "search.log"
	TaskPublishEvent  = "analytics.publish"

	defaultPopularWindow   = 30 * 24 * time.Hour
	defaultPopularCacheTTL = 10 * time.Minute
	maxPopularLimit        = 20
)

// ViewBuffer accumulates view increments until the cron worker flushes them.
type ViewBuffer interface {
	BufferView(ctx context.Context, phoneID string, n int64) error
}

// Cache stores serialized popular query lists.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CacheKey(parts ...string) string
}

// EventPublisher mirrors analytics events to an external sink.
type EventPublisher interface {
	Publish(ctx context.Context, eventType enums.AnalyticsEventType, data any) error
}

type store interface {
	InsertPageView(ctx context.Context, row *models.PageView) error
	InsertSearchLog(ctx context.Context, row *models.SearchLog) error
	IncrementViewCount(ctx context.Context, phoneID uuid.UUID, n int64) error
	PopularQueries(ctx context.Context, since time.Time, limit int) ([]PopularQuery, error)
}

// ServiceParams groups analytics dependencies. Views, Cache and Events are
// optional.
type ServiceParams struct {
	Repository      store
	Dispatcher      background.Submitter
	Views           ViewBuffer
	Cache           Cache
	Events          EventPublisher
	Logger          *logger.Logger
	PopularWindow   time.Duration
	PopularCacheTTL time.Duration
	Now             func() time.Time
}

// Service is the analytics entry point shared by catalog and search.
type Service struct {
	repo       store
	dispatcher background.Submitter
	views      ViewBuffer
	cache      Cache
	events     EventPublisher
	logg       *logger.Logger
	window     time.Duration
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewService validates dependencies and applies defaults.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "analytics repository is required")
	}
	if params.Dispatcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "background dispatcher is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	svc := &Service{
		repo:       params.Repository,
		dispatcher: params.Dispatcher,
		views:      params.Views,
		cache:      params.Cache,
		events:     params.Events,
		logg:       params.Logger,
		window:     params.PopularWindow,
		cacheTTL:   params.PopularCacheTTL,
		now:        params.Now,
	}
	if svc.window <= 0 {
		svc.window = defaultPopularWindow
	}
	if svc.cacheTTL <= 0 {
		svc.cacheTTL = defaultPopularCacheTTL
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// RecordPhoneView queues the view counter bump and the page view row. Both
// are best effort.
func (s *Service) RecordPhoneView(ctx context.Context, phoneID uuid.UUID, visit Visit) {
	s.dispatcher.Submit(ctx, background.Task{
		Name: TaskViewIncrement,
		Run: func(taskCtx context.Context) error {
			if s.views != nil {
				return s.views.BufferView(taskCtx, phoneID.String(), 1)
			}
			return s.repo.IncrementViewCount(taskCtx, phoneID, 1)
		},
	})

	row := &models.PageView{
		PhoneID:   phoneID,
		Path:      visit.Path,
		IPAddress: optional(visit.IPAddress),
		UserAgent: optional(visit.UserAgent),
		Referrer:  optional(visit.Referrer),
		UserID:    visit.UserID,
	}
	s.dispatcher.Submit(ctx, background.Task{
		Name: TaskPageViewLog,
		Run: func(taskCtx context.Context) error {
			return s.repo.InsertPageView(taskCtx, row)
		},
	})

	s.publish(ctx, enums.AnalyticsEventPhoneViewed, PhoneViewedEvent{
		PhoneID:  phoneID,
		Path:     visit.Path,
		UserID:   visit.UserID,
		Referrer: visit.Referrer,
		ViewedAt: s.now().UTC(),
	})
}

// RecordSearch queues a search log row.
func (s *Service) RecordSearch(ctx context.Context, query string, resultCount int, ipAddress string) {
	query = strings.TrimSpace(query)
	if query == "" {
		return
	}
	row := &models.SearchLog{
		Query:       query,
		ResultCount: resultCount,
		IPAddress:   optional(ipAddress),
	}
	s.dispatcher.Submit(ctx, background.Task{
		Name: TaskSearchLog,
		Run: func(taskCtx context.Context) error {
			return s.repo.InsertSearchLog(taskCtx, row)
		},
	})

	s.publish(ctx, enums.AnalyticsEventSearchPerformed, SearchPerformedEvent{
		Query:       query,
		ResultCount: resultCount,
		SearchedAt:  s.now().UTC(),
	})
}

// PopularQueries returns the most frequent queries of the trailing window.
// Results are cached; cache failures fall through to the database.
func (s *Service) PopularQueries(ctx context.Context, limit int) ([]PopularQuery, error) {
	if limit <= 0 {
		return []PopularQuery{}, nil
	}
	if limit > maxPopularLimit {
		limit = maxPopularLimit
	}

	key := ""
	if s.cache != nil {
		key = s.cache.CacheKey("popular_queries", strconv.Itoa(limit))
		if cached, ok := s.readCache(ctx, key); ok {
			return cached, nil
		}
	}

	rows, err := s.repo.PopularQueries(ctx, s.now().Add(-s.window), limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: popular queries")
	}
	if rows == nil {
		rows = []PopularQuery{}
	}

	if s.cache != nil {
		s.writeCache(ctx, key, rows)
	}
	return rows, nil
}

func (s *Service) readCache(ctx context.Context, key string) ([]PopularQuery, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return nil, false
	}
	var rows []PopularQuery
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "key", key), "analytics.popular_cache.corrupt")
		return nil, false
	}
	return rows, true
}

func (s *Service) writeCache(ctx context.Context, key string, rows []PopularQuery) {
	buf, err := json.Marshal(rows)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(buf), s.cacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "analytics.popular_cache.write_failed")
	}
}

func (s *Service) publish(ctx context.Context, eventType enums.AnalyticsEventType, data any) {
	if s.events == nil {
		return
	}
	s.dispatcher.Submit(ctx, background.Task{
		Name: TaskPublishEvent,
		Run: func(taskCtx context.Context) error {
			if err := s.events.Publish(taskCtx, eventType, data); err != nil {
				return fmt.Errorf("publish %s: %w", eventType, err)
			}
			return nil
		},
	})
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
