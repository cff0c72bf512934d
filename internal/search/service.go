// Package search implements catalog search, autocomplete suggestions and the
// filter sidebar facets.
package search

import (
	"context"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/angelmondragon/phonedex-backend/internal/analytics"
	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
)

const (
	MinQueryLength = 2

	DefaultLimit           = 20
	MaxLimit               = 50
	DefaultSuggestionLimit = 8
	MaxSuggestionLimit     = 20

	phoneShare = 0.7

	defaultPopularLimit       = 5
	defaultShortQueryMaxChars = 3
)

// Scope selects which entity types a search returns.
type Scope string

const (
	ScopeAll    Scope = "all"
	ScopePhones Scope = "phones"
	ScopeBrands Scope = "brands"
)

// ParseScope maps the category query parameter; blank means all.
func ParseScope(raw string) (Scope, error) {
	switch s := Scope(strings.ToLower(strings.TrimSpace(raw))); s {
	case "":
		return ScopeAll, nil
	case ScopeAll, ScopePhones, ScopeBrands:
		return s, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "category must be one of phones, brands, all")
	}
}

// Shares splits limit between phones and brands for scope.
func Shares(scope Scope, limit int) (phones, brands int) {
	switch scope {
	case ScopePhones:
		return limit, 0
	case ScopeBrands:
		return 0, limit
	default:
		phones = int(math.Ceil(float64(limit) * phoneShare))
		return phones, limit - phones
	}
}

// Results is the full search payload.
type Results struct {
	Phones       []catalog.PhoneSummary `json:"phones"`
	Brands       []catalog.BrandDTO     `json:"brands"`
	TotalResults int                    `json:"totalResults"`
}

// Suggestion is one autocomplete entry.
type Suggestion struct {
	Type  string  `json:"type"`
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Brand *string `json:"brand,omitempty"`
}

// Suggestions is the autocomplete payload.
type Suggestions struct {
	Suggestions []Suggestion `json:"suggestions"`
	Popular     []string     `json:"popular"`
	Query       string       `json:"query"`
}

// Recorder logs searches and serves popular queries.
type Recorder interface {
	RecordSearch(ctx context.Context, query string, resultCount int, ipAddress string)
	PopularQueries(ctx context.Context, limit int) ([]analytics.PopularQuery, error)
}

type store interface {
	SearchPhones(ctx context.Context, term string, limit int) ([]models.Phone, error)
	SearchBrands(ctx context.Context, term string, limit int) ([]models.Brand, error)
	SuggestPhones(ctx context.Context, term string, limit int) ([]NameHit, error)
	SuggestBrands(ctx context.Context, term string, limit int) ([]NameHit, error)
	Facets(ctx context.Context, category string) (Facets, error)
}

// Service exposes search operations.
type Service interface {
	Search(ctx context.Context, query string, limit int, scope Scope, ipAddress string) (Results, error)
	Suggest(ctx context.Context, query string, limit int) (Suggestions, error)
	Facets(ctx context.Context, category string) (Facets, error)
}

// ServiceParams groups search dependencies. Recorder may be nil.
type ServiceParams struct {
	Repository         store
	Recorder           Recorder
	PopularLimit       int
	ShortQueryMaxChars int
}

type service struct {
	repo          store
	recorder      Recorder
	popularLimit  int
	shortQueryMax int
}

// NewService builds the search service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search repository is required")
	}
	svc := &service{
		repo:          params.Repository,
		recorder:      params.Recorder,
		popularLimit:  params.PopularLimit,
		shortQueryMax: params.ShortQueryMaxChars,
	}
	if svc.popularLimit <= 0 {
		svc.popularLimit = defaultPopularLimit
	}
	if svc.shortQueryMax <= 0 {
		svc.shortQueryMax = defaultShortQueryMaxChars
	}
	return svc, nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func (s *service) Search(ctx context.Context, query string, limit int, scope Scope, ipAddress string) (Results, error) {
	term := strings.TrimSpace(query)
	if utf8.RuneCountInString(term) < MinQueryLength {
		return Results{}, pkgerrors.New(pkgerrors.CodeValidation, "query must be at least 2 characters")
	}
	limit = clampLimit(limit, DefaultLimit, MaxLimit)
	phoneLimit, brandLimit := Shares(scope, limit)

	out := Results{Phones: []catalog.PhoneSummary{}, Brands: []catalog.BrandDTO{}}
	if phoneLimit > 0 {
		phones, err := s.repo.SearchPhones(ctx, term, phoneLimit)
		if err != nil {
			return Results{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: search phones")
		}
		out.Phones = catalog.NewPhoneSummaries(phones)
	}
	if brandLimit > 0 {
		brands, err := s.repo.SearchBrands(ctx, term, brandLimit)
		if err != nil {
			return Results{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: search brands")
		}
		for _, b := range brands {
			out.Brands = append(out.Brands, catalog.NewBrandDTO(b))
		}
	}
	out.TotalResults = len(out.Phones) + len(out.Brands)

	if s.recorder != nil {
		s.recorder.RecordSearch(ctx, term, out.TotalResults, ipAddress)
	}
	return out, nil
}

func (s *service) Suggest(ctx context.Context, query string, limit int) (Suggestions, error) {
	term := strings.TrimSpace(query)
	limit = clampLimit(limit, DefaultSuggestionLimit, MaxSuggestionLimit)
	out := Suggestions{Suggestions: []Suggestion{}, Popular: []string{}, Query: term}

	if term != "" {
		phones, err := s.repo.SuggestPhones(ctx, term, limit)
		if err != nil {
			return Suggestions{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: suggest phones")
		}
		brands, err := s.repo.SuggestBrands(ctx, term, limit)
		if err != nil {
			return Suggestions{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: suggest brands")
		}
		out.Suggestions = MergeSuggestions(term, phones, brands, limit)
	}

	if s.recorder != nil && utf8.RuneCountInString(term) <= s.shortQueryMax {
		popular, err := s.recorder.PopularQueries(ctx, s.popularLimit)
		if err != nil {
			return Suggestions{}, err
		}
		for _, p := range popular {
			out.Popular = append(out.Popular, p.Query)
		}
	}
	return out, nil
}

// MergeSuggestions orders name prefix matches first, then phones before
// brands, keeping repository order within each group, and caps at limit.
func MergeSuggestions(term string, phones, brands []NameHit, limit int) []Suggestion {
	prefix := strings.ToLower(term)
	type ranked struct {
		s      Suggestion
		prefix int
		kind   int
	}
	all := make([]ranked, 0, len(phones)+len(brands))
	add := func(hits []NameHit, kind int, typ string) {
		for _, h := range hits {
			sug := Suggestion{Type: typ, ID: h.ID, Name: h.Name, Slug: h.Slug}
			if h.Brand != "" {
				brand := h.Brand
				sug.Brand = &brand
			}
			rank := 1
			if strings.HasPrefix(strings.ToLower(h.Name), prefix) {
				rank = 0
			}
			all = append(all, ranked{s: sug, prefix: rank, kind: kind})
		}
	}
	add(phones, 0, "phone")
	add(brands, 1, "brand")

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].prefix != all[j].prefix {
			return all[i].prefix < all[j].prefix
		}
		return all[i].kind < all[j].kind
	})

	if len(all) > limit {
		all = all[:limit]
	}
	out := make([]Suggestion, 0, len(all))
	for _, r := range all {
		out = append(out, r.s)
	}
	return out
}

func (s *service) Facets(ctx context.Context, category string) (Facets, error) {
	facets, err := s.repo.Facets(ctx, strings.TrimSpace(category))
	if err != nil {
		return Facets{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: build facets")
	}
	return facets, nil
}

