package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/internal/analytics"
	"github.com/angelmondragon/phonedex-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

// ViewRecorder receives best-effort phone view side effects.
type ViewRecorder interface {
	RecordPhoneView(ctx context.Context, phoneID uuid.UUID, visit analytics.Visit)
}

// Service exposes the public catalog reads.
type Service interface {
	ListPhones(ctx context.Context, query ListQuery) ([]PhoneSummary, types.Pagination, error)
	GetPhone(ctx context.Context, idOrSlug string, visit analytics.Visit) (PhoneDetail, error)
	ListBrands(ctx context.Context) ([]BrandDTO, error)
	GetBrand(ctx context.Context, slug string) (BrandDetail, error)
}

// ServiceParams groups catalog dependencies.
type ServiceParams struct {
	Repository *Repository
	Views      ViewRecorder
}

type service struct {
	repo  *Repository
	views ViewRecorder
}

// NewService builds the catalog service. Views may be nil.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repository is required")
	}
	return &service{repo: params.Repository, views: params.Views}, nil
}

func (s *service) ListPhones(ctx context.Context, query ListQuery) ([]PhoneSummary, types.Pagination, error) {
	rows, total, err := s.repo.ListPhones(ctx, query.Predicate(), query.Sort(), query.Page)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list phones")
	}
	return NewPhoneSummaries(rows), query.Page.Meta(total), nil
}

func (s *service) GetPhone(ctx context.Context, idOrSlug string, visit analytics.Visit) (PhoneDetail, error) {
	phone, err := s.repo.FindPhone(ctx, idOrSlug)
	if err != nil {
		if db.IsNotFound(err) {
			return PhoneDetail{}, pkgerrors.NotFound("phone")
		}
		return PhoneDetail{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load phone")
	}
	if s.views != nil {
		s.views.RecordPhoneView(ctx, phone.ID, visit)
	}
	return NewPhoneDetail(*phone), nil
}

func (s *service) ListBrands(ctx context.Context) ([]BrandDTO, error) {
	rows, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list brands")
	}
	out := make([]BrandDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewBrandDTO(row))
	}
	return out, nil
}

func (s *service) GetBrand(ctx context.Context, slug string) (BrandDetail, error) {
	brand, err := s.repo.FindBrandBySlug(ctx, slug)
	if err != nil {
		if db.IsNotFound(err) {
			return BrandDetail{}, pkgerrors.NotFound("brand")
		}
		return BrandDetail{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load brand")
	}
	phones, err := s.repo.ListBrandPhones(ctx, brand.ID)
	if err != nil {
		return BrandDetail{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list brand phones")
	}
	return BrandDetail{BrandDTO: NewBrandDTO(*brand), Phones: NewPhoneSummaries(phones)}, nil
}
