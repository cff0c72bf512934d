// Package brands implements dashboard brand management.
package brands

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/slug"
	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

// Service exposes dashboard brand operations.
type Service interface {
	List(ctx context.Context, q ListQuery) ([]BrandDTO, types.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (BrandDTO, error)
	Create(ctx context.Context, input CreateBrandInput) (BrandDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateBrandInput) (BrandDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (BrandDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds the brand service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, q ListQuery) ([]BrandDTO, types.Pagination, error) {
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list brands")
	}
	out := make([]BrandDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewBrandDTO(row))
	}
	return out, q.Page.Meta(total), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (BrandDTO, error) {
	brand, err := s.load(ctx, id)
	if err != nil {
		return BrandDTO{}, err
	}
	return NewBrandDTO(*brand), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	brand, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("brand")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load brand")
	}
	return brand, nil
}

func resolveSlug(name, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		requested = slug.Make(name)
	}
	if !slug.Valid(requested) {
		return "", pkgerrors.InvalidField("slug", "slug must contain lowercase letters, digits and dashes", "is invalid")
	}
	return requested, nil
}

func (s *service) ensureUnique(ctx context.Context, name, brandSlug string, exclude uuid.UUID) error {
	taken, err := s.repo.Conflicts(ctx, name, brandSlug, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check brand uniqueness")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "brand name or slug already exists")
	}
	return nil
}

func conflictOr(err error, msg string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "brand name or slug already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}

func (s *service) Create(ctx context.Context, input CreateBrandInput) (BrandDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return BrandDTO{}, pkgerrors.InvalidField("name", "name is required", "is required")
	}
	brandSlug, err := resolveSlug(name, input.Slug)
	if err != nil {
		return BrandDTO{}, err
	}
	if err := s.ensureUnique(ctx, name, brandSlug, uuid.Nil); err != nil {
		return BrandDTO{}, err
	}

	brand := &models.Brand{
		Name:        name,
		Slug:        brandSlug,
		Description: trimmed(input.Description),
		LogoURL:     trimmed(input.LogoURL),
		Website:     trimmed(input.Website),
		Country:     trimmed(input.Country),
		FoundedYear: input.FoundedYear,
		IsActive:    input.IsActive == nil || *input.IsActive,
		IsVerified:  input.IsVerified,
	}
	if err := s.repo.Create(ctx, brand); err != nil {
		return BrandDTO{}, conflictOr(err, "db: insert brand")
	}
	return NewBrandDTO(*brand), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateBrandInput) (BrandDTO, error) {
	brand, err := s.load(ctx, id)
	if err != nil {
		return BrandDTO{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return BrandDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		brand.Name = name
	}
	if input.Slug != nil {
		brandSlug, err := resolveSlug(brand.Name, *input.Slug)
		if err != nil {
			return BrandDTO{}, err
		}
		brand.Slug = brandSlug
	}
	if input.Name != nil || input.Slug != nil {
		if err := s.ensureUnique(ctx, brand.Name, brand.Slug, brand.ID); err != nil {
			return BrandDTO{}, err
		}
	}
	if input.Description != nil {
		brand.Description = trimmed(input.Description)
	}
	if input.LogoURL != nil {
		brand.LogoURL = trimmed(input.LogoURL)
	}
	if input.Website != nil {
		brand.Website = trimmed(input.Website)
	}
	if input.Country != nil {
		brand.Country = trimmed(input.Country)
	}
	if input.FoundedYear != nil {
		brand.FoundedYear = input.FoundedYear
	}
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}
	if input.IsVerified != nil {
		brand.IsVerified = *input.IsVerified
	}

	if err := s.repo.Save(ctx, brand); err != nil {
		return BrandDTO{}, conflictOr(err, "db: update brand")
	}
	return NewBrandDTO(*brand), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	brand, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if brand.DeletedAt.Valid {
		return nil
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete brand")
	}
	return nil
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) (BrandDTO, error) {
	if _, err := s.load(ctx, id); err != nil {
		return BrandDTO{}, err
	}
	if err := s.repo.Restore(ctx, id); err != nil {
		return BrandDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: restore brand")
	}
	return s.Get(ctx, id)
}
