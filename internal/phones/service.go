// Package phones implements dashboard phone management, nested child
// collections included.
package phones

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/internal/brands"
	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/slug"
	"github.com/angelmondragon/phonedex-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes dashboard phone operations.
type Service interface {
	List(ctx context.Context, q ListQuery) ([]PhoneDTO, types.Pagination, error)
	Get(ctx context.Context, id uuid.UUID) (PhoneDetailDTO, error)
	Create(ctx context.Context, input CreatePhoneInput) (PhoneDetailDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdatePhoneInput) (PhoneDetailDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) (PhoneDetailDTO, error)
}

// ServiceParams wires the phone service.
type ServiceParams struct {
	Repository *Repository
	Brands     *brands.Repository
	TxRunner   txRunner
}

type service struct {
	repo   *Repository
	brands *brands.Repository
	tx     txRunner
}

// NewService validates dependencies and builds the phone service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repository == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone repository is required")
	}
	if params.Brands == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand repository is required")
	}
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tx runner is required")
	}
	return &service{repo: params.Repository, brands: params.Brands, tx: params.TxRunner}, nil
}

func (s *service) List(ctx context.Context, q ListQuery) ([]PhoneDTO, types.Pagination, error) {
	if q.Status != nil && !q.Status.IsValid() {
		return nil, types.Pagination{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
	}
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, types.Pagination{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: list phones")
	}
	out := make([]PhoneDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewPhoneDTO(row))
	}
	return out, q.Page.Meta(total), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (PhoneDetailDTO, error) {
	return s.detail(ctx, s.repo, id)
}

func (s *service) detail(ctx context.Context, repo *Repository, id uuid.UUID) (PhoneDetailDTO, error) {
	phone, err := repo.FindDetail(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return PhoneDetailDTO{}, pkgerrors.NotFound("phone")
		}
		return PhoneDetailDTO{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load phone")
	}
	return NewPhoneDetailDTO(*phone), nil
}

func load(ctx context.Context, repo *Repository, id uuid.UUID) (*models.Phone, error) {
	phone, err := repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.NotFound("phone")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load phone")
	}
	return phone, nil
}

func requireBrand(ctx context.Context, repo *brands.Repository, id uuid.UUID) error {
	if _, err := repo.FindLiveByID(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.NotFound("brand")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: load brand")
	}
	return nil
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

func ensureSlugFree(ctx context.Context, repo *Repository, phoneSlug string, exclude uuid.UUID) error {
	taken, err := repo.SlugTaken(ctx, phoneSlug, exclude)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: check phone slug")
	}
	if taken {
		return pkgerrors.New(pkgerrors.CodeConflict, "phone slug already exists")
	}
	return nil
}

func conflictOr(err error, msg string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "phone slug already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
}

func validStatus(status enums.PhoneStatus) error {
	if !status.IsValid() {
		return pkgerrors.InvalidField("status", "invalid status", "must be one of draft, active, upcoming, discontinued")
	}
	return nil
}

func (s *service) Create(ctx context.Context, input CreatePhoneInput) (PhoneDetailDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return PhoneDetailDTO{}, pkgerrors.InvalidField("name", "name is required", "is required")
	}
	if input.BrandID == uuid.Nil {
		return PhoneDetailDTO{}, pkgerrors.InvalidField("brandId", "brandId is required", "is required")
	}
	status := input.Status
	if status == "" {
		status = enums.PhoneStatusDraft
	}
	if err := validStatus(status); err != nil {
		return PhoneDetailDTO{}, err
	}
	phoneSlug, err := resolveSlug(name, input.Slug)
	if err != nil {
		return PhoneDetailDTO{}, err
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	var out PhoneDetailDTO
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		brandRepo := s.brands.WithTx(tx)
		if err := requireBrand(ctx, brandRepo, input.BrandID); err != nil {
			return err
		}
		if err := ensureSlugFree(ctx, repo, phoneSlug, uuid.Nil); err != nil {
			return err
		}

		phone := &models.Phone{
			ID:              uuid.New(),
			BrandID:         input.BrandID,
			Name:            name,
			Slug:            phoneSlug,
			Model:           trimmed(input.Model),
			Series:          trimmed(input.Series),
			Description:     trimmed(input.Description),
			Status:          status,
			LaunchPrice:     input.LaunchPrice,
			CurrentPrice:    input.CurrentPrice,
			Currency:        currency,
			ReleaseDate:     input.ReleaseDate,
			ThumbnailURL:    trimmed(input.ThumbnailURL),
			MetaTitle:       trimmed(input.MetaTitle),
			MetaDescription: trimmed(input.MetaDescription),
		}
		if err := repo.Create(ctx, phone); err != nil {
			return conflictOr(err, "db: insert phone")
		}
		if err := writeChildren(ctx, repo, phone.ID, &input.Specifications, &input.Colors, &input.Variants, &input.Images); err != nil {
			return err
		}
		if err := brandRepo.AdjustPhoneCount(ctx, phone.BrandID, 1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: bump brand phone count")
		}

		out, err = s.detail(ctx, repo, phone.ID)
		return err
	})
	if err != nil {
		return PhoneDetailDTO{}, err
	}
	return out, nil
}

func writeChildren(
	ctx context.Context,
	repo *Repository,
	phoneID uuid.UUID,
	specs *[]SpecificationInput,
	colors *[]ColorInput,
	variants *[]VariantInput,
	images *[]ImageInput,
) error {
	if specs != nil {
		if err := repo.ReplaceSpecifications(ctx, phoneID, specificationRows(phoneID, *specs)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: write specifications")
		}
	}
	if colors != nil {
		if err := repo.ReplaceColors(ctx, phoneID, colorRows(phoneID, *colors)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: write colors")
		}
	}
	if variants != nil {
		if err := repo.ReplaceVariants(ctx, phoneID, variantRows(phoneID, *variants)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: write variants")
		}
	}
	if images != nil {
		if err := repo.ReplaceImages(ctx, phoneID, imageRows(phoneID, *images)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: write images")
		}
	}
	return nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdatePhoneInput) (PhoneDetailDTO, error) {
	var out PhoneDetailDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		brandRepo := s.brands.WithTx(tx)
		phone, err := load(ctx, repo, id)
		if err != nil {
			return err
		}
		previousBrand := phone.BrandID

		if err := applyUpdate(phone, input); err != nil {
			return err
		}
		if input.Slug != nil || input.Name != nil {
			if input.Slug != nil {
				phoneSlug, err := resolveSlug(phone.Name, *input.Slug)
				if err != nil {
					return err
				}
				phone.Slug = phoneSlug
			}
			if err := ensureSlugFree(ctx, repo, phone.Slug, phone.ID); err != nil {
				return err
			}
		}
		if phone.BrandID != previousBrand {
			if err := requireBrand(ctx, brandRepo, phone.BrandID); err != nil {
				return err
			}
		}

		if err := repo.Save(ctx, phone); err != nil {
			return conflictOr(err, "db: update phone")
		}
		if err := writeChildren(ctx, repo, phone.ID, input.Specifications, input.Colors, input.Variants, input.Images); err != nil {
			return err
		}
		if phone.BrandID != previousBrand && !phone.DeletedAt.Valid {
			if err := brandRepo.AdjustPhoneCount(ctx, previousBrand, -1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: adjust brand phone count")
			}
			if err := brandRepo.AdjustPhoneCount(ctx, phone.BrandID, 1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: adjust brand phone count")
			}
		}

		out, err = s.detail(ctx, repo, phone.ID)
		return err
	})
	if err != nil {
		return PhoneDetailDTO{}, err
	}
	return out, nil
}

func applyUpdate(phone *models.Phone, input UpdatePhoneInput) error {
	if input.BrandID != nil {
		phone.BrandID = *input.BrandID
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name cannot be blank")
		}
		phone.Name = name
	}
	if input.Status != nil {
		if err := validStatus(*input.Status); err != nil {
			return err
		}
		phone.Status = *input.Status
	}
	if input.Model != nil {
		phone.Model = trimmed(input.Model)
	}
	if input.Series != nil {
		phone.Series = trimmed(input.Series)
	}
	if input.Description != nil {
		phone.Description = trimmed(input.Description)
	}
	if input.LaunchPrice != nil {
		phone.LaunchPrice = input.LaunchPrice
	}
	if input.CurrentPrice != nil {
		phone.CurrentPrice = input.CurrentPrice
	}
	if input.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*input.Currency))
		if currency != "" {
			phone.Currency = currency
		}
	}
	if input.ReleaseDate != nil {
		phone.ReleaseDate = input.ReleaseDate
	}
	if input.ThumbnailURL != nil {
		phone.ThumbnailURL = trimmed(input.ThumbnailURL)
	}
	if input.MetaTitle != nil {
		phone.MetaTitle = trimmed(input.MetaTitle)
	}
	if input.MetaDescription != nil {
		phone.MetaDescription = trimmed(input.MetaDescription)
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		phone, err := load(ctx, repo, id)
		if err != nil {
			return err
		}
		if phone.DeletedAt.Valid {
			return nil
		}
		if err := repo.SoftDelete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: delete phone")
		}
		if err := s.brands.WithTx(tx).AdjustPhoneCount(ctx, phone.BrandID, -1); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: adjust brand phone count")
		}
		return nil
	})
}

func (s *service) Restore(ctx context.Context, id uuid.UUID) (PhoneDetailDTO, error) {
	var out PhoneDetailDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		phone, err := load(ctx, repo, id)
		if err != nil {
			return err
		}
		if phone.DeletedAt.Valid {
			if err := repo.Restore(ctx, id); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: restore phone")
			}
			if err := s.brands.WithTx(tx).AdjustPhoneCount(ctx, phone.BrandID, 1); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "db: adjust brand phone count")
			}
		}
		out, err = s.detail(ctx, repo, id)
		return err
	})
	if err != nil {
		return PhoneDetailDTO{}, err
	}
	return out, nil
}
