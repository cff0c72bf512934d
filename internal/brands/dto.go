package brands

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

// ListQuery is the dashboard brand listing request.
type ListQuery struct {
	Page           pagination.Params
	Search         string
	IsActive       *bool
	IncludeDeleted bool
	SortBy         string
	SortOrder      string
}

// CreateBrandInput is the create payload. Slug is derived from Name when blank.
type CreateBrandInput struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Slug        string  `json:"slug" validate:"omitempty,max=140"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	LogoURL     *string `json:"logoUrl" validate:"omitempty,url"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Country     *string `json:"country" validate:"omitempty,max=80"`
	FoundedYear *int    `json:"foundedYear" validate:"omitempty,min=1800,max=2100"`
	IsActive    *bool   `json:"isActive"`
	IsVerified  bool    `json:"isVerified"`
}

// UpdateBrandInput carries optional field changes.
type UpdateBrandInput struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=120"`
	Slug        *string `json:"slug" validate:"omitempty,min=1,max=140"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	LogoURL     *string `json:"logoUrl" validate:"omitempty,url"`
	Website     *string `json:"website" validate:"omitempty,url"`
	Country     *string `json:"country" validate:"omitempty,max=80"`
	FoundedYear *int    `json:"foundedYear" validate:"omitempty,min=1800,max=2100"`
	IsActive    *bool   `json:"isActive"`
	IsVerified  *bool   `json:"isVerified"`
}

// BrandDTO is the dashboard brand payload.
type BrandDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	LogoURL     *string    `json:"logoUrl"`
	Website     *string    `json:"website"`
	Country     *string    `json:"country"`
	FoundedYear *int       `json:"foundedYear"`
	IsActive    bool       `json:"isActive"`
	IsVerified  bool       `json:"isVerified"`
	PhoneCount  int        `json:"phoneCount"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt"`
}

// NewBrandDTO maps a brand row.
func NewBrandDTO(b models.Brand) BrandDTO {
	dto := BrandDTO{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		LogoURL:     b.LogoURL,
		Website:     b.Website,
		Country:     b.Country,
		FoundedYear: b.FoundedYear,
		IsActive:    b.IsActive,
		IsVerified:  b.IsVerified,
		PhoneCount:  b.PhoneCount,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.DeletedAt.Valid {
		deleted := b.DeletedAt.Time
		dto.DeletedAt = &deleted
	}
	return dto
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	return &s
}
