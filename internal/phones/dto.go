package phones

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

const defaultCurrency = "USD"

// ListQuery is the dashboard phone listing request.
type ListQuery struct {
	Page           pagination.Params
	Search         string
	BrandID        *uuid.UUID
	Status         *enums.PhoneStatus
	IncludeDeleted bool
	SortBy         string
	SortOrder      string
}

// SpecificationInput is one nested specification row.
type SpecificationInput struct {
	Category    string  `json:"category" validate:"required,max=60"`
	Key         string  `json:"key" validate:"required,max=80"`
	DisplayName string  `json:"displayName" validate:"required,max=120"`
	Value       string  `json:"value" validate:"required,max=500"`
	Unit        *string `json:"unit" validate:"omitempty,max=20"`
	IsHighlight bool    `json:"isHighlight"`
	Priority    int     `json:"priority"`
}

// ColorInput is one nested color.
type ColorInput struct {
	Name        string  `json:"name" validate:"required,max=60"`
	HexCode     *string `json:"hexCode" validate:"omitempty,hexcolor"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,url"`
	IsAvailable *bool   `json:"isAvailable"`
}

// VariantInput is one nested storage/RAM option.
type VariantInput struct {
	Storage     string           `json:"storage" validate:"required,max=20"`
	RAM         *string          `json:"ram" validate:"omitempty,max=20"`
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *bool            `json:"isAvailable"`
}

// ImageInput is one nested gallery image.
type ImageInput struct {
	URL      string  `json:"url" validate:"required,url"`
	AltText  *string `json:"altText" validate:"omitempty,max=200"`
	Position *int    `json:"position" validate:"omitempty,min=0"`
}

// CreatePhoneInput is the create payload.
type CreatePhoneInput struct {
	BrandID         uuid.UUID            `json:"brandId" validate:"required"`
	Name            string               `json:"name" validate:"required,max=160"`
	Slug            string               `json:"slug" validate:"omitempty,max=180"`
	Model           *string              `json:"model" validate:"omitempty,max=80"`
	Series          *string              `json:"series" validate:"omitempty,max=80"`
	Description     *string              `json:"description"`
	Status          enums.PhoneStatus    `json:"status"`
	LaunchPrice     *decimal.Decimal     `json:"launchPrice"`
	CurrentPrice    *decimal.Decimal     `json:"currentPrice"`
	Currency        string               `json:"currency" validate:"omitempty,len=3"`
	ReleaseDate     *time.Time           `json:"releaseDate"`
	ThumbnailURL    *string              `json:"thumbnailUrl" validate:"omitempty,url"`
	MetaTitle       *string              `json:"metaTitle" validate:"omitempty,max=160"`
	MetaDescription *string              `json:"metaDescription" validate:"omitempty,max=320"`
	Specifications  []SpecificationInput `json:"specifications" validate:"omitempty,dive"`
	Colors          []ColorInput         `json:"colors" validate:"omitempty,dive"`
	Variants        []VariantInput       `json:"variants" validate:"omitempty,dive"`
	Images          []ImageInput         `json:"images" validate:"omitempty,dive"`
}

// UpdatePhoneInput carries optional scalar changes. A non-nil collection
// replaces the stored one.
type UpdatePhoneInput struct {
	BrandID         *uuid.UUID            `json:"brandId"`
	Name            *string               `json:"name" validate:"omitempty,min=1,max=160"`
	Slug            *string               `json:"slug" validate:"omitempty,min=1,max=180"`
	Model           *string               `json:"model" validate:"omitempty,max=80"`
	Series          *string               `json:"series" validate:"omitempty,max=80"`
	Description     *string               `json:"description"`
	Status          *enums.PhoneStatus    `json:"status"`
	LaunchPrice     *decimal.Decimal      `json:"launchPrice"`
	CurrentPrice    *decimal.Decimal      `json:"currentPrice"`
	Currency        *string               `json:"currency" validate:"omitempty,len=3"`
	ReleaseDate     *time.Time            `json:"releaseDate"`
	ThumbnailURL    *string               `json:"thumbnailUrl" validate:"omitempty,url"`
	MetaTitle       *string               `json:"metaTitle" validate:"omitempty,max=160"`
	MetaDescription *string               `json:"metaDescription" validate:"omitempty,max=320"`
	Specifications  *[]SpecificationInput `json:"specifications" validate:"omitempty,dive"`
	Colors          *[]ColorInput         `json:"colors" validate:"omitempty,dive"`
	Variants        *[]VariantInput       `json:"variants" validate:"omitempty,dive"`
	Images          *[]ImageInput         `json:"images" validate:"omitempty,dive"`
}

// PhoneDTO is the dashboard list row.
type PhoneDTO struct {
	catalog.PhoneSummary
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt"`
}

// PhoneDetailDTO is the dashboard single-phone payload.
type PhoneDetailDTO struct {
	catalog.PhoneDetail
	DeletedAt *time.Time `json:"deletedAt"`
}

func deletedAt(p models.Phone) *time.Time {
	if !p.DeletedAt.Valid {
		return nil
	}
	t := p.DeletedAt.Time
	return &t
}

// NewPhoneDTO maps a list row.
func NewPhoneDTO(p models.Phone) PhoneDTO {
	return PhoneDTO{PhoneSummary: catalog.NewPhoneSummary(p), UpdatedAt: p.UpdatedAt, DeletedAt: deletedAt(p)}
}

// NewPhoneDetailDTO maps a fully loaded phone.
func NewPhoneDetailDTO(p models.Phone) PhoneDetailDTO {
	return PhoneDetailDTO{PhoneDetail: catalog.NewPhoneDetail(p), DeletedAt: deletedAt(p)}
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

func availability(v *bool) bool {
	return v == nil || *v
}

func specificationRows(phoneID uuid.UUID, in []SpecificationInput) []models.Specification {
	out := make([]models.Specification, 0, len(in))
	for _, s := range in {
		out = append(out, models.Specification{
			PhoneID:     phoneID,
			Category:    strings.ToUpper(strings.TrimSpace(s.Category)),
			Key:         strings.TrimSpace(s.Key),
			DisplayName: strings.TrimSpace(s.DisplayName),
			Value:       strings.TrimSpace(s.Value),
			Unit:        trimmed(s.Unit),
			IsHighlight: s.IsHighlight,
			Priority:    s.Priority,
		})
	}
	return out
}

func colorRows(phoneID uuid.UUID, in []ColorInput) []models.PhoneColor {
	out := make([]models.PhoneColor, 0, len(in))
	for _, c := range in {
		out = append(out, models.PhoneColor{
			PhoneID:     phoneID,
			Name:        strings.TrimSpace(c.Name),
			HexCode:     trimmed(c.HexCode),
			ImageURL:    trimmed(c.ImageURL),
			IsAvailable: availability(c.IsAvailable),
		})
	}
	return out
}

func variantRows(phoneID uuid.UUID, in []VariantInput) []models.PhoneVariant {
	out := make([]models.PhoneVariant, 0, len(in))
	for _, v := range in {
		out = append(out, models.PhoneVariant{
			PhoneID:     phoneID,
			Storage:     strings.TrimSpace(v.Storage),
			RAM:         trimmed(v.RAM),
			Price:       v.Price,
			IsAvailable: availability(v.IsAvailable),
		})
	}
	return out
}

func imageRows(phoneID uuid.UUID, in []ImageInput) []models.GalleryImage {
	out := make([]models.GalleryImage, 0, len(in))
	for i, img := range in {
		position := i
		if img.Position != nil {
			position = *img.Position
		}
		out = append(out, models.GalleryImage{
			PhoneID:  phoneID,
			URL:      strings.TrimSpace(img.URL),
			AltText:  trimmed(img.AltText),
			Position: position,
		})
	}
	return out
}
