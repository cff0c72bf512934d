package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

// BrandRef is the brand block embedded in phone payloads.
type BrandRef struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
	LogoURL *string   `json:"logoUrl"`
}

// PhoneSummary is the list representation of a phone.
type PhoneSummary struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Slug          string            `json:"slug"`
	Model         *string           `json:"model"`
	Series        *string           `json:"series"`
	Status        enums.PhoneStatus `json:"status"`
	LaunchPrice   *float64          `json:"launchPrice"`
	CurrentPrice  *float64          `json:"currentPrice"`
	Currency      string            `json:"currency"`
	ReleaseDate   *time.Time        `json:"releaseDate"`
	ThumbnailURL  *string           `json:"thumbnailUrl"`
	ViewCount     int64             `json:"viewCount"`
	LikeCount     int64             `json:"likeCount"`
	ReviewCount   int64             `json:"reviewCount"`
	AverageRating float64           `json:"averageRating"`
	CreatedAt     time.Time         `json:"createdAt"`
	Brand         *BrandRef         `json:"brand,omitempty"`
}

// SpecificationDTO is one key/value row.
type SpecificationDTO struct {
	Category    string  `json:"category"`
	Key         string  `json:"key"`
	DisplayName string  `json:"displayName"`
	Value       string  `json:"value"`
	Unit        *string `json:"unit"`
	IsHighlight bool    `json:"isHighlight"`
	Priority    int     `json:"priority"`
}

// ColorDTO is a color swatch.
type ColorDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	HexCode     *string   `json:"hexCode"`
	ImageURL    *string   `json:"imageUrl"`
	IsAvailable bool      `json:"isAvailable"`
}

// VariantDTO is a storage/RAM/price option.
type VariantDTO struct {
	ID          uuid.UUID `json:"id"`
	Storage     string    `json:"storage"`
	RAM         *string   `json:"ram"`
	Price       *float64  `json:"price"`
	IsAvailable bool      `json:"isAvailable"`
}

// ImageDTO is a gallery image.
type ImageDTO struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	AltText  *string   `json:"altText"`
	Position int       `json:"position"`
}

// PhoneDetail is the single-phone payload.
type PhoneDetail struct {
	PhoneSummary
	Description     *string            `json:"description"`
	MetaTitle       *string            `json:"metaTitle"`
	MetaDescription *string            `json:"metaDescription"`
	UpdatedAt       time.Time          `json:"updatedAt"`
	Specifications  []SpecificationDTO `json:"specifications"`
	Colors          []ColorDTO         `json:"colors"`
	Variants        []VariantDTO       `json:"variants"`
	Images          []ImageDTO         `json:"images"`
}

// BrandDTO is the public brand payload.
type BrandDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	LogoURL     *string   `json:"logoUrl"`
	Website     *string   `json:"website"`
	Country     *string   `json:"country"`
	FoundedYear *int      `json:"foundedYear"`
	IsVerified  bool      `json:"isVerified"`
	PhoneCount  int       `json:"phoneCount"`
}

// BrandDetail is a brand with its public phones.
type BrandDetail struct {
	BrandDTO
	Phones []PhoneSummary `json:"phones"`
}

// PriceValue converts a stored decimal to the JSON number used in payloads.
func PriceValue(d *decimal.Decimal) *float64 {
	if d == nil {
		return nil
	}
	v := d.InexactFloat64()
	return &v
}

// NewBrandRef maps a brand row.
func NewBrandRef(b *models.Brand) *BrandRef {
	if b == nil {
		return nil
	}
	return &BrandRef{ID: b.ID, Name: b.Name, Slug: b.Slug, LogoURL: b.LogoURL}
}

// NewPhoneSummary maps a phone row, including its brand when loaded.
func NewPhoneSummary(p models.Phone) PhoneSummary {
	return PhoneSummary{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Model:         p.Model,
		Series:        p.Series,
		Status:        p.Status,
		LaunchPrice:   PriceValue(p.LaunchPrice),
		CurrentPrice:  PriceValue(p.CurrentPrice),
		Currency:      p.Currency,
		ReleaseDate:   p.ReleaseDate,
		ThumbnailURL:  p.ThumbnailURL,
		ViewCount:     p.ViewCount,
		LikeCount:     p.LikeCount,
		ReviewCount:   p.ReviewCount,
		AverageRating: p.AverageRating,
		CreatedAt:     p.CreatedAt,
		Brand:         NewBrandRef(p.Brand),
	}
}

// NewPhoneSummaries maps a slice of phone rows.
func NewPhoneSummaries(rows []models.Phone) []PhoneSummary {
	out := make([]PhoneSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, NewPhoneSummary(row))
	}
	return out
}

// NewSpecificationDTO maps a specification row.
func NewSpecificationDTO(s models.Specification) SpecificationDTO {
	return SpecificationDTO{
		Category:    s.Category,
		Key:         s.Key,
		DisplayName: s.DisplayName,
		Value:       s.Value,
		Unit:        s.Unit,
		IsHighlight: s.IsHighlight,
		Priority:    s.Priority,
	}
}

// NewColorDTO maps a color row.
func NewColorDTO(c models.PhoneColor) ColorDTO {
	return ColorDTO{ID: c.ID, Name: c.Name, HexCode: c.HexCode, ImageURL: c.ImageURL, IsAvailable: c.IsAvailable}
}

// NewVariantDTO maps a variant row.
func NewVariantDTO(v models.PhoneVariant) VariantDTO {
	return VariantDTO{ID: v.ID, Storage: v.Storage, RAM: v.RAM, Price: PriceValue(v.Price), IsAvailable: v.IsAvailable}
}

// NewImageDTO maps a gallery row.
func NewImageDTO(g models.GalleryImage) ImageDTO {
	return ImageDTO{ID: g.ID, URL: g.URL, AltText: g.AltText, Position: g.Position}
}

// NewPhoneDetail maps a fully preloaded phone.
func NewPhoneDetail(p models.Phone) PhoneDetail {
	detail := PhoneDetail{
		PhoneSummary:    NewPhoneSummary(p),
		Description:     p.Description,
		MetaTitle:       p.MetaTitle,
		MetaDescription: p.MetaDescription,
		UpdatedAt:       p.UpdatedAt,
		Specifications:  make([]SpecificationDTO, 0, len(p.Specifications)),
		Colors:          make([]ColorDTO, 0, len(p.Colors)),
		Variants:        make([]VariantDTO, 0, len(p.Variants)),
		Images:          make([]ImageDTO, 0, len(p.Images)),
	}
	for _, s := range p.Specifications {
		detail.Specifications = append(detail.Specifications, NewSpecificationDTO(s))
	}
	for _, c := range p.Colors {
		detail.Colors = append(detail.Colors, NewColorDTO(c))
	}
	for _, v := range p.Variants {
		detail.Variants = append(detail.Variants, NewVariantDTO(v))
	}
	for _, g := range p.Images {
		detail.Images = append(detail.Images, NewImageDTO(g))
	}
	return detail
}

// NewBrandDTO maps a brand row.
func NewBrandDTO(b models.Brand) BrandDTO {
	return BrandDTO{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		LogoURL:     b.LogoURL,
		Website:     b.Website,
		Country:     b.Country,
		FoundedYear: b.FoundedYear,
		IsVerified:  b.IsVerified,
		PhoneCount:  b.PhoneCount,
	}
}
