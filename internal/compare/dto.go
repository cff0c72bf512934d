package compare

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/phonedex-backend/internal/catalog"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

// Missing marks a specification the phone does not declare.
const Missing = "N/A"

// Ratings are review averages rounded to one decimal.
type Ratings struct {
	Overall      float64 `json:"overall"`
	Design       float64 `json:"design"`
	Performance  float64 `json:"performance"`
	Camera       float64 `json:"camera"`
	Battery      float64 `json:"battery"`
	Value        float64 `json:"value"`
	TotalReviews int64   `json:"totalReviews"`
}

// Phone is one column of the comparison.
type Phone struct {
	ID           uuid.UUID            `json:"id"`
	Name         string               `json:"name"`
	Slug         string               `json:"slug"`
	Model        *string              `json:"model"`
	Series       *string              `json:"series"`
	Status       enums.PhoneStatus    `json:"status"`
	Brand        *catalog.BrandRef    `json:"brand"`
	LaunchPrice  *float64             `json:"launchPrice"`
	CurrentPrice *float64             `json:"currentPrice"`
	Currency     string               `json:"currency"`
	ReleaseDate  *time.Time           `json:"releaseDate"`
	ThumbnailURL *string              `json:"thumbnailUrl"`
	ViewCount    int64                `json:"viewCount"`
	LikeCount    int64                `json:"likeCount"`
	Colors       []catalog.ColorDTO   `json:"colors"`
	Variants     []catalog.VariantDTO `json:"variants"`
	Images       []catalog.ImageDTO   `json:"images"`
	Ratings      Ratings              `json:"ratings"`
}

// SpecRow holds one key's value per phone id.
type SpecRow struct {
	Key         string            `json:"key"`
	DisplayName string            `json:"displayName"`
	Unit        *string           `json:"unit"`
	IsHighlight bool              `json:"isHighlight"`
	Values      map[string]string `json:"values"`
}

// SpecCategory groups rows under one specification category.
type SpecCategory struct {
	Category   string    `json:"category"`
	Highlights []string  `json:"highlights"`
	Rows       []SpecRow `json:"rows"`
}

// Highlights are the winning scalars across the compared phones.
type Highlights struct {
	HighestRating *float64   `json:"highestRating"`
	LowestPrice   *float64   `json:"lowestPrice"`
	HighestPrice  *float64   `json:"highestPrice"`
	NewestRelease *time.Time `json:"newestRelease"`
	MostViewed    *int64     `json:"mostViewed"`
}

// PriceRange spans the effective prices of the compared phones.
type PriceRange struct {
	Min        *float64 `json:"min"`
	Max        *float64 `json:"max"`
	Difference *float64 `json:"difference"`
}

// RatingRange spans the overall ratings of the compared phones.
type RatingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Summary describes the compared set as a whole.
type Summary struct {
	TotalPhones int         `json:"totalPhones"`
	PriceRange  PriceRange  `json:"priceRange"`
	RatingRange RatingRange `json:"ratingRange"`
	Brands      []string    `json:"brands"`
}

// Result is the comparison payload.
type Result struct {
	Phones         []Phone        `json:"phones"`
	Specifications []SpecCategory `json:"specifications"`
	Highlights     Highlights     `json:"highlights"`
	Summary        Summary        `json:"summary"`
	ComparedAt     time.Time      `json:"comparedAt"`
}

// Metadata accompanies the result in the response envelope.
type Metadata struct {
	RequestedIDs  []string `json:"requestedIds"`
	ComparedCount int      `json:"comparedCount"`
	CategoryCount int      `json:"categoryCount"`
}
