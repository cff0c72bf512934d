package compare

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/phonedex-backend/pkg/db/dbtest"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
)

func ptr(v float64) *float64 { return &v }

func TestBuildSortsPhonesByName(t *testing.T) {
	brand := &models.Brand{ID: uuid.New(), Name: "Acme"}
	snap := Snapshot{Phones: []models.Phone{
		{ID: uuid.New(), Name: "zeta", Brand: brand},
		{ID: uuid.New(), Name: "Alpha", Brand: brand},
		{ID: uuid.New(), Name: "beta", Brand: brand},
	}}

	result := Build(snap, time.Now())
	names := []string{result.Phones[0].Name, result.Phones[1].Name, result.Phones[2].Name}
	assert.Equal(t, []string{"Alpha", "beta", "zeta"}, names)
}

func TestBuildFillsMissingSpecifications(t *testing.T) {
	p1 := models.Phone{ID: uuid.New(), Name: "A", Specifications: []models.Specification{
		{Category: "DISPLAY", Key: "screen_size", DisplayName: "Screen size", Value: "6.1", Unit: dbtest.Str("in")},
		{Category: "battery", Key: "capacity", DisplayName: "Capacity", Value: "3200", IsHighlight: true},
	}}
	p2 := models.Phone{ID: uuid.New(), Name: "B", Specifications: []models.Specification{
		{Category: "BATTERY", Key: "capacity", DisplayName: "Capacity", Value: "4500"},
	}}

	result := Build(Snapshot{Phones: []models.Phone{p2, p1}}, time.Now())
	require.Len(t, result.Specifications, 2)

	battery := result.Specifications[0]
	assert.Equal(t, "BATTERY", battery.Category)
	assert.Equal(t, []string{"capacity"}, battery.Highlights)
	require.Len(t, battery.Rows, 1)
	assert.True(t, battery.Rows[0].IsHighlight)
	assert.Equal(t, "3200", battery.Rows[0].Values[p1.ID.String()])
	assert.Equal(t, "4500", battery.Rows[0].Values[p2.ID.String()])

	display := result.Specifications[1]
	assert.Equal(t, "DISPLAY", display.Category)
	assert.Empty(t, display.Highlights)
	require.Len(t, display.Rows, 1)
	row := display.Rows[0]
	assert.Equal(t, "screen_size", row.Key)
	assert.Equal(t, "6.1", row.Values[p1.ID.String()])
	assert.Equal(t, Missing, row.Values[p2.ID.String()])
	require.NotNil(t, row.Unit)
	assert.Equal(t, "in", *row.Unit)
}

func TestBuildRatingsDefaultToZero(t *testing.T) {
	p := models.Phone{ID: uuid.New(), Name: "Lonely"}
	other := models.Phone{ID: uuid.New(), Name: "Reviewed"}
	snap := Snapshot{
		Phones: []models.Phone{p, other},
		Ratings: map[uuid.UUID]RatingAggregate{
			other.ID: {PhoneID: other.ID, Total: 3, Overall: ptr(4.333), Camera: ptr(4.25)},
		},
	}

	result := Build(snap, time.Now())
	assert.Equal(t, Ratings{}, result.Phones[0].Ratings)
	assert.Equal(t, Ratings{Overall: 4.3, Camera: 4.3, TotalReviews: 3}, result.Phones[1].Ratings)

	require.NotNil(t, result.Highlights.HighestRating)
	assert.Equal(t, 4.3, *result.Highlights.HighestRating)
	assert.Equal(t, RatingRange{Min: 0, Max: 4.3}, result.Summary.RatingRange)
}

func TestBuildHighlightsAndSummary(t *testing.T) {
	apple := &models.Brand{ID: uuid.New(), Name: "Apple"}
	google := &models.Brand{ID: uuid.New(), Name: "Google"}
	older := models.Phone{
		ID:          uuid.New(), Name: "Pixel 7", Brand: google, ViewCount: 40,
		LaunchPrice: dbtest.Price("599"), CurrentPrice: dbtest.Price("449.50"),
		ReleaseDate: dbtest.Date(2022, time.October, 13),
	}
	newer := models.Phone{
		ID:          uuid.New(), Name: "iPhone 15", Brand: apple, ViewCount: 90,
		LaunchPrice: dbtest.Price("799"),
		ReleaseDate: dbtest.Date(2023, time.September, 22),
	}
	unpriced := models.Phone{ID: uuid.New(), Name: "Prototype", Brand: google}

	result := Build(Snapshot{Phones: []models.Phone{older, newer, unpriced}}, time.Now())

	h := result.Highlights
	assert.Nil(t, h.HighestRating)
	require.NotNil(t, h.LowestPrice)
	assert.Equal(t, 449.5, *h.LowestPrice)
	require.NotNil(t, h.HighestPrice)
	assert.Equal(t, 799.0, *h.HighestPrice)
	require.NotNil(t, h.NewestRelease)
	assert.Equal(t, 2023, h.NewestRelease.Year())
	require.NotNil(t, h.MostViewed)
	assert.Equal(t, int64(90), *h.MostViewed)

	s := result.Summary
	assert.Equal(t, 3, s.TotalPhones)
	assert.Equal(t, []string{"Apple", "Google"}, s.Brands)
	require.NotNil(t, s.PriceRange.Difference)
	assert.Equal(t, 349.5, *s.PriceRange.Difference)

	pixel := result.Phones[1]
	assert.Equal(t, "Pixel 7", pixel.Name)
	require.NotNil(t, pixel.CurrentPrice)
	assert.Equal(t, 449.5, *pixel.CurrentPrice)
	iphone := result.Phones[0]
	require.NotNil(t, iphone.CurrentPrice)
	assert.Equal(t, 799.0, *iphone.CurrentPrice)
}

func TestBuildWithoutPricesLeavesRangesNil(t *testing.T) {
	result := Build(Snapshot{Phones: []models.Phone{
		{ID: uuid.New(), Name: "A"},
		{ID: uuid.New(), Name: "B"},
	}}, time.Now())
	assert.Nil(t, result.Highlights.LowestPrice)
	assert.Nil(t, result.Summary.PriceRange.Min)
	assert.Empty(t, result.Summary.Brands)
}
