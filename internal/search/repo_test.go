package search

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/db/dbtest"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

func seedSearch(t *testing.T, conn *gorm.DB) {
	t.Helper()
	apple := dbtest.CreateBrand(t, conn, "Apple")
	google := dbtest.CreateBrand(t, conn, "Google")
	pixelBrand := dbtest.CreateBrand(t, conn, "Pixelworks")

	dbtest.CreatePhone(t, conn, apple, "iPhone 15", func(p *models.Phone) {
		p.Series = dbtest.Str("iPhone")
		p.LaunchPrice = dbtest.Price("799")
		p.ReleaseDate = dbtest.Date(2023, time.September, 22)
		p.AverageRating = 4.5
		p.Specifications = []models.Specification{
			{Category: "CAMERA", Key: "main_sensor", DisplayName: "Main sensor", Value: "48MP"},
			{Category: "display", Key: "screen_size", DisplayName: "Screen size", Value: "6.1"},
		}
		p.Colors = []models.PhoneColor{{Name: "Black", IsAvailable: true}, {Name: "Pink", IsAvailable: true}}
	})
	dbtest.CreatePhone(t, conn, google, "Pixel 8", func(p *models.Phone) {
		p.Series = dbtest.Str("Pixel")
		p.LaunchPrice = dbtest.Price("699")
		p.CurrentPrice = dbtest.Price("549")
		p.ReleaseDate = dbtest.Date(2023, time.October, 12)
		p.AverageRating = 4.1
		p.Specifications = []models.Specification{
			{Category: "DISPLAY", Key: "screen_size", DisplayName: "Screen size", Value: "6.2"},
		}
		p.Colors = []models.PhoneColor{{Name: "Black", IsAvailable: true}}
	})
	dbtest.CreatePhone(t, conn, google, "Google Pixel Fold", func(p *models.Phone) {
		p.Series = dbtest.Str("Pixel")
		p.LaunchPrice = dbtest.Price("1799")
		p.ReleaseDate = dbtest.Date(2023, time.June, 27)
		p.Status = enums.PhoneStatusUpcoming
		p.AverageRating = 3.9
	})
	dbtest.CreatePhone(t, conn, google, "Pixel 9 Draft", func(p *models.Phone) {
		p.Status = enums.PhoneStatusDraft
		p.LaunchPrice = dbtest.Price("99")
	})
	dbtest.CreatePhone(t, conn, pixelBrand, "Nova", func(p *models.Phone) {
		p.LaunchPrice = dbtest.Price("199.99")
		p.ReleaseDate = dbtest.Date(2021, time.May, 1)
	})
}

func phoneNames(rows []models.Phone) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestRepositorySearchPhonesPrefixFirst(t *testing.T) {
	conn := dbtest.Open(t)
	seedSearch(t, conn)
	r := NewRepository(conn)

	rows, err := r.SearchPhones(context.Background(), "PIXEL", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Pixel 8", "Google Pixel Fold", "Nova"}, phoneNames(rows))
	require.NotNil(t, rows[0].Brand)
}

func TestRepositorySearchPhonesMatchesSpecifications(t *testing.T) {
	conn := dbtest.Open(t)
	seedSearch(t, conn)
	r := NewRepository(conn)

	rows, err := r.SearchPhones(context.Background(), "48mp", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"iPhone 15"}, phoneNames(rows))

	rows, err = r.SearchPhones(context.Background(), "100%", 10)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositorySearchBrandsAndSuggestions(t *testing.T) {
	conn := dbtest.Open(t)
	seedSearch(t, conn)
	r := NewRepository(conn)

	brands, err := r.SearchBrands(context.Background(), "pixel", 10)
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "Pixelworks", brands[0].Name)

	hits, err := r.SuggestPhones(context.Background(), "pix", 10)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "Pixel 8", hits[0].Name)
	assert.Equal(t, "Google", hits[0].Brand)
	assert.Equal(t, "Google Pixel Fold", hits[1].Name)

	brandHits, err := r.SuggestBrands(context.Background(), "goo", 10)
	require.NoError(t, err)
	require.Len(t, brandHits, 1)
	assert.Equal(t, "google", brandHits[0].Slug)
}

func TestRepositoryFacets(t *testing.T) {
	conn := dbtest.Open(t)
	seedSearch(t, conn)
	r := NewRepository(conn)

	f, err := r.Facets(context.Background(), "")
	require.NoError(t, err)

	require.Len(t, f.Brands, 3)
	assert.Equal(t, "Google", f.Brands[0].Name)
	assert.Equal(t, int64(2), f.Brands[0].Count)

	labels := make([]string, 0, len(f.PriceRanges))
	for _, band := range f.PriceRanges {
		labels = append(labels, band.Label)
		assert.Equal(t, int64(1), band.Count)
	}
	assert.Equal(t, []string{"Under $200", "$400 - $600", "$600 - $800", "$1000+"}, labels)

	assert.Equal(t, RatingFacet{Min: 0, Max: 4.5}, f.Rating)
	assert.Equal(t, []int{2023, 2021}, f.Years)
	assert.Equal(t, []ValueCount{{Value: "Pixel", Count: 2}, {Value: "iPhone", Count: 1}}, f.Series)

	require.Len(t, f.Specifications, 2)
	assert.Equal(t, "CAMERA", f.Specifications[0].Category)
	assert.Equal(t, "DISPLAY", f.Specifications[1].Category)
	assert.Equal(t, []SpecKeyFacet{{Key: "screen_size", DisplayName: "Screen size", Count: 2}}, f.Specifications[1].Keys)

	assert.Equal(t, []ValueCount{{Value: "Black", Count: 2}, {Value: "Pink", Count: 1}}, f.Colors)
	assert.Equal(t, []ValueCount{{Value: "active", Count: 3}, {Value: "upcoming", Count: 1}}, f.Statuses)
}

func TestRepositoryFacetsNarrowBySeries(t *testing.T) {
	conn := dbtest.Open(t)
	seedSearch(t, conn)
	r := NewRepository(conn)

	f, err := r.Facets(context.Background(), "pix")
	require.NoError(t, err)
	require.Len(t, f.Brands, 1)
	assert.Equal(t, int64(2), f.Brands[0].Count)
	assert.Equal(t, []ValueCount{{Value: "Black", Count: 1}}, f.Colors)
}

func TestBucketPricesBoundaries(t *testing.T) {
	prices := []decimal.Decimal{
		decimal.RequireFromString("199.99"),
		decimal.RequireFromString("200"),
		decimal.RequireFromString("999.99"),
		decimal.RequireFromString("1000"),
		decimal.RequireFromString("2500"),
	}
	bands := BucketPrices(prices)
	require.Len(t, bands, 4)
	assert.Equal(t, "Under $200", bands[0].Label)
	assert.Nil(t, bands[0].Min)
	assert.Equal(t, "$200 - $400", bands[1].Label)
	assert.Equal(t, "$800 - $1000", bands[2].Label)
	assert.Equal(t, "$1000+", bands[3].Label)
	assert.Equal(t, int64(2), bands[3].Count)
	assert.Nil(t, bands[3].Max)
}

func TestDistinctYears(t *testing.T) {
	years := DistinctYears([]time.Time{
		time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, []int{2024, 2022}, years)
	assert.Empty(t, DistinctYears(nil))
}
