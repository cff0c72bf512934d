package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/db/dbtest"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

func phoneNames(rows []models.Phone) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Name)
	}
	return names
}

func seedCatalog(t *testing.T, conn *gorm.DB) (*models.Brand, *models.Brand) {
	t.Helper()
	apple := dbtest.CreateBrand(t, conn, "Apple")
	samsung := dbtest.CreateBrand(t, conn, "Samsung")

	dbtest.CreatePhone(t, conn, apple, "iPhone 15", func(p *models.Phone) {
		p.Series = dbtest.Str("iPhone")
		p.LaunchPrice = dbtest.Price("799")
		p.ReleaseDate = dbtest.Date(2023, time.September, 22)
	})
	dbtest.CreatePhone(t, conn, apple, "iPhone 15 Pro", func(p *models.Phone) {
		p.Series = dbtest.Str("iPhone")
		p.LaunchPrice = dbtest.Price("999")
		p.ReleaseDate = dbtest.Date(2023, time.September, 22)
	})
	dbtest.CreatePhone(t, conn, samsung, "Galaxy S24", func(p *models.Phone) {
		p.Series = dbtest.Str("Galaxy S")
		p.LaunchPrice = dbtest.Price("799.99")
		p.ReleaseDate = dbtest.Date(2024, time.January, 31)
	})
	dbtest.CreatePhone(t, conn, samsung, "Galaxy S25 Concept", func(p *models.Phone) {
		p.Status = enums.PhoneStatusDraft
		p.LaunchPrice = dbtest.Price("899")
	})
	return apple, samsung
}

func TestRepositoryListPhonesHidesDraftsByDefault(t *testing.T) {
	conn := dbtest.Open(t)
	seedCatalog(t, conn)
	r := NewRepository(conn)

	q := ListQuery{SortBy: "name", SortOrder: "asc", Page: pagination.Params{Page: 1, Limit: 10}}
	rows, total, err := r.ListPhones(context.Background(), q.Predicate(), q.Sort(), q.Page)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"Galaxy S24", "iPhone 15", "iPhone 15 Pro"}, phoneNames(rows))
	require.NotNil(t, rows[0].Brand)
	assert.Equal(t, "Samsung", rows[0].Brand.Name)
}

func TestRepositoryListPhonesExplicitDraftStatus(t *testing.T) {
	conn := dbtest.Open(t)
	seedCatalog(t, conn)
	r := NewRepository(conn)

	draft := enums.PhoneStatusDraft
	q := ListQuery{Status: &draft}
	rows, total, err := r.ListPhones(context.Background(), q.Predicate(), q.Sort(), q.Page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Galaxy S25 Concept"}, phoneNames(rows))
}

func TestRepositoryListPhonesCombinesFilters(t *testing.T) {
	conn := dbtest.Open(t)
	apple, _ := seedCatalog(t, conn)
	r := NewRepository(conn)

	min := decimal.RequireFromString("800")
	q := ListQuery{
		Search:    "IPHONE",
		BrandID:   &apple.ID,
		MinPrice:  &min,
		SortBy:    "launchPrice",
		SortOrder: "desc",
	}
	rows, total, err := r.ListPhones(context.Background(), q.Predicate(), q.Sort(), q.Page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"iPhone 15 Pro"}, phoneNames(rows))
}

func TestRepositoryListPhonesPriceRangeIsInclusive(t *testing.T) {
	conn := dbtest.Open(t)
	seedCatalog(t, conn)
	r := NewRepository(conn)

	min := decimal.RequireFromString("799")
	max := decimal.RequireFromString("799.99")
	q := ListQuery{MinPrice: &min, MaxPrice: &max, SortBy: "launchPrice", SortOrder: "asc"}
	rows, _, err := r.ListPhones(context.Background(), q.Predicate(), q.Sort(), q.Page)
	require.NoError(t, err)
	assert.Equal(t, []string{"iPhone 15", "Galaxy S24"}, phoneNames(rows))
}

func TestRepositoryListPhonesExcludesDeletedRowsAndBrands(t *testing.T) {
	conn := dbtest.Open(t)
	apple, samsung := seedCatalog(t, conn)
	r := NewRepository(conn)

	require.NoError(t, conn.Delete(samsung).Error)
	var pro models.Phone
	require.NoError(t, conn.Where("slug = ?", "iphone-15-pro").First(&pro).Error)
	require.NoError(t, conn.Delete(&pro).Error)

	q := ListQuery{}
	rows, total, err := r.ListPhones(context.Background(), q.Predicate(), q.Sort(), q.Page)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"iPhone 15"}, phoneNames(rows))
	assert.Equal(t, apple.ID, rows[0].BrandID)
}

func TestRepositoryListPhonesPaginates(t *testing.T) {
	conn := dbtest.Open(t)
	seedCatalog(t, conn)
	r := NewRepository(conn)

	q := ListQuery{SortBy: "name", SortOrder: "asc", Page: pagination.Params{Page: 2, Limit: 2}}
	rows, total, err := r.ListPhones(context.Background(), q.Predicate(), q.Sort(), q.Page)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"iPhone 15 Pro"}, phoneNames(rows))
}

func TestRepositoryFindPhoneLoadsChildren(t *testing.T) {
	conn := dbtest.Open(t)
	brand := dbtest.CreateBrand(t, conn, "Google")
	phone := dbtest.CreatePhone(t, conn, brand, "Pixel 8", func(p *models.Phone) {
		p.Specifications = []models.Specification{
			{Category: "DISPLAY", Key: "size", DisplayName: "Size", Value: "6.2", Priority: 1},
			{Category: "DISPLAY", Key: "refresh", DisplayName: "Refresh", Value: "120", Priority: 5},
			{Category: "BATTERY", Key: "capacity", DisplayName: "Capacity", Value: "4575"},
		}
		p.Images = []models.GalleryImage{
			{URL: "https://img/2.png", Position: 2},
			{URL: "https://img/1.png", Position: 1},
		}
		p.Colors = []models.PhoneColor{{Name: "Obsidian", IsAvailable: true}}
		p.Variants = []models.PhoneVariant{{Storage: "128GB", Price: dbtest.Price("699"), IsAvailable: true}}
	})
	r := NewRepository(conn)

	byID, err := r.FindPhone(context.Background(), phone.ID.String())
	require.NoError(t, err)
	require.Len(t, byID.Specifications, 3)
	assert.Equal(t, "capacity", byID.Specifications[0].Key)
	assert.Equal(t, "refresh", byID.Specifications[1].Key)
	assert.Equal(t, "size", byID.Specifications[2].Key)
	require.Len(t, byID.Images, 2)
	assert.Equal(t, 1, byID.Images[0].Position)
	assert.Len(t, byID.Colors, 1)
	assert.Len(t, byID.Variants, 1)
	require.NotNil(t, byID.Brand)

	bySlug, err := r.FindPhone(context.Background(), "Pixel-8")
	require.NoError(t, err)
	assert.Equal(t, phone.ID, bySlug.ID)
}

func TestRepositoryFindPhoneMissing(t *testing.T) {
	conn := dbtest.Open(t)
	brand := dbtest.CreateBrand(t, conn, "Google")
	phone := dbtest.CreatePhone(t, conn, brand, "Pixel 8")
	r := NewRepository(conn)

	_, err := r.FindPhone(context.Background(), uuid.NewString())
	assert.True(t, db.IsNotFound(err))

	require.NoError(t, conn.Delete(brand).Error)
	_, err = r.FindPhone(context.Background(), phone.Slug)
	assert.True(t, db.IsNotFound(err))
}

func TestRepositoryBrands(t *testing.T) {
	conn := dbtest.Open(t)
	apple, samsung := seedCatalog(t, conn)
	hidden := dbtest.CreateBrand(t, conn, "Zeta")
	require.NoError(t, conn.Model(hidden).Update("is_active", false).Error)
	require.NoError(t, conn.Delete(samsung).Error)
	r := NewRepository(conn)

	brands, err := r.ListBrands(context.Background())
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, apple.ID, brands[0].ID)

	found, err := r.FindBrandBySlug(context.Background(), " APPLE ")
	require.NoError(t, err)
	assert.Equal(t, apple.ID, found.ID)

	_, err = r.FindBrandBySlug(context.Background(), "samsung")
	assert.True(t, db.IsNotFound(err))

	phones, err := r.ListBrandPhones(context.Background(), apple.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"iPhone 15", "iPhone 15 Pro"}, phoneNames(phones))
}
