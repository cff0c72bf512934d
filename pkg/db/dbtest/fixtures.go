package dbtest

import (
	"strings"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
)

// Slugify lowercases name and joins words with dashes.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Price returns a decimal pointer for fixtures.
func Price(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

// Date returns a UTC midnight pointer for fixtures.
func Date(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

// Str returns a pointer to s.
func Str(s string) *string {
	return &s
}

// CreateBrand inserts an active brand.
func CreateBrand(t *testing.T, db *gorm.DB, name string) *models.Brand {
	t.Helper()
	brand := &models.Brand{
		Name:        name,
		Slug:        Slugify(name),
		Description: Str(gofakeit.Sentence(8)),
		IsActive:    true,
	}
	require.NoError(t, db.Create(brand).Error)
	return brand
}

// CreatePhone inserts an active phone; mutate tweaks it before insert.
func CreatePhone(t *testing.T, db *gorm.DB, brand *models.Brand, name string, mutate ...func(*models.Phone)) *models.Phone {
	t.Helper()
	phone := &models.Phone{
		BrandID:     brand.ID,
		Name:        name,
		Slug:        Slugify(name),
		Status:      enums.PhoneStatusActive,
		Currency:    "USD",
		Description: Str(gofakeit.Sentence(10)),
	}
	for _, fn := range mutate {
		fn(phone)
	}
	require.NoError(t, db.Create(phone).Error)
	return phone
}

// CreateUser inserts an active user with a placeholder hash.
func CreateUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:        strings.ToLower(gofakeit.Email()),
		Name:         gofakeit.Name(),
		PasswordHash: "hash",
		Role:         enums.UserRoleUser,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
