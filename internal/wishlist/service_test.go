package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/phonedex-backend/pkg/db"
	"github.com/angelmondragon/phonedex-backend/pkg/db/dbtest"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
	"github.com/angelmondragon/phonedex-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/phonedex-backend/pkg/errors"
	"github.com/angelmondragon/phonedex-backend/pkg/pagination"
)

func newService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{WishlistRepo: NewRepository(conn), TxRunner: db.NewFromGorm(conn)})
	require.NoError(t, err)
	return svc, conn
}

func likeCount(t *testing.T, conn *gorm.DB, id uuid.UUID) int64 {
	t.Helper()
	var phone models.Phone
	require.NoError(t, conn.Unscoped().First(&phone, "id = ?", id).Error)
	return phone.LikeCount
}

func TestAddItemBumpsLikeCountAndRejectsDuplicates(t *testing.T) {
	svc, conn := newService(t)
	brand := dbtest.CreateBrand(t, conn, "OnePlus")
	phone := dbtest.CreatePhone(t, conn, brand, "OnePlus 12")
	user := dbtest.CreateUser(t, conn)

	item, err := svc.AddItem(context.Background(), user.ID, AddItemInput{PhoneID: phone.ID, Notes: dbtest.Str(" wait for sale ")})
	require.NoError(t, err)
	assert.Equal(t, enums.WishlistPriorityMedium, item.Priority)
	require.NotNil(t, item.Notes)
	assert.Equal(t, "wait for sale", *item.Notes)
	require.NotNil(t, item.Phone)
	assert.Equal(t, "OnePlus 12", item.Phone.Name)
	require.NotNil(t, item.Phone.Brand)
	assert.Equal(t, int64(1), likeCount(t, conn, phone.ID))

	_, err = svc.AddItem(context.Background(), user.ID, AddItemInput{PhoneID: phone.ID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	assert.Equal(t, int64(1), likeCount(t, conn, phone.ID))
}

func TestAddItemRequiresPublicPhone(t *testing.T) {
	svc, conn := newService(t)
	brand := dbtest.CreateBrand(t, conn, "OnePlus")
	draft := dbtest.CreatePhone(t, conn, brand, "OnePlus 13", func(p *models.Phone) { p.Status = enums.PhoneStatusDraft })
	user := dbtest.CreateUser(t, conn)

	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{PhoneID: draft.ID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.AddItem(context.Background(), user.ID, AddItemInput{PhoneID: uuid.New()})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.AddItem(context.Background(), user.ID, AddItemInput{PhoneID: draft.ID, Priority: "urgent"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestGetWishlistOrdersByPriorityThenNewest(t *testing.T) {
	svc, conn := newService(t)
	brand := dbtest.CreateBrand(t, conn, "OnePlus")
	user := dbtest.CreateUser(t, conn)
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	entries := []struct {
		name     string
		priority enums.WishlistPriority
		offset   time.Duration
	}{
		{"Low Old", enums.WishlistPriorityLow, 0},
		{"High Old", enums.WishlistPriorityHigh, time.Hour},
		{"Medium", enums.WishlistPriorityMedium, 2 * time.Hour},
		{"High New", enums.WishlistPriorityHigh, 3 * time.Hour},
	}
	for _, e := range entries {
		phone := dbtest.CreatePhone(t, conn, brand, e.name)
		require.NoError(t, conn.Create(&models.WishlistItem{
			UserID:    user.ID,
			PhoneID:   phone.ID,
			Priority:  e.priority,
			CreatedAt: base.Add(e.offset),
		}).Error)
	}
	gone := dbtest.CreatePhone(t, conn, brand, "Deleted")
	require.NoError(t, conn.Create(&models.WishlistItem{UserID: user.ID, PhoneID: gone.ID, Priority: enums.WishlistPriorityHigh}).Error)
	require.NoError(t, conn.Delete(&models.Phone{}, "id = ?", gone.ID).Error)

	items, meta, err := svc.GetWishlist(context.Background(), user.ID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(4), meta.Total)
	names := make([]string, 0, len(items))
	for _, item := range items {
		require.NotNil(t, item.Phone)
		names = append(names, item.Phone.Name)
	}
	assert.Equal(t, []string{"High New", "High Old", "Medium", "Low Old"}, names)
}

func TestUpdateItem(t *testing.T) {
	svc, conn := newService(t)
	brand := dbtest.CreateBrand(t, conn, "OnePlus")
	phone := dbtest.CreatePhone(t, conn, brand, "OnePlus 12")
	user := dbtest.CreateUser(t, conn)
	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{PhoneID: phone.ID, Notes: dbtest.Str("maybe")})
	require.NoError(t, err)

	high := enums.WishlistPriorityHigh
	updated, err := svc.UpdateItem(context.Background(), user.ID, phone.ID, UpdateItemInput{Priority: &high, Notes: dbtest.Str("")})
	require.NoError(t, err)
	assert.Equal(t, enums.WishlistPriorityHigh, updated.Priority)
	assert.Nil(t, updated.Notes)

	var stored models.WishlistItem
	require.NoError(t, conn.First(&stored, "user_id = ? AND phone_id = ?", user.ID, phone.ID).Error)
	assert.Equal(t, enums.WishlistPriorityHigh, stored.Priority)
	assert.Nil(t, stored.Notes)

	_, err = svc.UpdateItem(context.Background(), user.ID, uuid.New(), UpdateItemInput{Priority: &high})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestRemoveItemReleasesLike(t *testing.T) {
	svc, conn := newService(t)
	brand := dbtest.CreateBrand(t, conn, "OnePlus")
	phone := dbtest.CreatePhone(t, conn, brand, "OnePlus 12")
	user := dbtest.CreateUser(t, conn)
	_, err := svc.AddItem(context.Background(), user.ID, AddItemInput{PhoneID: phone.ID})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(context.Background(), user.ID, phone.ID))
	assert.Zero(t, likeCount(t, conn, phone.ID))

	err = svc.RemoveItem(context.Background(), user.ID, phone.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Zero(t, likeCount(t, conn, phone.ID))
}
