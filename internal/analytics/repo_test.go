package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/phonedex-backend/pkg/db/dbtest"
	"github.com/angelmondragon/phonedex-backend/pkg/db/models"
)

func TestRepositoryPopularQueriesGroupsNormalizedTerms(t *testing.T) {
	conn := dbtest.Open(t)
	r := NewRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, row := range []models.SearchLog{
		{Query: "iPhone", CreatedAt: now.Add(-time.Hour)},
		{Query: " iphone ", CreatedAt: now.Add(-2 * time.Hour)},
		{Query: "IPHONE", CreatedAt: now.Add(-3 * time.Hour)},
		{Query: "pixel", CreatedAt: now.Add(-time.Hour)},
		{Query: "galaxy", CreatedAt: now.Add(-time.Hour)},
		{Query: "galaxy", CreatedAt: now.Add(-40 * 24 * time.Hour)},
	} {
		row := row
		require.NoError(t, r.InsertSearchLog(ctx, &row))
	}

	rows, err := r.PopularQueries(ctx, now.Add(-30*24*time.Hour), 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, PopularQuery{Query: "iphone", Count: 3}, rows[0])
	assert.Equal(t, PopularQuery{Query: "galaxy", Count: 1}, rows[1])
}

func TestRepositoryIncrementViewCount(t *testing.T) {
	conn := dbtest.Open(t)
	brand := dbtest.CreateBrand(t, conn, "Nothing")
	phone := dbtest.CreatePhone(t, conn, brand, "Phone 2")
	r := NewRepository(conn)

	require.NoError(t, r.IncrementViewCount(context.Background(), phone.ID, 3))
	require.NoError(t, r.IncrementViewCount(context.Background(), phone.ID, 2))

	var reloaded models.Phone
	require.NoError(t, conn.First(&reloaded, "id = ?", phone.ID).Error)
	assert.Equal(t, int64(5), reloaded.ViewCount)
}

func TestRepositoryRetentionDeletes(t *testing.T) {
	conn := dbtest.Open(t)
	r := NewRepository(conn)
	ctx := context.Background()
	now := time.Now().UTC()
	brand := dbtest.CreateBrand(t, conn, "Fairphone")
	phone := dbtest.CreatePhone(t, conn, brand, "Fairphone 5")

	require.NoError(t, r.InsertSearchLog(ctx, &models.SearchLog{Query: "old", CreatedAt: now.Add(-31 * 24 * time.Hour)}))
	require.NoError(t, r.InsertSearchLog(ctx, &models.SearchLog{Query: "new", CreatedAt: now}))
	require.NoError(t, r.InsertPageView(ctx, &models.PageView{PhoneID: phone.ID, Path: "/old", CreatedAt: now.Add(-91 * 24 * time.Hour)}))
	require.NoError(t, r.InsertPageView(ctx, &models.PageView{PhoneID: phone.ID, Path: "/new", CreatedAt: now}))

	deleted, err := r.DeleteSearchLogsOlderThan(ctx, nil, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = r.DeletePageViewsOlderThan(ctx, conn, now.Add(-90*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var logs int64
	require.NoError(t, conn.Model(&models.SearchLog{}).Count(&logs).Error)
	assert.Equal(t, int64(1), logs)
	var views int64
	require.NoError(t, conn.Model(&models.PageView{}).Count(&views).Error)
	assert.Equal(t, int64(1), views)
}
