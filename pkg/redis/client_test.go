package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/phonedex-backend/pkg/config"
)

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	allowed, count, err := client.FixedWindowAllow(ctx, "search:1.2.3.4", 2, time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.EqualValues(t, 1, count)
	require.Len(t, mock.expireCalls, 1)
	assert.Equal(t, "phonedex:rate_limit:search:1.2.3.4", mock.expireCalls[0].key)

	allowed, count, err = client.FixedWindowAllow(ctx, "search:1.2.3.4", 2, time.Second)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.EqualValues(t, 2, count)
	assert.Len(t, mock.expireCalls, 1, "expire should not be set again")

	allowed, _, err = client.FixedWindowAllow(ctx, "search:1.2.3.4", 2, time.Second)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	require.NoError(t, client.Set(ctx, "k", "v", time.Minute))
	got, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	require.NoError(t, client.Del(ctx, "k"))
	_, err = client.Get(ctx, "k")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	assert.ErrorIs(t, client.Ping(context.Background()), errNotInitialized)
	assert.ErrorIs(t, client.BufferView(context.Background(), "p", 1), errNotInitialized)
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "phonedex:rate_limit:scope", client.RateLimitKey("scope"))
	assert.Equal(t, "phonedex:cache:popular:30:5", client.CacheKey("popular", "30", "5"))
	assert.Equal(t, "phonedex:lock:cron", client.LockKey("cron"))
	assert.Equal(t, "phonedex:views:pending", client.ViewBufferKey())
	assert.Equal(t, "phonedex:cache", client.CacheKey("", ""))
}

func TestViewBufferClaimAndAck(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	require.NoError(t, client.BufferView(ctx, "phone-a", 1))
	require.NoError(t, client.BufferView(ctx, "phone-a", 1))
	require.NoError(t, client.BufferView(ctx, "phone-b", 3))

	claim, err := client.ClaimViews(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"phone-a": 2, "phone-b": 3}, claim.Counts)
	assert.True(t, strings.HasPrefix(claim.Key, "phonedex:views:flushing:"))
	_, pendingExists := mock.hashes[client.ViewBufferKey()]
	assert.False(t, pendingExists)

	require.NoError(t, client.BufferView(ctx, "phone-a", 1))
	require.NoError(t, client.AckViews(ctx, claim))
	_, claimExists := mock.hashes[claim.Key]
	assert.False(t, claimExists)
	assert.Equal(t, "1", mock.hashes[client.ViewBufferKey()]["phone-a"])
}

func TestClaimViewsEmptyBuffer(t *testing.T) {
	client := &Client{store: newMockCmdable()}

	claim, err := client.ClaimViews(context.Background())
	require.NoError(t, err)
	assert.True(t, claim.Empty())
	assert.Empty(t, claim.Key)
	require.NoError(t, client.AckViews(context.Background(), claim))
}

func TestRestoreViewsMergesIntoPending(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	require.NoError(t, client.BufferView(ctx, "phone-a", 4))
	claim, err := client.ClaimViews(ctx)
	require.NoError(t, err)
	require.NoError(t, client.BufferView(ctx, "phone-a", 1))

	require.NoError(t, client.RestoreViews(ctx, claim))
	assert.Equal(t, "5", mock.hashes[client.ViewBufferKey()]["phone-a"])
	_, claimExists := mock.hashes[claim.Key]
	assert.False(t, claimExists)
}

func TestClaimViewsPropagatesRenameFailure(t *testing.T) {
	mock := newMockCmdable()
	mock.renameErr = errors.New("READONLY")
	client := &Client{store: mock}

	_, err := client.ClaimViews(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rename view buffer")
}

func TestRestoreViewsRecoversUnreadClaim(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	require.NoError(t, client.BufferView(ctx, "phone-a", 3))
	mock.hgetallErr = errors.New("i/o timeout")
	claim, err := client.ClaimViews(ctx)
	require.Error(t, err)
	require.NotEmpty(t, claim.Key)
	assert.Nil(t, claim.Counts)

	// still failing: the claim hash must survive
	require.Error(t, client.RestoreViews(ctx, claim))
	assert.Equal(t, "3", mock.hashes[claim.Key]["phone-a"])

	mock.hgetallErr = nil
	require.NoError(t, client.BufferView(ctx, "phone-a", 1))
	require.NoError(t, client.RestoreViews(ctx, claim))
	assert.Equal(t, "4", mock.hashes[client.ViewBufferKey()]["phone-a"])
	_, claimExists := mock.hashes[claim.Key]
	assert.False(t, claimExists)
}

type mockCmdable struct {
	data        map[string]string
	incr        map[string]int64
	hashes      map[string]map[string]string
	expireCalls []expireCall
	renameErr   error
	hgetallErr  error
}

type expireCall struct {
	key string
	ttl time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data:   make(map[string]string),
		incr:   make(map[string]int64),
		hashes: make(map[string]map[string]string),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Incr(ctx context.Context, key string) *redis.IntCmd {
	m.incr[key]++
	return redis.NewIntResult(m.incr[key], nil)
}

func (m *mockCmdable) Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd {
	m.expireCalls = append(m.expireCalls, expireCall{key: key, ttl: expiration})
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
		delete(m.hashes, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

func (m *mockCmdable) HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd {
	hash, ok := m.hashes[key]
	if !ok {
		hash = make(map[string]string)
		m.hashes[key] = hash
	}
	current, _ := strconv.ParseInt(hash[field], 10, 64)
	current += incr
	hash[field] = strconv.FormatInt(current, 10)
	return redis.NewIntResult(current, nil)
}

func (m *mockCmdable) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	if m.hgetallErr != nil {
		return redis.NewMapStringStringResult(nil, m.hgetallErr)
	}
	out := make(map[string]string)
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return redis.NewMapStringStringResult(out, nil)
}

func (m *mockCmdable) Rename(ctx context.Context, key, newKey string) *redis.StatusCmd {
	if m.renameErr != nil {
		return redis.NewStatusResult("", m.renameErr)
	}
	hash, ok := m.hashes[key]
	if !ok {
		return redis.NewStatusResult("", errors.New("ERR no such key"))
	}
	m.hashes[newKey] = hash
	delete(m.hashes, key)
	return redis.NewStatusResult("OK", nil)
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{
		URL:         "redis://:secret@cache.internal:6380/3",
		DB:          7,
		PoolSize:    12,
		DialTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 3, opts.DB, "db from the url wins")
	assert.Equal(t, 12, opts.PoolSize)
	assert.Equal(t, 2*time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{Address: "localhost:6379", DB: 2})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	_, err = optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)
}

func TestNilClientIsSafe(t *testing.T) {
	var client *Client
	assert.NoError(t, client.Close())
	assert.ErrorIs(t, client.Ping(context.Background()), errNotInitialized)
}
