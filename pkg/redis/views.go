package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ViewBufferKey is the hash that accumulates phone view increments between
// flushes. Fields are phone ids, values are pending counts.
func (c *Client) ViewBufferKey() string {
	return key(viewsPrefix, "pending")
}

// BufferView adds n to the pending view count of a phone.
func (c *Client) BufferView(ctx context.Context, phoneID string, n int64) error {
	store, err := c.cmd()
	if err != nil {
		return err
	}
	return store.HIncrBy(ctx, c.ViewBufferKey(), phoneID, n).Err()
}

// ViewClaim is a snapshot of the buffer moved aside for flushing.
type ViewClaim struct {
	Key    string
	Counts map[string]int64
}

// Empty reports whether the claim holds nothing to flush.
func (v ViewClaim) Empty() bool {
	return len(v.Counts) == 0
}

// ClaimViews atomically renames the pending buffer to a private key and reads
// it back. New increments land in a fresh pending hash while the claim is
// flushed. An absent buffer yields an empty claim.
func (c *Client) ClaimViews(ctx context.Context) (ViewClaim, error) {
	store, err := c.cmd()
	if err != nil {
		return ViewClaim{}, err
	}
	claimKey := key(viewsPrefix, "flushing", uuid.NewString())
	if err := store.Rename(ctx, c.ViewBufferKey(), claimKey).Err(); err != nil {
		if isNoSuchKey(err) {
			return ViewClaim{}, nil
		}
		return ViewClaim{}, fmt.Errorf("rename view buffer: %w", err)
	}
	raw, err := store.HGetAll(ctx, claimKey).Result()
	if err != nil {
		// the renamed hash stays behind; RestoreViews folds it back
		return ViewClaim{Key: claimKey}, fmt.Errorf("read view claim: %w", err)
	}
	return ViewClaim{Key: claimKey, Counts: parseCounts(raw)}, nil
}

// AckViews discards a claim after its counts were persisted.
func (c *Client) AckViews(ctx context.Context, claim ViewClaim) error {
	if claim.Key == "" {
		return nil
	}
	return c.Del(ctx, claim.Key)
}

// RestoreViews merges a claim back into the pending buffer so the next flush
// retries it. The claim hash is re-read from Redis, so a claim whose counts
// never reached the caller is restored too. On error the claim hash is kept.
func (c *Client) RestoreViews(ctx context.Context, claim ViewClaim) error {
	if claim.Key == "" {
		return nil
	}
	store, err := c.cmd()
	if err != nil {
		return err
	}
	raw, err := store.HGetAll(ctx, claim.Key).Result()
	if err != nil {
		return fmt.Errorf("read view claim %s: %w", claim.Key, err)
	}
	for phoneID, n := range parseCounts(raw) {
		if err := store.HIncrBy(ctx, c.ViewBufferKey(), phoneID, n).Err(); err != nil {
			return fmt.Errorf("restore view count %s: %w", phoneID, err)
		}
	}
	return c.AckViews(ctx, claim)
}

func parseCounts(raw map[string]string) map[string]int64 {
	counts := make(map[string]int64, len(raw))
	for field, value := range raw {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n <= 0 {
			continue
		}
		counts[field] = n
	}
	return counts
}

func isNoSuchKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "no such key")
}
