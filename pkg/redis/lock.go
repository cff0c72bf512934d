package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// releaseScript deletes KEYS[1] only while it still holds ARGV[1].
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ReleaseLock deletes key if owner still holds it and reports whether it did.
func (c *Client) ReleaseLock(ctx context.Context, key, owner string) (bool, error) {
	if c == nil || c.raw == nil {
		return false, errNotInitialized
	}
	n, err := releaseScript.Run(ctx, c.raw, []string{key}, owner).Int()
	if err != nil {
		return false, fmt.Errorf("release lock %s: %w", key, err)
	}
	return n == 1, nil
}
