package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const lockTTL = 5 * time.Second

// releaseScript deletes the lock key only when it still holds our token, so
// a release that arrives after the TTL expired cannot free a lock another
// toggle has since acquired.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
    return redis.call("del", KEYS[1])
end
return 0
`)

// PostLocker serializes like toggles per post using a Redis lock.
// Key format: lock:post:<post_id>
type PostLocker struct {
	client *redis.Client
}

// NewPostLocker creates a PostLocker wrapping the given Redis client.
func NewPostLocker(client *redis.Client) *PostLocker {
	return &PostLocker{client: client}
}

// Acquire attempts to take the per-post slot. ok=false means another toggle
// holds it. The returned release function is best-effort: if it fails, the
// TTL reclaims the slot.
func (l *PostLocker) Acquire(ctx context.Context, postID string) (func(), bool, error) {
	key := l.key(postID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire post lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// Detached context: the lock must be released even when the request
		// context is already cancelled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

func (l *PostLocker) key(postID string) string {
	return fmt.Sprintf("lock:post:%s", postID)
}
