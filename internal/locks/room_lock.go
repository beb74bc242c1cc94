package locks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrRoomLocked is returned when another request currently holds the room
var ErrRoomLocked = errors.New("room is locked by another request")

const roomLockPrefix = "booking:room_lock:"

// releaseScript deletes the key only while it still holds the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RoomLocker serializes booking writes on the same room across server instances
type RoomLocker struct {
	client   *redis.Client
	ttl      time.Duration
	newToken func() string
}

// NewRoomLocker creates a locker backed by redis
func NewRoomLocker(client *redis.Client, ttl time.Duration) *RoomLocker {
	return &RoomLocker{
		client:   client,
		ttl:      ttl,
		newToken: uuid.NewString,
	}
}

func roomLockKey(roomID int) string {
	return roomLockPrefix + strconv.Itoa(roomID)
}

// LockRoom takes the lock for a room. The returned func releases it and is
// safe to call after the TTL has expired.
func (l *RoomLocker) LockRoom(ctx context.Context, roomID int) (func(), error) {
	key := roomLockKey(roomID)
	token := l.newToken()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to lock room %d: %w", roomID, err)
	}
	if !ok {
		return nil, ErrRoomLocked
	}

	return func() {
		_ = l.release(context.Background(), key, token)
	}, nil
}

// release runs the compare-and-delete atomically so an expired lock
// re-acquired by another request is left alone
func (l *RoomLocker) release(ctx context.Context, key, token string) error {
	return releaseScript.Run(ctx, l.client, []string{key}, token).Err()
}
