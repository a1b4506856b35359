package redis

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

// NormalizePairingCode canonicalizes user-entered codes: surrounding
// whitespace is dropped and the code is upper-cased before lookup.
func NormalizePairingCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// StorePairingCode binds a one-time pairing code to a device row id.
func StorePairingCode(ctx context.Context, code string, deviceID int, ttl time.Duration) error {
	key := "pairing:" + NormalizePairingCode(code)
	if err := Rdb.Set(ctx, key, strconv.Itoa(deviceID), ttl).Err(); err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to store pairing code")
		return err
	}
	return nil
}

// ConsumePairingCode resolves a pairing code to its device id and deletes it
// in the same round trip, so a code can only be used once.
func ConsumePairingCode(ctx context.Context, code string) (int, error) {
	key := "pairing:" + NormalizePairingCode(code)
	val, err := Rdb.GetDel(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	deviceID, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt pairing entry %q: %w", val, err)
	}
	return deviceID, nil
}

// PresenceStore keeps a per-device liveness key refreshed on every heartbeat;
// the key expiring is the fast-path signal that a device went offline.
type PresenceStore struct{}

func (PresenceStore) MarkOnline(deviceID int, ttl time.Duration) error {
	return Rdb.Set(context.Background(), presenceKey(deviceID), "1", ttl).Err()
}

func (PresenceStore) IsOnline(ctx context.Context, deviceID int) (bool, error) {
	n, err := Rdb.Exists(ctx, presenceKey(deviceID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func presenceKey(deviceID int) string {
	return fmt.Sprintf("presence:%d", deviceID)
}
