package basket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "skyshop"

// RedisStore keeps each basket as a hash of product id -> quantity plus a
// list recording first-add order. Both keys expire after idleTTL without writes.
type RedisStore struct {
	client  *redis.Client
	idleTTL time.Duration
}

func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", addr, err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, idleTTL time.Duration) *RedisStore {
	return &RedisStore{client: client, idleTTL: idleTTL}
}

func (s *RedisStore) qtyKey(sessionID string) string {
	return fmt.Sprintf("%s:basket:%s", redisKeyPrefix, sessionID)
}

func (s *RedisStore) orderKey(sessionID string) string {
	return s.qtyKey(sessionID) + ":order"
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// addScript bumps the quantity, records first-add order and refreshes both
// expiries as a single Redis operation.
var addScript = redis.NewScript(`
local n = redis.call("HINCRBY", KEYS[1], ARGV[1], 1)
if n == 1 then
	redis.call("LREM", KEYS[2], 0, ARGV[1])
	redis.call("RPUSH", KEYS[2], ARGV[1])
end
redis.call("PEXPIRE", KEYS[1], ARGV[2])
redis.call("PEXPIRE", KEYS[2], ARGV[2])
return n
`)

func (s *RedisStore) Add(ctx context.Context, sessionID string, productID uuid.UUID) error {
	keys := []string{s.qtyKey(sessionID), s.orderKey(sessionID)}
	if err := addScript.Run(ctx, s.client, keys, productID.String(), s.idleTTL.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("basket add: %w", err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.qtyKey(sessionID), s.orderKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("basket clear: %w", err)
	}
	return nil
}

func (s *RedisStore) Entries(ctx context.Context, sessionID string) ([]Entry, error) {
	ids, err := s.client.LRange(ctx, s.orderKey(sessionID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("basket entries: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	vals, err := s.client.HMGet(ctx, s.qtyKey(sessionID), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("basket entries: %w", err)
	}

	out := make([]Entry, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for i, raw := range vals {
		str, ok := raw.(string)
		if !ok {
			continue
		}
		qty, err := strconv.Atoi(str)
		if err != nil || qty <= 0 {
			continue
		}
		id, err := uuid.Parse(ids[i])
		if err != nil {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, Entry{ProductID: id, Quantity: qty})
	}
	return out, nil
}
