// internal/adapters/out/redis/idempotency_registry_redis.go
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// pendingMarker is the value a reservation holds before an order id is
// bound to the key.
const pendingMarker = "__pending__"

// IdempotencyRegistryRedis implements usecase.IdempotencyRegistry on Redis.
//
// Key design:
// - key: idem:<checkout key>
// - value: pendingMarker while the attempt is in flight, then the order id
// - claims use SET NX so two concurrent submissions race on one winner
type IdempotencyRegistryRedis struct {
	Client *redis.Client
}

func NewIdempotencyRegistryRedis(client *redis.Client) *IdempotencyRegistryRedis {
	return &IdempotencyRegistryRedis{Client: client}
}

func idemKey(key string) string {
	return "idem:" + key
}

func (r *IdempotencyRegistryRedis) Reserve(ctx context.Context, key string, ttl time.Duration) (orderID string, inFlight bool, reserved bool, err error) {
	if r == nil || r.Client == nil {
		return "", false, false, errors.New("idempotency_registry_redis: redis client is nil")
	}
	k := strings.TrimSpace(key)
	if k == "" {
		return "", false, false, errors.New("idempotency_registry_redis: key is empty")
	}

	ok, err := r.Client.SetNX(ctx, idemKey(k), pendingMarker, ttl).Result()
	if err != nil {
		return "", false, false, err
	}
	if ok {
		return "", false, true, nil
	}

	// Lost the claim: either a finished attempt bound an order id, or
	// another attempt is still pending.
	val, err := r.Client.Get(ctx, idemKey(k)).Result()
	if err == redis.Nil {
		// The holder expired or released between SETNX and GET. Treat it
		// as in flight; the client retry will win the next claim.
		return "", true, false, nil
	}
	if err != nil {
		return "", false, false, err
	}
	if val == pendingMarker {
		return "", true, false, nil
	}
	return val, false, false, nil
}

func (r *IdempotencyRegistryRedis) Bind(ctx context.Context, key, orderID string, ttl time.Duration) error {
	if r == nil || r.Client == nil {
		return errors.New("idempotency_registry_redis: redis client is nil")
	}
	k := strings.TrimSpace(key)
	if k == "" || strings.TrimSpace(orderID) == "" {
		return errors.New("idempotency_registry_redis: key and orderID are required")
	}
	return r.Client.Set(ctx, idemKey(k), orderID, ttl).Err()
}

func (r *IdempotencyRegistryRedis) Release(ctx context.Context, key string) error {
	if r == nil || r.Client == nil {
		return errors.New("idempotency_registry_redis: redis client is nil")
	}
	k := strings.TrimSpace(key)
	if k == "" {
		return nil
	}
	return r.Client.Del(ctx, idemKey(k)).Err()
}
