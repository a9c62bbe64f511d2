// internal/adapters/out/redis/session_store_redis.go
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	sessdom "agrimarket/internal/domain/session"
)

// SessionStoreRedis implements session.Store on Redis.
//
// Key design:
// - key: session:<token>
// - value: JSON-encoded session
// - TTL: per-entry, refreshed on Put
type SessionStoreRedis struct {
	Client *redis.Client
}

func NewSessionStoreRedis(client *redis.Client) *SessionStoreRedis {
	return &SessionStoreRedis{Client: client}
}

func sessionKey(token string) string {
	return "session:" + token
}

func (s *SessionStoreRedis) Put(ctx context.Context, sess sessdom.Session, ttl time.Duration) error {
	if s == nil || s.Client == nil {
		return errors.New("session_store_redis: redis client is nil")
	}
	if strings.TrimSpace(sess.Token) == "" {
		return errors.New("session_store_redis: token is empty")
	}
	if ttl <= 0 {
		ttl = sessdom.DefaultTTL
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionKey(sess.Token), raw, ttl).Err()
}

func (s *SessionStoreRedis) Get(ctx context.Context, token string) (sessdom.Session, error) {
	if s == nil || s.Client == nil {
		return sessdom.Session{}, errors.New("session_store_redis: redis client is nil")
	}
	tok := strings.TrimSpace(token)
	if tok == "" {
		return sessdom.Session{}, sessdom.ErrNotFound
	}

	raw, err := s.Client.Get(ctx, sessionKey(tok)).Result()
	if err == redis.Nil {
		return sessdom.Session{}, sessdom.ErrNotFound
	}
	if err != nil {
		return sessdom.Session{}, err
	}

	var sess sessdom.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return sessdom.Session{}, err
	}
	sess.Token = tok
	return sess, nil
}

func (s *SessionStoreRedis) Delete(ctx context.Context, token string) error {
	if s == nil || s.Client == nil {
		return errors.New("session_store_redis: redis client is nil")
	}
	tok := strings.TrimSpace(token)
	if tok == "" {
		return nil
	}
	return s.Client.Del(ctx, sessionKey(tok)).Err()
}
