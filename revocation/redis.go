package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "rvk"

// ErrUnavailable wraps any Redis transport failure so callers can treat
// backend loss as an environment problem rather than a verification outcome.
var ErrUnavailable = errors.New("revocation backend unavailable")

// RedisStore is the multi-instance [Store]. Entries are plain keys whose
// value is the owning subject and whose TTL is the entry expiration, so
// Redis itself enforces the "expired means not revoked" rule. The
// per-subject index is a set keyed by subject; Sweep prunes set members
// whose entry key has already been evicted.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore returns a store over client. An empty prefix defaults to
// "rvk".
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) entryKey(jti string) string {
	return s.prefix + ":jti:" + jti
}

func (s *RedisStore) subjectKey(subject string) string {
	return s.prefix + ":sub:" + subject
}

// Revoke implements [Store]. An expiresAt already in the past is a no-op
// beyond clearing any stale entry, matching the memory store's "expired
// means not revoked" observable behavior.
func (s *RedisStore) Revoke(ctx context.Context, jti, subject string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		if err := s.client.Del(ctx, s.entryKey(jti)).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.entryKey(jti), subject, ttl)
	pipe.SAdd(ctx, s.subjectKey(subject), jti)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return s.extendExpiry(ctx, s.subjectKey(subject), ttl)
}

// RevokeAllForSubject implements [Store]. Every JTI still indexed under
// subject gets its entry rewritten with the longer TTL; members whose entry
// Redis already evicted are re-created, since index membership is what
// "currently tracked" means here.
func (s *RedisStore) RevokeAllForSubject(ctx context.Context, subject string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}

	jtis, err := s.client.SMembers(ctx, s.subjectKey(subject)).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	for _, jti := range jtis {
		cur, err := s.client.TTL(ctx, s.entryKey(jti)).Result()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if cur >= 0 && cur >= ttl {
			continue
		}
		if err := s.client.Set(ctx, s.entryKey(jti), subject, ttl).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return s.extendExpiry(ctx, s.subjectKey(subject), ttl)
}

// IsRevoked implements [Store].
func (s *RedisStore) IsRevoked(ctx context.Context, jti, subject string) (bool, error) {
	owner, err := s.client.Get(ctx, s.entryKey(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return owner == subject, nil
}

// Sweep implements [Store]. Redis evicts expired entries on its own, so the
// sweep's job is the index side: drop set members whose entry is gone and
// delete sets that end up empty. The return value counts pruned members.
func (s *RedisStore) Sweep(ctx context.Context) (int, error) {
	removed := 0

	iter := s.client.Scan(ctx, 0, s.prefix+":sub:*", 100).Iterator()
	for iter.Next(ctx) {
		setKey := iter.Val()

		jtis, err := s.client.SMembers(ctx, setKey).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		for _, jti := range jtis {
			exists, err := s.client.Exists(ctx, s.entryKey(jti)).Result()
			if err != nil {
				return removed, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
			if exists == 0 {
				if err := s.client.SRem(ctx, setKey, jti).Err(); err != nil {
					return removed, fmt.Errorf("%w: %v", ErrUnavailable, err)
				}
				removed++
			}
		}

		card, err := s.client.SCard(ctx, setKey).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if card == 0 {
			if err := s.client.Del(ctx, setKey).Err(); err != nil {
				return removed, fmt.Errorf("%w: %v", ErrUnavailable, err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return removed, nil
}

// Size implements [Store].
func (s *RedisStore) Size(ctx context.Context) (int, error) {
	count := 0

	iter := s.client.Scan(ctx, 0, s.prefix+":jti:*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return count, nil
}

// Clear implements [Store].
func (s *RedisStore) Clear(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, s.prefix+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// extendExpiry bumps key's TTL to ttl when that lengthens it. Keys without a
// TTL or missing entirely are given one.
func (s *RedisStore) extendExpiry(ctx context.Context, key string, ttl time.Duration) error {
	cur, err := s.client.TTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if cur >= 0 && cur >= ttl {
		return nil
	}
	if err := s.client.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}
