package session

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore remembers logged-out token ids until their expiry, and per-profile
// cutoffs before which every token of the profile is void.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	RevokeSubject(ctx context.Context, subject string, before, until time.Time) error
	SubjectCutoff(ctx context.Context, subject string) (time.Time, bool, error)
}

type cutoff struct {
	before time.Time
	until  time.Time
}

type MemoryRevocations struct {
	mu       sync.Mutex
	items    map[string]time.Time
	subjects map[string]cutoff
	now      func() time.Time
}

func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{items: map[string]time.Time{}, subjects: map[string]cutoff{}, now: time.Now}
}

func (m *MemoryRevocations) RevokeSubject(_ context.Context, subject string, before, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	m.subjects[subject] = cutoff{before: before, until: until}
	return nil
}

func (m *MemoryRevocations) SubjectCutoff(_ context.Context, subject string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.subjects[subject]
	if !ok {
		return time.Time{}, false, nil
	}
	if !m.now().Before(c.until) {
		delete(m.subjects, subject)
		return time.Time{}, false, nil
	}
	return c.before, true, nil
}

func (m *MemoryRevocations) Revoke(_ context.Context, jti string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked()
	m.items[jti] = until
	return nil
}

func (m *MemoryRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	until, ok := m.items[jti]
	if !ok {
		return false, nil
	}
	if !m.now().Before(until) {
		delete(m.items, jti)
		return false, nil
	}
	return true, nil
}

func (m *MemoryRevocations) pruneLocked() {
	now := m.now()
	for k, until := range m.items {
		if !now.Before(until) {
			delete(m.items, k)
		}
	}
	for k, c := range m.subjects {
		if !now.Before(c.until) {
			delete(m.subjects, k)
		}
	}
}

const (
	revokedPrefix        = "session:revoked:"
	revokedSubjectPrefix = "session:revoked-subject:"
)

type RedisRevocations struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client, now: time.Now}
}

func (r *RedisRevocations) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedPrefix+jti, "1", ttl).Err()
}

func (r *RedisRevocations) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *RedisRevocations) RevokeSubject(ctx context.Context, subject string, before, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedSubjectPrefix+subject, strconv.FormatInt(before.Unix(), 10), ttl).Err()
}

func (r *RedisRevocations) SubjectCutoff(ctx context.Context, subject string) (time.Time, bool, error) {
	raw, err := r.client.Get(ctx, revokedSubjectPrefix+subject).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, err
	}
	return time.Unix(sec, 0), true, nil
}
