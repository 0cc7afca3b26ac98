package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory keeps encoded values so callers get a fresh copy on every read.
type Memory struct {
	c *gocache.Cache
}

func NewMemory(defaultTTL time.Duration) *Memory {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &Memory{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) GetJSON(_ context.Context, key string, out any) (bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

func (m *Memory) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	m.c.Set(key, b, ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

func (m *Memory) Counter(_ context.Context, key string) (int64, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return 0, nil
	}
	n, _ := v.(int64)
	return n, nil
}

// Incr keeps counters forever; only cached values expire.
func (m *Memory) Incr(_ context.Context, key string) (int64, error) {
	_ = m.c.Add(key, int64(0), gocache.NoExpiration)
	return m.c.IncrementInt64(key, 1)
}
