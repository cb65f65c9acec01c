package xredis

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type redisValue struct {
	value    string
	expireAt time.Time
}

// memoryClient keeps keys in process memory. It serves single-process
// deployments running without a redis server.
type memoryClient struct {
	mu     sync.Mutex
	values map[string]redisValue
}

func NewMemoryClient() *memoryClient {
	return &memoryClient{values: map[string]redisValue{}}
}

func (m *memoryClient) get(key string) (string, bool) {
	v, ok := m.values[key]
	if !ok {
		return "", false
	}

	if !v.expireAt.IsZero() && time.Now().After(v.expireAt) {
		delete(m.values, key)
		return "", false
	}

	return v.value, true
}

func (m *memoryClient) set(key, value string, ttl time.Duration) {
	v := redisValue{value: value}
	if ttl > 0 {
		v.expireAt = time.Now().Add(ttl)
	}
	m.values[key] = v
}

func (m *memoryClient) Exist(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.get(key)
	return ok, nil
}

func (m *memoryClient) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memoryClient) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.get(key); ok {
		return false, nil
	}

	m.set(key, value, ttl)
	return true, nil
}

func (m *memoryClient) DelIfEqual(ctx context.Context, key, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.get(key); !ok || v != value {
		return false, nil
	}

	delete(m.values, key)
	return true, nil
}

func (m *memoryClient) ExpireIfEqual(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if v, ok := m.get(key); !ok || v != value {
		return false, nil
	}

	m.set(key, value, ttl)
	return true, nil
}

func (m *memoryClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.set(key, value, ttl)
	return nil
}

func (m *memoryClient) SetObj(ctx context.Context, key string, obj any, ttl time.Duration) error {
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	return m.Set(ctx, key, string(b), ttl)
}

func (m *memoryClient) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.get(key)
	if !ok {
		return "", ErrNotFound
	}

	return v, nil
}

func (m *memoryClient) GetObj(ctx context.Context, key string, v any) error {
	s, err := m.Get(ctx, key)
	if err != nil {
		return err
	}

	return json.Unmarshal([]byte(s), v)
}
