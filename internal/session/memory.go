package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jellydator/ttlcache/v2"
)

// Memory keeps sessions in process. Useful for single-instance setups and
// tests; sessions are lost on restart
type Memory struct {
	c *ttlcache.Cache
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	c := ttlcache.NewCache()
	// Reading a token must not push its expiry back
	c.SkipTTLExtensionOnHit(true)

	return &Memory{c: c}
}

func (m *Memory) Put(_ context.Context, key, value string, ttl time.Duration) error {
	if err := m.c.SetWithTTL(key, value, ttl); err != nil {
		return fmt.Errorf("failed to set session key, %w", err)
	}

	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	v, err := m.c.Get(key)
	if err != nil {
		if errors.Is(err, ttlcache.ErrNotFound) {
			return "", ErrNotFound
		}

		return "", fmt.Errorf("failed to get session key, %w", err)
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("unexpected session value type %T", v)
	}

	return s, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	err := m.c.Remove(key)
	if err != nil && !errors.Is(err, ttlcache.ErrNotFound) {
		return fmt.Errorf("failed to delete session key, %w", err)
	}

	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}

func (m *Memory) Close() error {
	return m.c.Close()
}
