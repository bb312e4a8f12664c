package repository

import (
	"context"

	"github.com/patrickmn/go-cache"
)

// KVMemory keeps values in process memory. Nothing survives a restart.
type KVMemory struct {
	c *cache.Cache
}

func NewKVMemory() *KVMemory {
	return &KVMemory{c: cache.New(cache.NoExpiration, 0)}
}

var _ KVStore = (*KVMemory)(nil)

func (m *KVMemory) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return "", false, nil
	}
	s, _ := v.(string)
	return s, true, nil
}

func (m *KVMemory) Set(_ context.Context, key, value string) error {
	m.c.Set(key, value, cache.NoExpiration)
	return nil
}
