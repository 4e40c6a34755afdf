package memory

import (
	"bytes"
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache implements ports.ResultCache with a size-bounded, expiring LRU.
type Cache struct {
	lru *expirable.LRU[string, []byte]
}

// NewCache creates a cache holding at most size entries for ttl each.
// A size of zero is unbounded and a ttl of zero never expires.
func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false, nil
	}
	return bytes.Clone(v), true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte) error {
	c.lru.Add(key, bytes.Clone(value))
	return nil
}

func (c *Cache) Delete(_ context.Context, key string) error {
	c.lru.Remove(key)
	return nil
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	return c.lru.Len()
}
