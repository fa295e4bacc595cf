package repository

import (
	"sync"
	"time"

	"github.com/siamcare/doctrackgo/internal/models"
)

// DocumentCache is a read-through cache of the full collection used by the
// file backend to avoid re-reading and re-parsing the store on every query.
// It is a process-local performance optimization only; every write path must
// invalidate it.
type DocumentCache interface {
	Get() ([]models.Document, bool)
	Set(docs []models.Document)
	Invalidate()
}

// TTLCache caches the collection for a fixed duration.
type TTLCache struct {
	mu        sync.Mutex
	docs      []models.Document
	expiresAt time.Time
	ttl       time.Duration
}

// NewTTLCache creates a cache with the given staleness bound.
func NewTTLCache(ttl time.Duration) *TTLCache {
	return &TTLCache{ttl: ttl}
}

func (c *TTLCache) Get() ([]models.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.docs == nil || time.Now().After(c.expiresAt) {
		return nil, false
	}
	return c.docs, true
}

func (c *TTLCache) Set(docs []models.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = docs
	c.expiresAt = time.Now().Add(c.ttl)
}

func (c *TTLCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = nil
}

// NopCache disables caching for contexts that need strict read consistency.
type NopCache struct{}

func (NopCache) Get() ([]models.Document, bool) { return nil, false }
func (NopCache) Set([]models.Document)          {}
func (NopCache) Invalidate()                    {}
