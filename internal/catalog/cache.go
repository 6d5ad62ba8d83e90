package catalog

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
)

const (
	// pageSize is the page size used when walking the facility listing.
	pageSize = 100
	// DefaultSearchLimit caps search results when the caller passes no limit.
	DefaultSearchLimit = 20
)

// FacilityCache holds the full facility listing so name searches never hit the API.
// It is safe for concurrent use; Refresh swaps the listing atomically.
type FacilityCache struct {
	client Client
	store  Store

	mu         sync.RWMutex
	facilities []Facility
	loaded     bool

	refreshMu sync.Mutex
}

// NewFacilityCache creates an empty cache. A nil store keeps snapshots in memory.
func NewFacilityCache(client Client, store Store) *FacilityCache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &FacilityCache{
		client: client,
		store:  store,
	}
}

// Load fills the cache from the stored snapshot, falling back to a full refresh
// when no snapshot exists.
func (c *FacilityCache) Load(ctx context.Context) error {
	facilities, ok, err := c.store.Load(ctx)
	if err != nil {
		log.Printf("[catalog] snapshot unavailable, refreshing: %v", err)
	}
	if ok && len(facilities) > 0 {
		c.set(facilities)
		log.Printf("[catalog] loaded %d facilities from snapshot", len(facilities))
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh walks every page of the listing and replaces the cached facilities.
// Concurrent calls are serialized. On failure the previous listing is kept.
func (c *FacilityCache) Refresh(ctx context.Context) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	var all []Facility
	for page := 1; ; page++ {
		res, err := c.client.ListFacilities(ctx, page, pageSize)
		if err != nil {
			return fmt.Errorf("failed to refresh catalog: %w", err)
		}
		if len(res.Facilities) == 0 {
			break
		}
		all = append(all, res.Facilities...)
		if len(all) >= res.Total {
			break
		}
	}

	c.set(all)
	if err := c.store.Save(ctx, all); err != nil {
		log.Printf("[catalog] failed to save snapshot: %v", err)
	}
	log.Printf("[catalog] loaded %d facilities", len(all))
	return nil
}

func (c *FacilityCache) set(facilities []Facility) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.facilities = facilities
	c.loaded = true
}

// Loaded reports whether the cache holds a listing.
func (c *FacilityCache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Len returns the number of cached facilities.
func (c *FacilityCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.facilities)
}

// Search returns up to limit facilities whose name contains query, ignoring case.
// An empty query returns the first limit facilities.
func (c *FacilityCache) Search(query string, limit int) ([]Facility, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		return nil, apperrors.ErrCatalogNotLoaded
	}

	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	query = strings.ToLower(strings.TrimSpace(query))
	results := make([]Facility, 0, limit)
	for _, f := range c.facilities {
		if len(results) >= limit {
			break
		}
		if query == "" || strings.Contains(strings.ToLower(f.Name), query) {
			results = append(results, f)
		}
	}
	return results, nil
}

// Get returns a cached facility by ID.
func (c *FacilityCache) Get(facilityID string) (Facility, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.loaded {
		return Facility{}, apperrors.ErrCatalogNotLoaded
	}
	for _, f := range c.facilities {
		if f.ID.String() == facilityID {
			return f, nil
		}
	}
	return Facility{}, apperrors.ErrFacilityNotFound
}
