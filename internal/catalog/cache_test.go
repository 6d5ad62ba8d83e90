package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/apperrors"
)

// pagedClient serves a fixed listing in pages.
type pagedClient struct {
	mu         sync.Mutex
	facilities []Facility
	err        error
	calls      int
}

func (c *pagedClient) ListFacilities(_ context.Context, page, perPage int) (FacilityPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return FacilityPage{}, c.err
	}
	start := (page - 1) * perPage
	if start >= len(c.facilities) {
		return FacilityPage{Total: len(c.facilities)}, nil
	}
	end := min(start+perPage, len(c.facilities))
	return FacilityPage{Facilities: c.facilities[start:end], Total: len(c.facilities)}, nil
}

func (c *pagedClient) FacilityDetails(context.Context, string) (*FacilityDetails, error) {
	return nil, apperrors.ErrFacilityNotFound
}

func (c *pagedClient) Clusters(context.Context, string) ([]Cluster, error) { return nil, nil }

func (c *pagedClient) Lots(context.Context, string) ([]Lot, error) { return nil, nil }

func makeFacilities(n int) []Facility {
	out := make([]Facility, n)
	for i := range out {
		out[i] = Facility{ID: FlexString(fmt.Sprint(i + 1)), Name: fmt.Sprintf("ЖК Солнечный %d", i+1)}
	}
	out[0].Name = "Морская Резиденция"
	return out
}

type failingStore struct{}

func (failingStore) Load(context.Context) ([]Facility, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingStore) Save(context.Context, []Facility) error {
	return errors.New("connection refused")
}

// TestFacilityCache_Refresh verifies pagination until the reported total.
func TestFacilityCache_Refresh(t *testing.T) {
	client := &pagedClient{facilities: makeFacilities(250)}
	store := NewMemoryStore()
	cache := NewFacilityCache(client, store)

	assert.False(t, cache.Loaded())
	require.NoError(t, cache.Refresh(context.Background()))

	assert.True(t, cache.Loaded())
	assert.Equal(t, 250, cache.Len())
	assert.Equal(t, 3, client.calls)

	saved, ok, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, saved, 250)

	t.Run("failure keeps the previous listing", func(t *testing.T) {
		client.err = apperrors.ErrCatalogUnavailable
		err := cache.Refresh(context.Background())
		assert.ErrorIs(t, err, apperrors.ErrCatalogUnavailable)
		assert.Equal(t, 250, cache.Len())
	})
}

func TestFacilityCache_Load(t *testing.T) {
	t.Run("uses the snapshot when present", func(t *testing.T) {
		store := NewMemoryStore()
		require.NoError(t, store.Save(context.Background(), makeFacilities(3)))
		client := &pagedClient{facilities: makeFacilities(10)}

		cache := NewFacilityCache(client, store)
		require.NoError(t, cache.Load(context.Background()))

		assert.Equal(t, 3, cache.Len())
		assert.Zero(t, client.calls)
	})

	t.Run("refreshes without a snapshot", func(t *testing.T) {
		client := &pagedClient{facilities: makeFacilities(10)}

		cache := NewFacilityCache(client, nil)
		require.NoError(t, cache.Load(context.Background()))

		assert.Equal(t, 10, cache.Len())
		assert.Equal(t, 1, client.calls)
	})

	t.Run("broken store falls back to the API", func(t *testing.T) {
		client := &pagedClient{facilities: makeFacilities(5)}

		cache := NewFacilityCache(client, failingStore{})
		require.NoError(t, cache.Load(context.Background()))

		assert.Equal(t, 5, cache.Len())
	})
}

// TestFacilityCache_Search verifies name search over the cached listing.
//
// WHY: Realtors type partial names in any case ("море"); an exact or case-sensitive
// match would make most developments unfindable.
func TestFacilityCache_Search(t *testing.T) {
	cache := NewFacilityCache(&pagedClient{facilities: makeFacilities(30)}, nil)

	_, err := cache.Search("море", 5)
	assert.ErrorIs(t, err, apperrors.ErrCatalogNotLoaded)

	require.NoError(t, cache.Refresh(context.Background()))

	t.Run("case-insensitive substring", func(t *testing.T) {
		res, err := cache.Search("МОРСКАЯ", 5)
		require.NoError(t, err)
		require.Len(t, res, 1)
		assert.Equal(t, "1", res[0].ID.String())
	})

	t.Run("limit caps results", func(t *testing.T) {
		res, err := cache.Search("солнечный", 5)
		require.NoError(t, err)
		assert.Len(t, res, 5)
	})

	t.Run("empty query returns the first facilities", func(t *testing.T) {
		res, err := cache.Search("  ", 0)
		require.NoError(t, err)
		require.Len(t, res, DefaultSearchLimit)
		assert.Equal(t, "1", res[0].ID.String())
	})

	t.Run("no match", func(t *testing.T) {
		res, err := cache.Search("горы", 5)
		require.NoError(t, err)
		assert.Empty(t, res)
	})

	t.Run("get by id", func(t *testing.T) {
		f, err := cache.Get("12")
		require.NoError(t, err)
		assert.Equal(t, "ЖК Солнечный 12", f.Name)

		_, err = cache.Get("999")
		assert.ErrorIs(t, err, apperrors.ErrFacilityNotFound)
	})
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	store := NewRedisStore(addr, 0)
	defer store.Close()
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	facilities := makeFacilities(3)
	facilities[0].MinTotalPrice = ptr(5_000_000.0)
	require.NoError(t, store.Save(ctx, facilities))

	loaded, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, facilities, loaded)
}
