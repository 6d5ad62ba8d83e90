package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeCatalog) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("refresh without deadline")
	}
	return f.err
}

func (f *fakeCatalog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePurger struct {
	maxAge time.Duration
	n      int64
	err    error
}

func (f *fakePurger) PurgeStaleStates(_ context.Context, maxAge time.Duration) (int64, error) {
	f.maxAge = maxAge
	return f.n, f.err
}

func TestNew(t *testing.T) {
	t.Run("registers both jobs", func(t *testing.T) {
		s, err := New(&fakeCatalog{}, &fakePurger{}, "@every 6h")
		require.NoError(t, err)
		assert.Len(t, s.cron.Entries(), 2)
	})

	t.Run("invalid schedule", func(t *testing.T) {
		_, err := New(&fakeCatalog{}, &fakePurger{}, "whenever")
		assert.Error(t, err)
	})
}

func TestScheduler_Jobs(t *testing.T) {
	t.Run("catalog refresh runs with a deadline", func(t *testing.T) {
		catalog := &fakeCatalog{}
		s, err := New(catalog, &fakePurger{}, "@every 6h")
		require.NoError(t, err)

		s.RefreshCatalog(context.Background())
		assert.Equal(t, 1, catalog.count())
	})

	t.Run("refresh failure is not fatal", func(t *testing.T) {
		catalog := &fakeCatalog{err: errors.New("catalog down")}
		s, err := New(catalog, &fakePurger{}, "@every 6h")
		require.NoError(t, err)

		s.RefreshCatalog(context.Background())
		s.RefreshCatalog(context.Background())
		assert.Equal(t, 2, catalog.count())
	})

	t.Run("purge uses the stale age", func(t *testing.T) {
		purger := &fakePurger{n: 3}
		s, err := New(&fakeCatalog{}, purger, "@every 6h")
		require.NoError(t, err)

		s.PurgeStates(context.Background())
		assert.Equal(t, 30*24*time.Hour, purger.maxAge)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	catalog := &fakeCatalog{}
	s, err := New(catalog, &fakePurger{}, "@every 1s")
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return catalog.count() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}
