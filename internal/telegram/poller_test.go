package telegram

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedSource returns batches in order, then cancels the poll.
type scriptedSource struct {
	mu      sync.Mutex
	batches []func() ([]Update, error)
	offsets []int64
	cancel  context.CancelFunc
}

func (s *scriptedSource) GetUpdates(ctx context.Context, offset int64, _ int) ([]Update, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offsets = append(s.offsets, offset)
	if len(s.batches) == 0 {
		s.cancel()
		return nil, ctx.Err()
	}
	next := s.batches[0]
	s.batches = s.batches[1:]
	return next()
}

func TestPoller_Run(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &scriptedSource{
		cancel: cancel,
		batches: []func() ([]Update, error){
			func() ([]Update, error) { return []Update{{UpdateID: 5}, {UpdateID: 6}}, nil },
			func() ([]Update, error) { return nil, errors.New("connection reset") },
			func() ([]Update, error) { return []Update{{UpdateID: 7}}, nil },
		},
	}

	var handled []int64
	poller := NewPoller(source, func(_ context.Context, u Update) {
		handled = append(handled, u.UpdateID)
	})
	poller.retryDelay = time.Millisecond

	err := poller.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []int64{5, 6, 7}, handled)
	require.Len(t, source.offsets, 4)
	assert.Equal(t, []int64{0, 7, 7, 8}, source.offsets)
}

func TestPoller_StopsWhileWaiting(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	source := &scriptedSource{
		cancel: cancel,
		batches: []func() ([]Update, error){
			func() ([]Update, error) {
				cancel()
				return nil, &APIError{Method: "getUpdates", Code: 429, RetryAfter: 60}
			},
		},
	}

	poller := NewPoller(source, func(context.Context, Update) {})

	done := make(chan error, 1)
	go func() { done <- poller.Run(ctx) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
}

// TestPoller_RecoversFromHandlerPanic verifies that one failing update does not stop polling.
//
// WHY: The offset lives in memory; a crash would make Telegram redeliver the same
// update after a restart and the bot would never get past it.
func TestPoller_RecoversFromHandlerPanic(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &scriptedSource{
		cancel: cancel,
		batches: []func() ([]Update, error){
			func() ([]Update, error) { return []Update{{UpdateID: 5}, {UpdateID: 6}}, nil },
			func() ([]Update, error) { return []Update{{UpdateID: 7}}, nil },
		},
	}

	var handled []int64
	poller := NewPoller(source, func(_ context.Context, u Update) {
		if u.UpdateID == 5 {
			panic("handler bug")
		}
		handled = append(handled, u.UpdateID)
	})

	var err error
	require.NotPanics(t, func() { err = poller.Run(ctx) })
	assert.ErrorIs(t, err, context.Canceled)

	assert.Equal(t, []int64{6, 7}, handled)
	assert.Equal(t, []int64{0, 7, 8}, source.offsets)
}
