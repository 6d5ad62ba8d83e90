package telegram

import (
	"context"
	"errors"
	"log"
	"runtime/debug"
	"time"
)

// UpdateSource delivers updates by long polling.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error)
}

// HandlerFunc processes one update.
type HandlerFunc func(ctx context.Context, u Update)

// Poller fetches updates with getUpdates and hands them to a handler one at a time,
// in the order Telegram delivers them.
type Poller struct {
	source     UpdateSource
	handle     HandlerFunc
	timeout    int           // long polling timeout in seconds
	retryDelay time.Duration // pause after a failed request
}

// NewPoller creates a Poller with a 25 second long polling timeout.
func NewPoller(source UpdateSource, handle HandlerFunc) *Poller {
	return &Poller{
		source:     source,
		handle:     handle,
		timeout:    25,
		retryDelay: 3 * time.Second,
	}
}

// Run polls until ctx is cancelled. Failed requests are logged and retried.
func (p *Poller) Run(ctx context.Context) error {
	var offset int64

	for {
		updates, err := p.source.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			delay := p.retryDelay
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
				delay = time.Duration(apiErr.RetryAfter) * time.Second
			}
			log.Printf("[bot] getUpdates failed, retrying in %s: %v", delay, err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			p.dispatch(ctx, u)
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// dispatch runs the handler for one update. A panicking handler is logged and the
// update is skipped so it is not redelivered forever.
func (p *Poller) dispatch(ctx context.Context, u Update) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[bot] panic while handling update %d: %v\n%s", u.UpdateID, r, debug.Stack())
		}
	}()
	p.handle(ctx, u)
}
