// Package scheduler runs the periodic maintenance jobs of the bot.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StaleStateAge is how long an untouched conversation state is kept.
const StaleStateAge = 30 * 24 * time.Hour

// CatalogRefresher reloads the facility listing.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// StatePurger removes old conversation states.
type StatePurger interface {
	PurgeStaleStates(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Scheduler runs the catalog refresh and the stale state purge on cron schedules.
type Scheduler struct {
	cron    *cron.Cron
	catalog CatalogRefresher
	states  StatePurger
	timeout time.Duration // upper bound for one job run
}

// New creates a Scheduler. refreshSpec is a cron spec such as "@every 6h";
// the purge runs daily.
func New(catalog CatalogRefresher, states StatePurger, refreshSpec string) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger))),
		catalog: catalog,
		states:  states,
		timeout: 10 * time.Minute,
	}

	if _, err := s.cron.AddFunc(refreshSpec, func() { s.RefreshCatalog(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid catalog refresh schedule %q: %w", refreshSpec, err)
	}
	if _, err := s.cron.AddFunc("@daily", func() { s.PurgeStates(context.Background()) }); err != nil {
		return nil, fmt.Errorf("failed to schedule state purge: %w", err)
	}

	return s, nil
}

// Start runs the jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("[scheduler] started with %d jobs", len(s.cron.Entries()))
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Println("[scheduler] stop timed out with jobs still running")
	}
}

// RefreshCatalog reloads the facility listing. Failures are logged; the previous
// listing stays in use.
func (s *Scheduler) RefreshCatalog(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.catalog.Refresh(ctx); err != nil {
		log.Printf("[scheduler] catalog refresh failed: %v", err)
		return
	}
	log.Printf("[scheduler] catalog refreshed in %s", time.Since(start).Round(time.Millisecond))
}

// PurgeStates removes conversation states untouched for StaleStateAge.
func (s *Scheduler) PurgeStates(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.states.PurgeStaleStates(ctx, StaleStateAge)
	if err != nil {
		log.Printf("[scheduler] state purge failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[scheduler] purged %d stale conversation states", n)
	}
}
