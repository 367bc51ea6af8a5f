// Package refresh owns the cache refresh lifecycle: a periodic
// background loop plus synchronous on-demand refreshes, both funneled
// through one single-flight cycle.
package refresh

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mhxz759/noticias-br/internal/cache"
	"github.com/mhxz759/noticias-br/internal/collect"
	"github.com/mhxz759/noticias-br/internal/config"
	"github.com/mhxz759/noticias-br/internal/news"
)

// Collector runs one fetch cycle across all sources.
type Collector interface {
	Collect(ctx context.Context) ([]news.Article, *collect.Result)
}

// Scheduler drives refresh cycles and publishes their snapshots.
type Scheduler struct {
	collector Collector
	store     *cache.Store

	interval   time.Duration
	errorRetry time.Duration
	staleness  time.Duration

	group singleflight.Group
}

// NewScheduler creates a scheduler over the given collector and store.
func NewScheduler(collector Collector, store *cache.Store, cfg config.Refresh) *Scheduler {
	return &Scheduler{
		collector:  collector,
		store:      store,
		interval:   cfg.Interval(),
		errorRetry: cfg.ErrorRetry(),
		staleness:  cfg.Staleness(),
	}
}

// Run loops until ctx is canceled: one refresh cycle, then the regular
// interval on success or the shorter retry interval on error. The loop
// itself never exits on a failed cycle.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		wait := s.interval
		if err := s.Refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("Refresh cycle failed: %v", err)
			wait = s.errorRetry
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}

// Refresh runs one cycle and publishes the resulting snapshot. A call
// arriving while a cycle is already in flight joins that cycle and
// returns when it publishes, so concurrent triggers cost one set of
// external requests.
func (s *Scheduler) Refresh(ctx context.Context) error {
	_, err, _ := s.group.Do("refresh", func() (any, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log.Println("Starting news cache refresh...")
		articles, _ := s.collector.Collect(ctx)
		if err := ctx.Err(); err != nil {
			// Canceled mid-cycle: keep the previous snapshot.
			return nil, err
		}

		snap := cache.NewSnapshot(articles)
		s.store.Replace(snap)
		log.Printf("Cache updated with %d articles", len(snap.Articles))
		return nil, nil
	})
	return err
}

// EnsureFresh refreshes synchronously when no usable snapshot exists:
// none published yet, the current one holds no articles, or it is older
// than the staleness threshold. A fresh non-empty snapshot makes this a
// cheap no-op.
func (s *Scheduler) EnsureFresh(ctx context.Context) error {
	snap := s.store.Read()
	if snap != nil && len(snap.Articles) > 0 && snap.Age() <= s.staleness {
		return nil
	}
	return s.Refresh(ctx)
}
