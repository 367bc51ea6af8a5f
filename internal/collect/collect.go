// Package collect runs one fetch cycle across every configured source,
// normalizing and categorizing what each one returns. A failing source
// contributes nothing; it never aborts the cycle.
package collect

import (
	"context"
	"log"
	"time"

	"github.com/mhxz759/noticias-br/internal/config"
	"github.com/mhxz759/noticias-br/internal/news"
)

// Result counts what one cycle produced per source.
type Result struct {
	Total   int
	Sources map[string]int
}

// Collector orchestrates article collection from the headlines API and
// all configured feeds.
type Collector struct {
	feeds       []config.Feed
	feedAdapter *FeedAdapter
	newsClient  *NewsAPIClient
	pause       time.Duration
}

// NewCollector creates a collector from the config. The enricher may be
// nil, which disables the image-scrape fallback.
func NewCollector(cfg *config.Config, enricher ImageExtractor) *Collector {
	c := &Collector{
		feeds:       cfg.Sources.Feeds,
		feedAdapter: NewFeedAdapter(enricher, cfg.Refresh.PerFeedLimit),
		pause:       cfg.Refresh.Politeness(),
	}
	if cfg.Sources.NewsAPI.Enabled {
		c.newsClient = NewNewsAPIClient(cfg.Sources.NewsAPI)
	}
	return c
}

// Collect runs one cycle: the headlines API first, then each feed in
// config order, with a politeness pause between requests to distinct
// origins so no site is hit faster than about once a second.
func (c *Collector) Collect(ctx context.Context) ([]news.Article, *Result) {
	r := &Result{Sources: make(map[string]int)}
	var all []news.Article

	if c.newsClient != nil && c.newsClient.IsConfigured() {
		log.Println("Fetching NewsAPI headlines...")
		articles := c.newsClient.TopHeadlines(ctx, "")
		if len(articles) > 0 {
			all = append(all, articles...)
			r.Sources["NewsAPI"] = len(articles)
		}
		if !c.pausePolite(ctx) {
			r.Total = len(all)
			return all, r
		}
	}

	for i, src := range c.feeds {
		if i > 0 && !c.pausePolite(ctx) {
			break
		}
		log.Printf("Fetching articles from %s...", src.Name)
		articles := c.feedAdapter.Fetch(ctx, src)
		if len(articles) > 0 {
			all = append(all, articles...)
			r.Sources[src.Name] = len(articles)
		}
	}

	r.Total = len(all)
	log.Printf("Cycle complete: %d articles from %d sources", r.Total, len(r.Sources))
	return all, r
}

// pausePolite waits the politeness delay, honoring cancellation.
func (c *Collector) pausePolite(ctx context.Context) bool {
	if c.pause <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-time.After(c.pause):
		return true
	case <-ctx.Done():
		return false
	}
}
