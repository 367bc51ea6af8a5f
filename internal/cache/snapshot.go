// Package cache holds the aggregated news as immutable snapshots behind
// an atomically swapped store.
package cache

import (
	"sort"
	"time"

	"github.com/mhxz759/noticias-br/internal/news"
)

// Snapshot is one fully built view of the aggregated news: the merged
// article list newest-first plus its category partition. Snapshots are
// built once per refresh cycle and never mutated afterwards.
type Snapshot struct {
	Articles   []news.Article
	ByCategory map[string][]news.Article
	LastUpdate time.Time
}

// NewSnapshot sorts the merged articles by publication date descending
// (stable, so equal timestamps keep fetch order) and partitions them by
// category. Every article lands in exactly one bucket and bucket order
// matches the sorted list.
func NewSnapshot(articles []news.Article) *Snapshot {
	sorted := make([]news.Article, len(articles))
	copy(sorted, articles)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	byCategory := make(map[string][]news.Article)
	for _, a := range sorted {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}

	return &Snapshot{
		Articles:   sorted,
		ByCategory: byCategory,
		LastUpdate: time.Now(),
	}
}

// Age reports how long ago the snapshot was published.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.LastUpdate)
}
