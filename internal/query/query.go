// Package query answers read requests against the current cache
// snapshot: category filter, substring search, pagination, lookup by ID
// and health.
package query

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mhxz759/noticias-br/internal/cache"
	"github.com/mhxz759/noticias-br/internal/news"
)

// ErrNotFound reports an article ID absent from the current snapshot.
// An expected outcome, not a failure.
var ErrNotFound = errors.New("article not found")

const defaultPageSize = 20

// Freshener triggers a synchronous refresh when the current snapshot is
// absent or stale.
type Freshener interface {
	EnsureFresh(ctx context.Context) error
}

// Params selects and pages the article list. Zero values mean no
// category filter, no search, first page, default page size.
type Params struct {
	Category string
	Query    string
	Page     int
	PageSize int
}

// Page is one page of results. TotalResults counts the filtered set
// before pagination.
type Page struct {
	TotalResults int
	Articles     []news.Article
}

// Health reflects the snapshot state without forcing a refresh.
type Health struct {
	LastUpdate    *time.Time
	TotalArticles int
}

// Service reads one consistent snapshot per request.
type Service struct {
	store     *cache.Store
	freshener Freshener
}

// NewService creates a query service over the store, refreshing through
// the given freshener when the snapshot is unusable.
func NewService(store *cache.Store, freshener Freshener) *Service {
	return &Service{store: store, freshener: freshener}
}

// List returns one page of articles matching the params. A stale or
// absent snapshot is refreshed synchronously first. Unknown categories
// and out-of-range pages yield empty results, not errors.
func (s *Service) List(ctx context.Context, p Params) (*Page, error) {
	if err := s.freshener.EnsureFresh(ctx); err != nil {
		return nil, err
	}

	snap := s.store.Read()
	if snap == nil {
		return &Page{Articles: []news.Article{}}, nil
	}

	articles := snap.Articles
	if p.Category != "" {
		articles = snap.ByCategory[p.Category]
	}

	if p.Query != "" {
		q := strings.ToLower(p.Query)
		var filtered []news.Article
		for _, a := range articles {
			if strings.Contains(strings.ToLower(a.Title), q) ||
				strings.Contains(strings.ToLower(a.Description), q) ||
				strings.Contains(strings.ToLower(a.Content), q) {
				filtered = append(filtered, a)
			}
		}
		articles = filtered
	}

	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.PageSize
	if size <= 0 {
		size = defaultPageSize
	}

	start := (page - 1) * size
	end := start + size
	if start > len(articles) {
		start = len(articles)
	}
	if end > len(articles) {
		end = len(articles)
	}

	out := make([]news.Article, end-start)
	copy(out, articles[start:end])

	return &Page{TotalResults: len(articles), Articles: out}, nil
}

// Get returns the article with the given ID from the current snapshot,
// or ErrNotFound.
func (s *Service) Get(id string) (news.Article, error) {
	snap := s.store.Read()
	if snap != nil {
		for _, a := range snap.Articles {
			if a.ID == id {
				return a, nil
			}
		}
	}
	return news.Article{}, ErrNotFound
}

// Status reports snapshot health without triggering a refresh.
func (s *Service) Status() Health {
	snap := s.store.Read()
	if snap == nil {
		return Health{}
	}
	lastUpdate := snap.LastUpdate
	return Health{LastUpdate: &lastUpdate, TotalArticles: len(snap.Articles)}
}
