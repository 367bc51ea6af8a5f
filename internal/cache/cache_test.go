package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mhxz759/noticias-br/internal/news"
)

func article(id, category string, publishedAt time.Time) news.Article {
	return news.Article{
		ID:          id,
		Title:       "Notícia " + id,
		PublishedAt: publishedAt,
		Category:    category,
		Tags:        []string{category},
	}
}

func TestSnapshotSortedNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	snap := NewSnapshot([]news.Article{
		article("a", "general", base),
		article("b", "sports", base.Add(2*time.Hour)),
		article("c", "general", base.Add(time.Hour)),
	})

	for i := 1; i < len(snap.Articles); i++ {
		if snap.Articles[i].PublishedAt.After(snap.Articles[i-1].PublishedAt) {
			t.Errorf("articles not sorted descending at index %d", i)
		}
	}
	if snap.Articles[0].ID != "b" {
		t.Errorf("expected newest article first, got %q", snap.Articles[0].ID)
	}
}

func TestSnapshotStableTies(t *testing.T) {
	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	snap := NewSnapshot([]news.Article{
		article("primeiro", "general", at),
		article("segundo", "general", at),
		article("terceiro", "general", at),
	})

	want := []string{"primeiro", "segundo", "terceiro"}
	for i, a := range snap.Articles {
		if a.ID != want[i] {
			t.Errorf("tie order broken at %d: expected %q, got %q", i, want[i], a.ID)
		}
	}
}

func TestSnapshotCategoryPartition(t *testing.T) {
	base := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	var input []news.Article
	categories := []string{"sports", "general", "business", "sports", "general"}
	for i, c := range categories {
		input = append(input, article(fmt.Sprintf("a%d", i), c, base.Add(time.Duration(i)*time.Minute)))
	}
	snap := NewSnapshot(input)

	total := 0
	seen := make(map[string]bool)
	for category, bucket := range snap.ByCategory {
		for _, a := range bucket {
			if a.Category != category {
				t.Errorf("article %q in wrong bucket %q", a.ID, category)
			}
			if seen[a.ID] {
				t.Errorf("article %q appears in more than one bucket", a.ID)
			}
			seen[a.ID] = true
			total++
		}
	}
	if total != len(snap.Articles) {
		t.Errorf("partition covers %d articles, snapshot has %d", total, len(snap.Articles))
	}

	// Bucket order must match the sorted list restricted to the category.
	var fromList []string
	for _, a := range snap.Articles {
		if a.Category == "sports" {
			fromList = append(fromList, a.ID)
		}
	}
	for i, a := range snap.ByCategory["sports"] {
		if a.ID != fromList[i] {
			t.Errorf("bucket order diverges at %d: %q vs %q", i, a.ID, fromList[i])
		}
	}
}

func TestStoreReadBeforeFirstReplace(t *testing.T) {
	if got := NewStore().Read(); got != nil {
		t.Errorf("expected nil before first replace, got %+v", got)
	}
}

func TestStoreReplaceVisible(t *testing.T) {
	store := NewStore()
	snap := NewSnapshot(nil)
	store.Replace(snap)
	if store.Read() != snap {
		t.Error("expected replaced snapshot to be visible")
	}
}

func TestStoreConcurrentReadReplace(t *testing.T) {
	store := NewStore()
	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				store.Replace(NewSnapshot([]news.Article{article("x", "general", at)}))
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if snap := store.Read(); snap != nil {
					// A published snapshot is always fully built.
					if len(snap.Articles) != 1 || snap.ByCategory["general"] == nil {
						t.Error("torn snapshot observed")
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}
