package collect

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/mhxz759/noticias-br/internal/categorize"
	"github.com/mhxz759/noticias-br/internal/config"
	"github.com/mhxz759/noticias-br/internal/news"
	"github.com/mhxz759/noticias-br/internal/normalize"
)

const defaultPerFeedLimit = 5

const feedTimeout = 10 * time.Second

// ImageExtractor is the slice of the content enricher the feed adapter
// uses when a feed entry carries no image of its own.
type ImageExtractor interface {
	ExtractImage(ctx context.Context, pageURL string) string
}

// FeedAdapter fetches one syndication feed and normalizes its entries.
type FeedAdapter struct {
	parser   *gofeed.Parser
	enricher ImageExtractor
	limit    int
}

// NewFeedAdapter creates a feed adapter. A non-positive limit selects
// the default per-feed entry cap.
func NewFeedAdapter(enricher ImageExtractor, limit int) *FeedAdapter {
	if limit <= 0 {
		limit = defaultPerFeedLimit
	}
	return &FeedAdapter{parser: gofeed.NewParser(), enricher: enricher, limit: limit}
}

// Fetch pulls the feed and returns up to the per-feed cap of normalized
// articles. A feed with zero entries is a warning, not a failure, and
// any fetch or parse error degrades to an empty result for this source
// only.
func (fa *FeedAdapter) Fetch(ctx context.Context, src config.Feed) []news.Article {
	ctx, cancel := context.WithTimeout(ctx, feedTimeout)
	defer cancel()

	feed, err := fa.parser.ParseURLWithContext(src.RSSURL, ctx)
	if err != nil {
		log.Printf("Failed to fetch feed from %s: %v", src.Name, err)
		return nil
	}
	if len(feed.Items) == 0 {
		log.Printf("No entries in feed from %s", src.Name)
		return nil
	}

	var articles []news.Article
	for _, item := range feed.Items {
		if len(articles) >= fa.limit {
			break
		}
		article := fa.normalizeItem(ctx, item, src)
		if article == nil {
			continue
		}
		articles = append(articles, *article)
	}
	return articles
}

// normalizeItem maps one feed entry to an Article. Malformed entries
// are skipped, never aborting their siblings.
func (fa *FeedAdapter) normalizeItem(ctx context.Context, item *gofeed.Item, src config.Feed) *news.Article {
	link := item.Link
	if link == "" {
		link = item.GUID
	}
	if link == "" {
		log.Printf("Skipping entry without link from %s", src.Name)
		return nil
	}

	title := normalize.CleanText(item.Title)
	if title == "" {
		log.Printf("Skipping entry without title from %s", src.Name)
		return nil
	}
	description := normalize.CleanText(item.Description)

	publishedAt := time.Now()
	if item.PublishedParsed != nil {
		publishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		publishedAt = *item.UpdatedParsed
	}

	imageURL := feedImage(item)
	if imageURL == "" && fa.enricher != nil {
		imageURL = fa.enricher.ExtractImage(ctx, link)
	}
	imageURL = normalize.ResolveImageURL(src.BaseURL, imageURL)

	// The feed description doubles as content in the refresh path; full
	// text stays an on-demand concern so a cycle never scrapes N pages.
	content := description

	category := categorize.Categorize(title, description, content)

	return &news.Article{
		ID:          normalize.ArticleID(src.Key, link),
		Title:       title,
		Description: description,
		Content:     content,
		URL:         link,
		ImageURL:    imageURL,
		PublishedAt: publishedAt,
		Source:      news.Source{Name: src.Name, ID: src.Key},
		Category:    category,
		Tags:        []string{category, strings.ToLower(src.Name)},
	}
}

// feedImage returns the image the feed itself supplies: the channel-level
// item image or a media RSS thumbnail/content extension.
func feedImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, name := range []string{"thumbnail", "content"} {
		for _, ext := range item.Extensions["media"][name] {
			if u := ext.Attrs["url"]; u != "" {
				return u
			}
		}
	}
	return ""
}
