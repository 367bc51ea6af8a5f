package collect

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mhxz759/noticias-br/internal/categorize"
	"github.com/mhxz759/noticias-br/internal/config"
	"github.com/mhxz759/noticias-br/internal/news"
	"github.com/mhxz759/noticias-br/internal/normalize"
)

const newsAPIBaseURL = "https://newsapi.org/v2"

const newsAPISourceKey = "newsapi"

// NewsAPIClient fetches top headlines from NewsAPI. Without a credential
// in the configured env var the client stays disabled: every call
// returns empty, never an error.
type NewsAPIClient struct {
	apiKey   string
	language string
	country  string
	pageSize int
	baseURL  string
	client   *http.Client
}

// NewNewsAPIClient creates a client reading its credential from the
// env var named in the config.
func NewNewsAPIClient(cfg config.NewsAPIConfig) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:   os.Getenv(cfg.APIKeyEnv),
		language: cfg.Language,
		country:  cfg.Country,
		pageSize: cfg.PageSize,
		baseURL:  newsAPIBaseURL,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// IsConfigured reports whether the API credential is available.
func (c *NewsAPIClient) IsConfigured() bool {
	return c.apiKey != ""
}

// TopHeadlines fetches current top headlines, optionally scoped to one
// category. Any failure is logged and yields an empty result so a broken
// headlines call never takes the refresh cycle down with it.
func (c *NewsAPIClient) TopHeadlines(ctx context.Context, category string) []news.Article {
	if c.apiKey == "" {
		return nil
	}

	params := url.Values{}
	if c.language != "" {
		params.Set("language", c.language)
	}
	if c.country != "" {
		params.Set("country", c.country)
	}
	if c.pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(c.pageSize))
	}
	if category != "" {
		params.Set("category", category)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/top-headlines?"+params.Encode(), nil)
	if err != nil {
		log.Printf("NewsAPI request error: %v", err)
		return nil
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("NewsAPI error: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("NewsAPI HTTP error: %d", resp.StatusCode)
		return nil
	}

	var result struct {
		Status   string `json:"status"`
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Content     string `json:"content"`
			URL         string `json:"url"`
			URLToImage  string `json:"urlToImage"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Printf("NewsAPI decode error: %v", err)
		return nil
	}
	if result.Status != "ok" {
		log.Printf("NewsAPI status: %s", result.Status)
		return nil
	}

	cat := category
	if cat == "" {
		cat = categorize.General
	}

	var articles []news.Article
	for _, raw := range result.Articles {
		if raw.URL == "" || raw.Title == "" || raw.Title == "[Removed]" {
			continue
		}

		content := raw.Content
		if content == "" {
			content = raw.Description
		}
		// NewsAPI truncates free-tier content with a "[+N chars]" marker.
		if i := strings.Index(content, "[+"); i >= 0 {
			content = content[:i]
		}
		content = strings.TrimSpace(content)

		publishedAt := time.Now()
		if t, err := time.Parse(time.RFC3339, raw.PublishedAt); err == nil {
			publishedAt = t
		}

		sourceName := "NewsAPI"
		if raw.Source.Name != "" {
			sourceName = raw.Source.Name
		}

		articles = append(articles, news.Article{
			ID:          normalize.ArticleID(newsAPISourceKey, raw.URL),
			Title:       strings.TrimSpace(raw.Title),
			Description: raw.Description,
			Content:     content,
			URL:         raw.URL,
			ImageURL:    raw.URLToImage,
			PublishedAt: publishedAt,
			Source:      news.Source{Name: sourceName, ID: newsAPISourceKey},
			Category:    cat,
			Tags:        []string{cat, newsAPISourceKey},
		})
	}

	log.Printf("Fetched %d headlines from NewsAPI", len(articles))
	return articles
}
