// Package enrich scrapes article pages for lead images and full text.
// Everything here is best-effort: any failure degrades to an empty
// result, never an error the caller has to handle.
package enrich

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/mhxz759/noticias-br/internal/normalize"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const minReadabilityChars = 100

// Image scrapes run during feed collection, so they get a tighter
// deadline than full-text extraction.
const imageTimeout = 5 * time.Second

// Per-source paragraph selectors, tried in order before the generic
// ones. Keys match the configured source display names.
var siteSelectors = map[string][]string{
	"G1": {
		".content-text__container p",
		".mc-article-body p",
		"article p",
	},
	"UOL Notícias": {
		".text p",
		".content-text p",
		"article p",
	},
	"Folha de S.Paulo": {
		".c-news__body p",
		"article p",
		".content p",
	},
	"O Estado de S. Paulo": {
		".content p",
		"article p",
		".news-content p",
	},
	"CNN Brasil": {
		".single-content p",
		"article p",
		".post-content p",
	},
}

var genericSelectors = []string{
	"article p",
	".content p",
	".post-content p",
	".article-content p",
	".news-content p",
	"main p",
}

var imageSelectors = []string{
	`meta[property="og:image"]`,
	`meta[name="twitter:image"]`,
	"article img",
	".content img",
	`img[class*="featured"]`,
	`img[class*="main"]`,
}

// Enricher fetches article pages and extracts images and body text.
type Enricher struct {
	client *http.Client
}

// New creates an Enricher. A zero timeout selects a 10 second default.
func New(timeout time.Duration) *Enricher {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Enricher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// ExtractImage returns the main image URL of an article page, or empty
// when none is found.
func (e *Enricher) ExtractImage(ctx context.Context, pageURL string) string {
	ctx, cancel := context.WithTimeout(ctx, imageTimeout)
	defer cancel()

	body, err := e.get(ctx, pageURL)
	if err != nil {
		log.Printf("Failed to fetch %s for image: %v", pageURL, err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	for _, selector := range imageSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		imageURL, ok := sel.Attr("content")
		if !ok {
			imageURL, ok = sel.Attr("src")
		}
		if ok && imageURL != "" {
			return normalize.ResolveImageURL(pageURL, imageURL)
		}
	}
	return ""
}

// ExtractFullText returns the body text of an article page. Site
// selectors for the named source are tried first, then generic ones,
// then readability as a last resort. Returns empty when nothing usable
// is extracted.
func (e *Enricher) ExtractFullText(ctx context.Context, pageURL, sourceName string) string {
	body, err := e.get(ctx, pageURL)
	if err != nil {
		log.Printf("Failed to fetch %s for full text: %v", pageURL, err)
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var paragraphs *goquery.Selection
	for _, selector := range siteSelectors[sourceName] {
		if sel := doc.Find(selector); sel.Length() > 0 {
			paragraphs = sel
			break
		}
	}
	if paragraphs == nil {
		for _, selector := range genericSelectors {
			if sel := doc.Find(selector); sel.Length() > 2 {
				paragraphs = sel
				break
			}
		}
	}

	if paragraphs != nil {
		var parts []string
		paragraphs.Each(func(_ int, p *goquery.Selection) {
			text := normalize.CleanText(p.Text())
			if len(text) > 50 {
				parts = append(parts, text)
			}
		})
		if len(parts) > 0 {
			return strings.Join(parts, " ")
		}
	}

	return e.readabilityFallback(body, pageURL)
}

func (e *Enricher) readabilityFallback(body []byte, pageURL string) string {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(bytes.NewReader(body), parsedURL)
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(article.TextContent)
	if len(text) > minReadabilityChars {
		return text
	}
	return ""
}

func (e *Enricher) get(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
