// Package normalize cleans raw text and URLs from external sources into
// the shapes the rest of the pipeline expects.
package normalize

import (
	"fmt"
	"hash/fnv"
	"html"
	"net/url"
	"strings"
)

// CleanText strips HTML markup, decodes entities and collapses all
// whitespace runs (including non-breaking and zero-width spaces) to
// single spaces.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = stripTags(text)
	text = html.UnescapeString(text)
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "​", "")

	return strings.Join(strings.Fields(text), " ")
}

func stripTags(text string) string {
	var b strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
			b.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ResolveImageURL turns protocol-relative and root-relative image
// references into absolute URLs against the page they were found on.
// Already-absolute URLs pass through untouched.
func ResolveImageURL(pageURL, imageURL string) string {
	if imageURL == "" {
		return ""
	}
	if strings.HasPrefix(imageURL, "//") {
		return "https:" + imageURL
	}
	if strings.HasPrefix(imageURL, "/") {
		u, err := url.Parse(pageURL)
		if err != nil || u.Host == "" {
			return imageURL
		}
		return u.Scheme + "://" + u.Host + imageURL
	}
	return imageURL
}

// ArticleID derives a stable identifier from the source key and the
// canonical article URL. FNV-1a keeps the same article at the same ID
// across restarts and processes.
func ArticleID(sourceKey, articleURL string) string {
	h := fnv.New64a()
	h.Write([]byte(sourceKey))
	h.Write([]byte{'|'})
	h.Write([]byte(articleURL))
	return fmt.Sprintf("%s_%x", sourceKey, h.Sum64())
}
