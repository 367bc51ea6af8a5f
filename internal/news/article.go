package news

import "time"

// Article is one normalized news item, immutable once produced.
// The JSON shape mirrors what the front end consumes.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	URL         string    `json:"url"`
	ImageURL    string    `json:"urlToImage,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
	Source      Source    `json:"source"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
}

// Source identifies where an article came from.
type Source struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}
