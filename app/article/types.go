package article

import (
	"time"
)

type Provider string

const (
	ProviderGuardian Provider = "guardian"
	ProviderNewsAPI  Provider = "newsapi"
	ProviderRSS      Provider = "rss"
)

const (
	DefaultTitle    = "Untitled"
	DefaultURL      = "#"
	DefaultCategory = "General"
)

type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	URL         string     `json:"url"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	Source      Source     `json:"source"`
	Author      string     `json:"author,omitempty"`
	PublishedAt string     `json:"publishedAt"` // RFC 3339 as delivered by the provider
	Categories  []string   `json:"categories"`
	Tags        []string   `json:"tags"`
	Normalized  Normalized `json:"normalized"`
}

type Source struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Normalized struct {
	ReadingTime int      `json:"readingTime"` // minutes
	Sentiment   float64  `json:"sentiment"`   // [-1, 1]
	Keywords    []string `json:"keywords"`
}

// Published parses PublishedAt. The second return is false when the value is
// empty or not a recognised timestamp.
func (a Article) Published() (time.Time, bool) {
	return parseTimestamp(a.PublishedAt)
}

// HasPlaceholderURL reports whether the article has no usable link.
func (a Article) HasPlaceholderURL() bool {
	return a.URL == "" || a.URL == DefaultURL
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.RFC1123Z,
	time.RFC1123,
	"2006-01-02",
}

func parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
