package article

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const rssSourceName = "RSS"

// mapRSS reads a gofeed.Item encoded as JSON, which is what the provider
// client produces after parsing a feed document.
func mapRSS(raw json.RawMessage, env mapEnv) (Article, error) {
	var item gofeed.Item
	if err := decodeObject(raw, &item); err != nil {
		return Article{}, err
	}

	return Article{
		ID:          syntheticID(ProviderRSS, rssKey(&item), item.Link, env),
		Title:       firstNonEmpty(item.Title, DefaultTitle),
		Description: item.Description,
		Content:     firstNonEmpty(item.Content, item.Description),
		URL:         firstNonEmpty(item.Link, DefaultURL),
		ImageURL:    rssImage(&item),
		Source:      Source{ID: string(ProviderRSS), Name: firstNonEmpty(env.sourceName, rssSourceName)},
		Author:      rssAuthor(&item),
		PublishedAt: firstNonEmpty(rssPublished(&item), env.timestamp()),
		Categories:  withDefaultCategory(compact(item.Categories)),
		Tags:        []string{},
	}, nil
}

// rssKey returns the GUID only for items without a link. GUIDs are often
// short counters that repeat across feeds, while the link is what merging
// deduplicates on.
func rssKey(item *gofeed.Item) string {
	if link := strings.TrimSpace(item.Link); link != "" && link != DefaultURL {
		return ""
	}
	return item.GUID
}

func rssImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}
	return ""
}

func rssAuthor(item *gofeed.Item) string {
	for _, author := range item.Authors {
		if author != nil && strings.TrimSpace(author.Name) != "" {
			return author.Name
		}
	}
	if item.Author != nil {
		return firstNonEmpty(item.Author.Name, item.Author.Email)
	}
	return ""
}

func rssPublished(item *gofeed.Item) string {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC().Format(time.RFC3339)
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		return firstNonEmpty(item.Published, item.Updated)
	}
}
