package article

import (
	"encoding/json"
)

const newsAPISourceName = "NewsAPI"

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// NewsAPI carries no taxonomy, so every article lands in the default category.
func mapNewsAPI(raw json.RawMessage, env mapEnv) (Article, error) {
	var n newsAPIArticle
	if err := decodeObject(raw, &n); err != nil {
		return Article{}, err
	}

	return Article{
		ID:          syntheticID(ProviderNewsAPI, "", n.URL, env),
		Title:       firstNonEmpty(n.Title, DefaultTitle),
		Description: n.Description,
		Content:     firstNonEmpty(n.Content, n.Description),
		URL:         firstNonEmpty(n.URL, DefaultURL),
		ImageURL:    n.URLToImage,
		Source:      Source{ID: string(ProviderNewsAPI), Name: firstNonEmpty(n.Source.Name, env.sourceName, newsAPISourceName)},
		Author:      n.Author,
		PublishedAt: firstNonEmpty(n.PublishedAt, env.timestamp()),
		Categories:  []string{DefaultCategory},
		Tags:        []string{},
	}, nil
}
