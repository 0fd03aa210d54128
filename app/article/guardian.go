package article

import (
	"encoding/json"
	"strings"
)

const guardianSourceName = "The Guardian"

type guardianArticle struct {
	ID                 string         `json:"id"`
	WebTitle           string         `json:"webTitle"`
	WebURL             string         `json:"webUrl"`
	WebPublicationDate string         `json:"webPublicationDate"`
	SectionName        string         `json:"sectionName"`
	PillarName         string         `json:"pillarName"`
	Fields             guardianFields `json:"fields"`
	Tags               []guardianTag  `json:"tags"`
}

type guardianFields struct {
	Headline  string `json:"headline"`
	TrailText string `json:"trailText"`
	Body      string `json:"body"`
	Thumbnail string `json:"thumbnail"`
	Byline    string `json:"byline"`
}

type guardianTag struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	WebTitle string `json:"webTitle"`
}

func mapGuardian(raw json.RawMessage, env mapEnv) (Article, error) {
	var g guardianArticle
	if err := decodeObject(raw, &g); err != nil {
		return Article{}, err
	}

	description := g.Fields.TrailText

	return Article{
		ID:          syntheticID(ProviderGuardian, g.ID, g.WebURL, env),
		Title:       firstNonEmpty(g.WebTitle, g.Fields.Headline, DefaultTitle),
		Description: description,
		Content:     firstNonEmpty(g.Fields.Body, description),
		URL:         firstNonEmpty(g.WebURL, DefaultURL),
		ImageURL:    g.Fields.Thumbnail,
		Source:      Source{ID: string(ProviderGuardian), Name: firstNonEmpty(env.sourceName, guardianSourceName)},
		Author:      firstNonEmpty(g.contributor(), g.Fields.Byline),
		PublishedAt: firstNonEmpty(g.WebPublicationDate, env.timestamp()),
		Categories:  withDefaultCategory(compact([]string{g.SectionName, g.PillarName})),
		Tags:        g.labels(),
	}, nil
}

func (g guardianArticle) contributor() string {
	for _, tag := range g.Tags {
		if tag.Type == "contributor" && strings.TrimSpace(tag.WebTitle) != "" {
			return tag.WebTitle
		}
	}
	return ""
}

func (g guardianArticle) labels() []string {
	labels := make([]string, 0, len(g.Tags))
	for _, tag := range g.Tags {
		if tag.Type == "contributor" {
			continue
		}
		labels = append(labels, tag.WebTitle)
	}
	return compact(labels)
}
