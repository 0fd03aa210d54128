package article

import (
	"fmt"
	"log/slog"
	"strings"
)

// Filter keeps articles whose field contains one of Includes (when given)
// and none of Excludes. Matching is a case-insensitive substring test.
type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

var FilterFields = []string{"title", "description", "content", "author", "url", "categories", "tags", "keywords"}

type Filterer struct{}

func NewFilterer() *Filterer {
	return &Filterer{}
}

// Run returns the articles that pass every filter and the number dropped.
func (f *Filterer) Run(articles []Article, filters []Filter) ([]Article, int) {
	if len(filters) == 0 {
		return articles, 0
	}

	kept := make([]Article, 0, len(articles))
	for _, a := range articles {
		if reason, ok := f.applyFilters(a, filters); ok {
			slog.Debug("Article filtered", "id", a.ID, "reason", reason)
			continue
		}
		kept = append(kept, a)
	}

	return kept, len(articles) - len(kept)
}

func (f *Filterer) applyFilters(a Article, filters []Filter) (string, bool) {
	for _, filter := range filters {
		value := f.getFieldValue(a, filter.Field)

		for _, exclude := range filter.Excludes {
			if f.matchesFilter(value, exclude) {
				return fmt.Sprintf("excluded by %s filter: contains '%s'", filter.Field, exclude), true
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if f.matchesFilter(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return fmt.Sprintf("excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes), true
			}
		}
	}

	return "", false
}

func (f *Filterer) matchesFilter(value, pattern string) bool {
	return strings.Contains(lower(value), lower(pattern))
}

func (f *Filterer) getFieldValue(a Article, field string) string {
	switch field {
	case "title":
		return a.Title
	case "description":
		return a.Description
	case "content":
		return a.Content
	case "author":
		return a.Author
	case "url":
		return a.URL
	case "categories":
		return strings.Join(a.Categories, " ")
	case "tags":
		return strings.Join(a.Tags, " ")
	case "keywords":
		return strings.Join(a.Normalized.Keywords, " ")
	default:
		return ""
	}
}
