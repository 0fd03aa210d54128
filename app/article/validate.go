package article

import (
	"errors"
	"strings"
)

var (
	ErrMissingID          = errors.New("missing id")
	ErrMissingTitle       = errors.New("missing title")
	ErrMissingURL         = errors.New("missing url")
	ErrMissingSource      = errors.New("missing source id")
	ErrMissingPublishedAt = errors.New("missing publishedAt")
)

// Validate checks that required fields are present. All problems are
// reported at once; use errors.Is to test for a specific one.
func Validate(a Article) error {
	var errs []error

	if strings.TrimSpace(a.ID) == "" {
		errs = append(errs, ErrMissingID)
	}
	if strings.TrimSpace(a.Title) == "" {
		errs = append(errs, ErrMissingTitle)
	}
	if strings.TrimSpace(a.URL) == "" {
		errs = append(errs, ErrMissingURL)
	}
	if strings.TrimSpace(a.Source.ID) == "" {
		errs = append(errs, ErrMissingSource)
	}
	if strings.TrimSpace(a.PublishedAt) == "" {
		errs = append(errs, ErrMissingPublishedAt)
	}

	return errors.Join(errs...)
}

var angleBrackets = strings.NewReplacer("<", "", ">", "")

// ForDisplay reduces description and content to plain text and then
// sanitizes the article. Markup has to go before the bracket pass, which
// would otherwise leave tag names and entities in the text.
func ForDisplay(a Article) Article {
	a.Description = PlainText(a.Description)
	a.Content = PlainText(a.Content)
	return Sanitize(a)
}

// Sanitize removes angle brackets from free-text fields. Text between
// brackets is kept, so this is not an HTML sanitizer. Titles and categories
// left blank by the stripping fall back to their defaults.
func Sanitize(a Article) Article {
	a.Title = firstNonEmpty(angleBrackets.Replace(a.Title), DefaultTitle)
	a.Description = angleBrackets.Replace(a.Description)
	a.Content = angleBrackets.Replace(a.Content)
	a.Author = angleBrackets.Replace(a.Author)
	a.Source.Name = angleBrackets.Replace(a.Source.Name)
	a.Categories = withDefaultCategory(sanitizeAll(a.Categories))
	if a.Tags != nil {
		a.Tags = sanitizeAll(a.Tags)
	}
	return a
}

func sanitizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = angleBrackets.Replace(v)
	}
	return compact(out)
}
