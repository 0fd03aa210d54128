package article

import (
	"fmt"
	"math"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

const (
	DefaultTrendingLimit = 10

	titleBudget       = 60
	descriptionBudget = 120
	ellipsis          = "..."
)

type ViewType string

const (
	ViewCard     ViewType = "card"
	ViewDetailed ViewType = "detailed"
	ViewMinimal  ViewType = "minimal"
)

// ParseViewType maps unknown values to ViewCard.
func ParseViewType(s string) ViewType {
	switch ViewType(s) {
	case ViewDetailed:
		return ViewDetailed
	case ViewMinimal:
		return ViewMinimal
	default:
		return ViewCard
	}
}

type TopicCount struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

// View is an article shaped for one presentation variant. Fields a variant
// does not show are left empty and omitted from JSON.
type View struct {
	Type        ViewType    `json:"view"`
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	Content     string      `json:"content,omitempty"`
	URL         string      `json:"url"`
	ImageURL    string      `json:"imageUrl,omitempty"`
	Source      string      `json:"source"`
	Author      string      `json:"author,omitempty"`
	PublishedAt string      `json:"publishedAt,omitempty"`
	TimeAgo     string      `json:"timeAgo"`
	ReadingTime int         `json:"readingTime,omitempty"`
	Categories  []string    `json:"categories,omitempty"`
	Tags        []string    `json:"tags,omitempty"`
	Normalized  *Normalized `json:"normalized,omitempty"`
}

func GroupByCategory(articles []Article) map[string][]Article {
	groups := make(map[string][]Article)
	for _, a := range articles {
		for _, category := range a.Categories {
			groups[category] = append(groups[category], a)
		}
	}
	return groups
}

// TrendingTopics counts keywords across articles and returns the most
// frequent ones. Ties keep the order in which keywords were first seen.
func TrendingTopics(articles []Article, limit int) []TopicCount {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, a := range articles {
		for _, keyword := range a.Normalized.Keywords {
			if _, ok := counts[keyword]; !ok {
				order = append(order, keyword)
			}
			counts[keyword]++
		}
	}

	topics := make([]TopicCount, 0, len(order))
	for _, keyword := range order {
		topics = append(topics, TopicCount{Topic: keyword, Count: counts[keyword]})
	}
	slices.SortStableFunc(topics, func(a, b TopicCount) int {
		return b.Count - a.Count
	})

	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

// QualityScore is a display heuristic in [0, 100].
func QualityScore(a Article) int {
	score := 50

	if a.ImageURL != "" {
		score += 10
	}
	if a.Author != "" {
		score += 10
	}

	switch length := utf8.RuneCountInString(a.Content); {
	case length > 500:
		score += 15
	case length > 200:
		score += 10
	case length > 50:
		score += 5
	}

	if len(a.Categories) > 1 {
		score += 5
	}
	if len(a.Tags) > 2 {
		score += 5
	}
	if math.Abs(a.Normalized.Sentiment) < 0.3 {
		score += 5
	}

	return min(100, max(0, score))
}

func FormatForView(a Article, view ViewType, now time.Time) View {
	v := View{
		Type:    view,
		ID:      a.ID,
		Title:   truncate(a.Title, titleBudget),
		URL:     a.URL,
		Source:  a.Source.Name,
		TimeAgo: TimeAgo(a.PublishedAt, now),
	}

	switch view {
	case ViewMinimal:
	case ViewDetailed:
		normalized := a.Normalized
		v.Title = a.Title
		v.Description = a.Description
		v.Content = a.Content
		v.ImageURL = a.ImageURL
		v.Author = a.Author
		v.PublishedAt = a.PublishedAt
		v.ReadingTime = a.Normalized.ReadingTime
		v.Categories = a.Categories
		v.Tags = a.Tags
		v.Normalized = &normalized
	default:
		v.Type = ViewCard
		v.Description = truncate(a.Description, descriptionBudget)
		v.ImageURL = a.ImageURL
		v.Author = a.Author
		v.ReadingTime = a.Normalized.ReadingTime
		v.Categories = a.Categories
	}

	return v
}

// truncate cuts s to budget display columns and appends an ellipsis when
// anything was removed. Wide runes count as two columns.
func truncate(s string, budget int) string {
	if runewidth.StringWidth(s) <= budget {
		return s
	}
	return runewidth.Truncate(s, budget, "") + ellipsis
}

// TimeAgo renders publishedAt relative to now.
func TimeAgo(publishedAt string, now time.Time) string {
	t, ok := parseTimestamp(publishedAt)
	if !ok {
		return "unknown date"
	}

	elapsed := now.Sub(t)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return plural(int(elapsed/time.Minute), "minute")
	case elapsed < 24*time.Hour:
		return plural(int(elapsed/time.Hour), "hour")
	case elapsed < 7*24*time.Hour:
		return plural(int(elapsed/(24*time.Hour)), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
