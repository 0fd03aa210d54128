package article

import (
	"strings"
	"testing"
	"time"
)

func TestGroupByCategory(t *testing.T) {
	articles := []Article{
		{ID: "1", Categories: []string{"World", "Politics"}},
		{ID: "2", Categories: []string{"World"}},
		{ID: "3", Categories: []string{"Sport"}},
	}

	groups := GroupByCategory(articles)

	if len(groups) != 3 {
		t.Fatalf("Expected 3 groups, got %d", len(groups))
	}
	if len(groups["World"]) != 2 {
		t.Errorf("Expected 2 articles in World, got %d", len(groups["World"]))
	}
	if len(groups["Politics"]) != 1 || groups["Politics"][0].ID != "1" {
		t.Errorf("Expected article 1 under Politics, got %v", groups["Politics"])
	}
}

func TestTrendingTopicsEmpty(t *testing.T) {
	topics := TrendingTopics(nil, 5)
	if topics == nil || len(topics) != 0 {
		t.Errorf("Expected empty non-nil slice, got %#v", topics)
	}
}

func TestTrendingTopicsRanking(t *testing.T) {
	articles := []Article{
		{Normalized: Normalized{Keywords: []string{"alpha", "beta", "alpha"}}},
	}

	topics := TrendingTopics(articles, 10)

	if len(topics) != 2 {
		t.Fatalf("Expected 2 topics, got %d", len(topics))
	}
	if topics[0].Topic != "alpha" || topics[0].Count != 2 {
		t.Errorf("Expected alpha with 2, got %+v", topics[0])
	}
	if topics[1].Topic != "beta" || topics[1].Count != 1 {
		t.Errorf("Expected beta with 1, got %+v", topics[1])
	}
}

func TestTrendingTopicsTiesKeepFirstSeen(t *testing.T) {
	articles := []Article{
		{Normalized: Normalized{Keywords: []string{"zeta", "gamma"}}},
		{Normalized: Normalized{Keywords: []string{"delta", "gamma", "zeta", "delta"}}},
		{Normalized: Normalized{Keywords: []string{"omega"}}},
	}

	topics := TrendingTopics(articles, 3)

	expected := []string{"zeta", "gamma", "delta"}
	if len(topics) != len(expected) {
		t.Fatalf("Expected %d topics, got %d", len(expected), len(topics))
	}
	for i, topic := range expected {
		if topics[i].Topic != topic {
			t.Errorf("Expected topic %d to be '%s', got '%s'", i, topic, topics[i].Topic)
		}
	}
}

func TestTrendingTopicsDefaultLimit(t *testing.T) {
	keywords := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		keywords = append(keywords, strings.Repeat("k", i+4))
	}

	topics := TrendingTopics([]Article{{Normalized: Normalized{Keywords: keywords}}}, 0)
	if len(topics) != DefaultTrendingLimit {
		t.Errorf("Expected %d topics, got %d", DefaultTrendingLimit, len(topics))
	}
}

func TestQualityScore(t *testing.T) {
	tests := []struct {
		name     string
		article  Article
		expected int
	}{
		{
			name:     "bare article",
			article:  Article{Normalized: Normalized{Sentiment: 0.5}},
			expected: 50,
		},
		{
			name:     "neutral sentiment bonus",
			article:  Article{},
			expected: 55,
		},
		{
			name: "everything",
			article: Article{
				ImageURL:   "https://img",
				Author:     "Someone",
				Content:    strings.Repeat("x", 501),
				Categories: []string{"A", "B"},
				Tags:       []string{"t1", "t2", "t3"},
			},
			expected: 100,
		},
		{
			name:     "medium content",
			article:  Article{Content: strings.Repeat("x", 201), Normalized: Normalized{Sentiment: -0.4}},
			expected: 60,
		},
		{
			name:     "short content counts runes",
			article:  Article{Content: strings.Repeat("é", 51), Normalized: Normalized{Sentiment: 1}},
			expected: 55,
		},
		{
			name:     "boundary 50 runes",
			article:  Article{Content: strings.Repeat("x", 50), Normalized: Normalized{Sentiment: 1}},
			expected: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QualityScore(tt.article)
			if got != tt.expected {
				t.Errorf("Expected score %d, got %d", tt.expected, got)
			}
			if again := QualityScore(tt.article); again != got {
				t.Errorf("Expected deterministic score, got %d then %d", got, again)
			}
		})
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		published string
		expected  string
	}{
		{"2024-05-20T11:59:30Z", "just now"},
		{"2024-05-20T13:00:00Z", "just now"},
		{"2024-05-20T11:59:00Z", "1 minute ago"},
		{"2024-05-20T11:15:00Z", "45 minutes ago"},
		{"2024-05-20T11:00:00Z", "1 hour ago"},
		{"2024-05-20T02:00:00Z", "10 hours ago"},
		{"2024-05-19T12:00:00Z", "1 day ago"},
		{"2024-05-14T12:00:00Z", "6 days ago"},
		{"2024-05-13T12:00:00Z", "May 13, 2024"},
		{"not a date", "unknown date"},
		{"", "unknown date"},
	}

	for _, tt := range tests {
		t.Run(tt.published, func(t *testing.T) {
			if got := TimeAgo(tt.published, now); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestFormatForViewCard(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	a := Article{
		ID:          "guardian_1",
		Title:       strings.Repeat("t", 70),
		Description: strings.Repeat("d", 130),
		Content:     "full content",
		URL:         "https://g/1",
		ImageURL:    "https://g/1.jpg",
		Source:      Source{ID: "guardian", Name: "The Guardian"},
		PublishedAt: "2024-05-20T10:00:00Z",
		Categories:  []string{"World"},
		Normalized:  Normalized{ReadingTime: 3},
	}

	v := FormatForView(a, ViewCard, now)

	if v.Type != ViewCard {
		t.Errorf("Expected card view, got '%s'", v.Type)
	}
	if v.Title != strings.Repeat("t", 60)+"..." {
		t.Errorf("Expected truncated title, got '%s'", v.Title)
	}
	if v.Description != strings.Repeat("d", 120)+"..." {
		t.Errorf("Expected truncated description, got '%s'", v.Description)
	}
	if v.Content != "" {
		t.Errorf("Expected no content in card view, got '%s'", v.Content)
	}
	if v.TimeAgo != "2 hours ago" {
		t.Errorf("Expected '2 hours ago', got '%s'", v.TimeAgo)
	}
	if v.Source != "The Guardian" || v.ReadingTime != 3 {
		t.Errorf("Unexpected card fields: %+v", v)
	}
}

func TestFormatForViewDetailedAndMinimal(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	a := Article{
		ID:          "newsapi_1",
		Title:       strings.Repeat("t", 70),
		Description: "short",
		Content:     "full content",
		URL:         "https://n/1",
		Author:      "Reporter",
		Source:      Source{ID: "newsapi", Name: "NewsAPI"},
		PublishedAt: "2024-05-20T11:58:00Z",
		Tags:        []string{"a"},
		Normalized:  Normalized{Keywords: []string{"short"}},
	}

	detailed := FormatForView(a, ViewDetailed, now)
	if detailed.Title != a.Title {
		t.Errorf("Expected full title in detailed view, got '%s'", detailed.Title)
	}
	if detailed.Content != "full content" || detailed.Author != "Reporter" {
		t.Errorf("Expected content and author in detailed view, got %+v", detailed)
	}
	if detailed.Normalized == nil || len(detailed.Normalized.Keywords) != 1 {
		t.Errorf("Expected normalized data in detailed view, got %+v", detailed.Normalized)
	}

	minimal := FormatForView(a, ViewMinimal, now)
	if minimal.Description != "" || minimal.Author != "" {
		t.Errorf("Expected minimal view to omit description and author, got %+v", minimal)
	}
	if minimal.TimeAgo != "2 minutes ago" {
		t.Errorf("Expected '2 minutes ago', got '%s'", minimal.TimeAgo)
	}
}

func TestFormatForViewUnknownFallsBackToCard(t *testing.T) {
	v := FormatForView(Article{Title: "x", Description: "y"}, ViewType("poster"), time.Now())
	if v.Type != ViewCard {
		t.Errorf("Expected card view, got '%s'", v.Type)
	}
	if v.Description != "y" {
		t.Errorf("Expected description in card view, got '%s'", v.Description)
	}
}

func TestTruncateWideRunes(t *testing.T) {
	title := strings.Repeat("日", 40)
	got := truncate(title, titleBudget)

	if !strings.HasSuffix(got, ellipsis) {
		t.Fatalf("Expected ellipsis, got '%s'", got)
	}
	if strings.Count(got, "日") != 30 {
		t.Errorf("Expected 30 wide runes in 60 columns, got %d", strings.Count(got, "日"))
	}
}

func TestParseViewType(t *testing.T) {
	if ParseViewType("detailed") != ViewDetailed || ParseViewType("minimal") != ViewMinimal {
		t.Error("Expected known view types to parse")
	}
	if ParseViewType("") != ViewCard || ParseViewType("grid") != ViewCard {
		t.Error("Expected unknown view types to fall back to card")
	}
}
