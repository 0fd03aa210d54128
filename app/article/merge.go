package article

import (
	"slices"
	"time"
)

// MergeAndDeduplicate flattens batches, keeps the first article for each
// dedup key and orders the result newest first. Articles without a parseable
// publishedAt sort last in their input order.
func MergeAndDeduplicate(batches [][]Article) []Article {
	total := 0
	for _, batch := range batches {
		total += len(batch)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]Article, 0, total)
	for _, batch := range batches {
		for _, a := range batch {
			key := DedupKey(a)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, a)
		}
	}

	SortByPublished(merged)
	return merged
}

// DedupKey is the URL, or title and source id for placeholder links.
func DedupKey(a Article) string {
	if a.HasPlaceholderURL() {
		return a.Title + "|" + a.Source.ID
	}
	return a.URL
}

// SortByPublished orders articles newest first. The sort is stable.
func SortByPublished(articles []Article) {
	slices.SortStableFunc(articles, func(a, b Article) int {
		return publishedOrZero(b).Compare(publishedOrZero(a))
	})
}

func publishedOrZero(a Article) time.Time {
	t, ok := a.Published()
	if !ok {
		return time.Time{}
	}
	return t
}
