package store

import (
	"slices"
	"sync"
	"time"

	"github.com/lysyi3m/nexus-news/app/article"
)

// Batch is the latest normalized result of one provider.
type Batch struct {
	Provider  string
	Articles  []article.Article
	Filtered  int
	FetchedAt time.Time
}

type ProviderStats struct {
	Provider  string    `json:"provider"`
	Articles  int       `json:"articles"`
	Filtered  int       `json:"filtered"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Stats struct {
	Providers int             `json:"providers"`
	Articles  int             `json:"articles"`
	Batches   []ProviderStats `json:"batches"`
}

// Board keeps one batch per provider and replaces it wholesale on Put.
// Articles are never persisted.
type Board struct {
	mu      sync.RWMutex
	batches map[string]Batch
}

func NewBoard() *Board {
	return &Board{batches: make(map[string]Batch)}
}

func (b *Board) Put(batch Batch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches[batch.Provider] = batch
}

func (b *Board) Batch(provider string) (Batch, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	batch, ok := b.batches[provider]
	return batch, ok
}

// Articles returns all batches merged, deduplicated and newest first.
func (b *Board) Articles() []article.Article {
	b.mu.RLock()
	providers := b.providers()
	batches := make([][]article.Article, 0, len(providers))
	for _, provider := range providers {
		batches = append(batches, b.batches[provider].Articles)
	}
	b.mu.RUnlock()

	return article.MergeAndDeduplicate(batches)
}

func (b *Board) Find(id string) (article.Article, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, provider := range b.providers() {
		for _, a := range b.batches[provider].Articles {
			if a.ID == id {
				return a, true
			}
		}
	}
	return article.Article{}, false
}

// ReplaceArticle swaps the article with the same id inside a provider's
// batch. The batch slice is copied so earlier readers keep their view.
func (b *Board) ReplaceArticle(provider string, updated article.Article) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	batch, ok := b.batches[provider]
	if !ok {
		return false
	}

	index := slices.IndexFunc(batch.Articles, func(a article.Article) bool { return a.ID == updated.ID })
	if index < 0 {
		return false
	}

	articles := slices.Clone(batch.Articles)
	articles[index] = updated
	batch.Articles = articles
	b.batches[provider] = batch
	return true
}

// LastFetched returns the zero time for providers that were never fetched.
func (b *Board) LastFetched(provider string) time.Time {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.batches[provider].FetchedAt
}

func (b *Board) Stats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := Stats{Batches: make([]ProviderStats, 0, len(b.batches))}
	for _, provider := range b.providers() {
		batch := b.batches[provider]
		stats.Batches = append(stats.Batches, ProviderStats{
			Provider:  provider,
			Articles:  len(batch.Articles),
			Filtered:  batch.Filtered,
			FetchedAt: batch.FetchedAt,
		})
		stats.Articles += len(batch.Articles)
	}
	stats.Providers = len(stats.Batches)
	return stats
}

// providers returns batch keys in a stable order. Callers hold the lock.
func (b *Board) providers() []string {
	providers := make([]string, 0, len(b.batches))
	for provider := range b.batches {
		providers = append(providers, provider)
	}
	slices.Sort(providers)
	return providers
}
