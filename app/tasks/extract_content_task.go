package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/lysyi3m/nexus-news/app/article"
	"github.com/lysyi3m/nexus-news/app/provider"
	"github.com/lysyi3m/nexus-news/app/store"
)

// NewsAPI cuts content and appends a marker such as "[+1234 chars]".
var truncatedMarker = regexp.MustCompile(`\[\+\d+ chars\]\s*$`)

type ExtractContentTask struct {
	Task
	ProviderConfig *provider.Config
	fetcher        Fetcher
	extractor      Extractor
	normalizer     *article.Normalizer
	board          *store.Board
}

func NewExtractContentTask(providerConfig *provider.Config, fetcher Fetcher, extractor Extractor, normalizer *article.Normalizer, board *store.Board) *ExtractContentTask {
	return &ExtractContentTask{
		Task:           NewTask(TaskTypeExtractContent, providerConfig.Name),
		ProviderConfig: providerConfig,
		fetcher:        fetcher,
		extractor:      extractor,
		normalizer:     normalizer,
		board:          board,
	}
}

func (t *ExtractContentTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.ProviderConfig.Settings.ExtractContent {
		slog.Debug("Content extraction disabled for provider", "provider", t.ProviderName)
		return nil
	}

	batch, ok := t.board.Batch(t.ProviderName)
	if !ok {
		slog.Debug("No batch to extract content for", "provider", t.ProviderName)
		return nil
	}

	var candidates []article.Article
	for _, a := range batch.Articles {
		if needsExtraction(a) {
			candidates = append(candidates, a)
		}
	}

	if len(candidates) == 0 {
		slog.Debug("No articles need content extraction", "provider", t.ProviderName)
		return nil
	}

	successCount := 0
	errorCount := 0

	for _, a := range candidates {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := t.extractContentForArticle(ctx, a); err != nil {
			slog.Error("Failed to extract content for article", "article_id", a.ID, "url", a.URL, "error", err)
			errorCount++
		} else {
			successCount++
		}
	}

	slog.Info("Task completed",
		"type", t.GetType(),
		"provider", t.ProviderName,
		"duration", t.GetDuration(),
		"success", successCount,
		"errors", errorCount)

	return nil
}

func (t *ExtractContentTask) extractContentForArticle(ctx context.Context, a article.Article) error {
	data, err := t.fetcher.FetchPage(ctx, a.URL, t.ProviderConfig.Timeout())
	if err != nil {
		return fmt.Errorf("failed to fetch article page: %w", err)
	}

	content, err := t.extractor.Run(data, a.URL)
	if err != nil {
		return fmt.Errorf("failed to extract content: %w", err)
	}
	if content == "" {
		return fmt.Errorf("extracted content is empty")
	}

	a.Content = content
	if !t.board.ReplaceArticle(t.ProviderName, t.normalizer.Refresh(a)) {
		slog.Debug("Article left the batch during extraction", "article_id", a.ID)
		return nil
	}

	slog.Debug("Content extracted successfully", "article_id", a.ID, "url", a.URL, "content_length", len(content))
	return nil
}

// needsExtraction reports whether an article only carries a teaser as content.
func needsExtraction(a article.Article) bool {
	if a.HasPlaceholderURL() {
		return false
	}
	content := strings.TrimSpace(a.Content)
	return content == "" ||
		content == strings.TrimSpace(a.Description) ||
		truncatedMarker.MatchString(content)
}
