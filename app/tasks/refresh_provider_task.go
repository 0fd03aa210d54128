package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/nexus-news/app/article"
	"github.com/lysyi3m/nexus-news/app/provider"
	"github.com/lysyi3m/nexus-news/app/store"
)

type RefreshProviderTask struct {
	Task
	ProviderConfig *provider.Config
	fetcher        Fetcher
	normalizer     *article.Normalizer
	filterer       *article.Filterer
	board          *store.Board
}

func NewRefreshProviderTask(providerConfig *provider.Config, fetcher Fetcher, normalizer *article.Normalizer, filterer *article.Filterer, board *store.Board) *RefreshProviderTask {
	return &RefreshProviderTask{
		Task:           NewTask(TaskTypeRefreshProvider, providerConfig.Name),
		ProviderConfig: providerConfig,
		fetcher:        fetcher,
		normalizer:     normalizer,
		filterer:       filterer,
		board:          board,
	}
}

func (t *RefreshProviderTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if !t.ProviderConfig.Settings.Enabled {
		slog.Debug("Provider disabled, skipping", "provider", t.ProviderName)
		return nil
	}

	raws, err := t.fetcher.Fetch(ctx, t.ProviderConfig)
	if err != nil {
		return fmt.Errorf("failed to fetch provider: %w", err)
	}

	articles := t.normalizer.NormalizeAllFrom(raws, string(t.ProviderConfig.Kind), t.ProviderConfig.DisplayName())
	kept, filtered := t.filterer.Run(articles, t.ProviderConfig.Filters)

	t.board.Put(store.Batch{
		Provider:  t.ProviderName,
		Articles:  kept,
		Filtered:  filtered,
		FetchedAt: time.Now().UTC(),
	})

	slog.Info("Task completed",
		"type", t.GetType(),
		"provider", t.ProviderName,
		"duration", t.GetDuration(),
		"total", len(raws),
		"filtered", filtered,
		"kept", len(kept))

	return nil
}
