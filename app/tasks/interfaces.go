package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lysyi3m/nexus-news/app/provider"
)

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the operator API.
// Example usage:
//
//	scheduler := NewScheduler(configCache, board, client, normalizer, filterer, extractor, responseCache, interval, workers)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueRefresh("guardian")
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueRefresh(providerName string) error
}

// ConfigSource is satisfied by *provider.ConfigCache.
type ConfigSource interface {
	GetConfig(name string) (*provider.Config, error)
	GetEnabledConfigs() map[string]*provider.Config
}

// Fetcher is satisfied by *provider.Client.
type Fetcher interface {
	Fetch(ctx context.Context, config *provider.Config) ([]json.RawMessage, error)
	FetchPage(ctx context.Context, pageURL string, timeout time.Duration) ([]byte, error)
}

// Extractor is satisfied by *provider.ContentExtractor.
type Extractor interface {
	Run(data []byte, pageURL string) (string, error)
}
