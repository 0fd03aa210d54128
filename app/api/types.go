package api

import (
	"time"

	"github.com/lysyi3m/nexus-news/app/article"
	"github.com/lysyi3m/nexus-news/app/cache"
	"github.com/lysyi3m/nexus-news/app/provider"
	"github.com/lysyi3m/nexus-news/app/store"
	"github.com/lysyi3m/nexus-news/app/tasks"
)

type GeneratorInterface interface {
	Run(channel article.Channel, articles []article.Article) (string, error)
}

var _ GeneratorInterface = (*article.Generator)(nil)

type Handler struct {
	configCache *provider.ConfigCache
	board       *store.Board
	normalizer  *article.Normalizer
	generator   GeneratorInterface
	scheduler   tasks.TaskSchedulerInterface
	cache       cache.Cache
	baseURL     string
	version     string
	clock       func() time.Time
	startedAt   time.Time
}

// ArticleDetails is the single-article response.
type ArticleDetails struct {
	Article article.View `json:"article"`
	Quality int          `json:"quality"`
	Valid   bool         `json:"valid"`
	Errors  []string     `json:"errors,omitempty"`
}

// ScoredArticle is one entry of a normalize response.
type ScoredArticle struct {
	article.Article
	Quality int `json:"quality"`
}
