package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/nexus-news/app/article"
	"github.com/lysyi3m/nexus-news/app/cache"
	"github.com/lysyi3m/nexus-news/app/provider"
	"github.com/lysyi3m/nexus-news/app/store"
	"github.com/lysyi3m/nexus-news/app/tasks"
)

const (
	defaultArticleLimit = 50
	maxArticleLimit     = 200
)

func NewHandler(configCache *provider.ConfigCache, board *store.Board, normalizer *article.Normalizer,
	scheduler tasks.TaskSchedulerInterface, responseCache cache.Cache, baseURL, version string) *Handler {
	return &Handler{
		configCache: configCache,
		board:       board,
		normalizer:  normalizer,
		generator:   article.NewGenerator(),
		scheduler:   scheduler,
		cache:       responseCache,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		version:     version,
		clock:       time.Now,
		startedAt:   time.Now(),
	}
}

func (h *Handler) GetArticles(c *gin.Context) {
	limit, ok := queryLimit(c, defaultArticleLimit, maxArticleLimit)
	if !ok {
		return
	}

	view := article.ParseViewType(c.Query("view"))
	articles := filterByCategory(h.board.Articles(), c.Query("category"))
	total := len(articles)
	if len(articles) > limit {
		articles = articles[:limit]
	}

	now := h.clock()
	views := make([]article.View, 0, len(articles))
	for _, a := range articles {
		views = append(views, article.FormatForView(article.ForDisplay(a), view, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"view":     view,
		"total":    total,
		"count":    len(views),
		"articles": views,
	})
}

func (h *Handler) GetArticle(c *gin.Context) {
	id := c.Param("id")

	a, ok := h.board.Find(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	a = article.ForDisplay(a)
	details := ArticleDetails{
		Article: article.FormatForView(a, article.ViewDetailed, h.clock()),
		Quality: article.QualityScore(a),
		Valid:   true,
	}
	if err := article.Validate(a); err != nil {
		details.Valid = false
		details.Errors = validationErrors(err)
	}

	c.JSON(http.StatusOK, details)
}

func (h *Handler) GetCategories(c *gin.Context) {
	groups := article.GroupByCategory(h.board.Articles())

	counts := make(map[string]int, len(groups))
	for category, articles := range groups {
		counts[category] = len(articles)
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": counts,
		"total":      len(counts),
	})
}

func (h *Handler) GetTrending(c *gin.Context) {
	limit, ok := queryLimit(c, article.DefaultTrendingLimit, maxArticleLimit)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"topics": article.TrendingTopics(h.board.Articles(), limit),
	})
}

func (h *Handler) GetFeed(c *gin.Context) {
	limit, ok := queryLimit(c, defaultArticleLimit, maxArticleLimit)
	if !ok {
		return
	}

	articles := filterByCategory(h.board.Articles(), c.Query("category"))
	if len(articles) > limit {
		articles = articles[:limit]
	}

	channel := article.Channel{
		Title:       "NEXUS News",
		Link:        h.baseURL + "/",
		Description: "Normalized articles from all configured news providers",
		Generator:   "NEXUS News " + h.version,
		Language:    "en",
	}
	if h.baseURL != "" {
		channel.SelfLink = h.baseURL + "/feed.rss"
	}

	rss, err := h.generator.Run(channel, articles)
	if err != nil {
		slog.Error("RSS generation error", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Items", strconv.Itoa(len(articles)))
	c.String(http.StatusOK, rss)
}

func (h *Handler) GetHealth(c *gin.Context) {
	stats := h.board.Stats()

	c.JSON(http.StatusOK, gin.H{
		"status":                "ok",
		"timestamp":             h.clock().In(time.Local).Format(time.RFC3339),
		"loaded_configurations": h.configCache.GetConfigCount(),
		"providers":             stats.Providers,
		"articles":              stats.Articles,
	})
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := gin.H{
		"version":               h.version,
		"uptime":                h.clock().Sub(h.startedAt).Round(time.Second).String(),
		"loaded_configurations": h.configCache.GetConfigCount(),
		"enabled_providers":     len(h.configCache.GetEnabledConfigs()),
		"board":                 h.board.Stats(),
	}

	if h.cache != nil {
		stats["cache"] = h.cache.Stats()
	}

	c.JSON(http.StatusOK, stats)
}

func (h *Handler) APIListProviders(c *gin.Context) {
	configs := h.configCache.GetConfigs()

	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	slices.Sort(names)

	providers := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		providerConfig := configs[name]
		providerInfo := map[string]interface{}{
			"name":             providerConfig.Name,
			"kind":             providerConfig.Kind,
			"title":            providerConfig.DisplayName(),
			"url":              providerConfig.URL,
			"enabled":          providerConfig.Settings.Enabled,
			"max_items":        providerConfig.Settings.MaxItems,
			"refresh_interval": providerConfig.RefreshInterval().String(),
			"extract_content":  providerConfig.Settings.ExtractContent,
			"filters":          len(providerConfig.Filters),
		}

		if batch, ok := h.board.Batch(name); ok {
			providerInfo["articles"] = len(batch.Articles)
			providerInfo["filtered"] = batch.Filtered
			providerInfo["last_fetched_at"] = batch.FetchedAt
		}

		providers = append(providers, providerInfo)
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": providers,
		"total":     len(providers),
	})
}

func (h *Handler) APIRefreshProvider(c *gin.Context) {
	name := c.Param("name")

	if _, err := h.configCache.GetConfig(name); err != nil {
		slog.Error("Provider configuration not found", "provider", name, "error", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider configuration not found"})
		return
	}

	providerConfig, err := h.configCache.LoadConfig(name)
	if err != nil {
		slog.Error("Error reloading configuration", "provider", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to reload configuration",
			"details": err.Error(),
		})
		return
	}

	if err := h.scheduler.EnqueueRefresh(name); err != nil {
		slog.Error("Error enqueueing refresh task", "provider", name, "error", err)
		status := http.StatusServiceUnavailable
		if errors.Is(err, provider.ErrConfigNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error":   "Failed to enqueue refresh task",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"message": "Configuration reloaded and refresh enqueued",
		"provider": gin.H{
			"name":    name,
			"kind":    providerConfig.Kind,
			"title":   providerConfig.DisplayName(),
			"enabled": providerConfig.Settings.Enabled,
		},
	})
}

// APINormalize maps a posted JSON array of raw provider payloads. Unknown
// providers and malformed items still yield fallback articles.
func (h *Handler) APINormalize(c *gin.Context) {
	providerName := c.Param("provider")

	var raws []json.RawMessage
	if err := c.ShouldBindJSON(&raws); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Request body must be a JSON array",
			"details": err.Error(),
		})
		return
	}

	articles := h.normalizer.NormalizeAll(raws, providerName)

	scored := make([]ScoredArticle, 0, len(articles))
	for _, a := range articles {
		scored = append(scored, ScoredArticle{Article: a, Quality: article.QualityScore(a)})
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":  providerName,
		"supported": h.normalizer.Supports(providerName),
		"count":     len(scored),
		"articles":  scored,
	})
}

// queryLimit reads ?limit=, writing a 400 response when it is not a
// positive integer.
func queryLimit(c *gin.Context, fallback, ceiling int) (int, bool) {
	value := c.Query("limit")
	if value == "" {
		return fallback, true
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
		return 0, false
	}
	return min(limit, ceiling), true
}

func filterByCategory(articles []article.Article, category string) []article.Article {
	if category == "" {
		return articles
	}

	filtered := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		if slices.ContainsFunc(a.Categories, func(c string) bool { return strings.EqualFold(c, category) }) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

func validationErrors(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		messages := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			messages = append(messages, e.Error())
		}
		return messages
	}
	return []string{err.Error()}
}
