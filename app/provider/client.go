package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/nexus-news/app/article"
	"github.com/lysyi3m/nexus-news/app/cache"
)

const (
	guardianFields   = "trailText,body,thumbnail,byline,headline"
	guardianTags     = "contributor,keyword"
	guardianMaxPage  = 200
	newsAPIMaxPage   = 100
	maxResponseBytes = 10 << 20
)

var ErrNotHTML = errors.New("content type is not HTML")

// StatusError reports a non-200 upstream response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %s from %s", e.Status, e.URL)
}

type Client struct {
	httpClient *http.Client
	cache      cache.Cache
	parser     *Parser
	userAgent  string
}

// NewClient builds a provider client. A nil cache disables response caching.
func NewClient(httpClient *http.Client, responseCache cache.Cache, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if responseCache == nil {
		responseCache = cache.NewMemory(0, nil)
	}
	return &Client{
		httpClient: httpClient,
		cache:      responseCache,
		parser:     NewParser(),
		userAgent:  userAgent,
	}
}

// Fetch returns the raw article payloads of one provider, at most
// Settings.MaxItems of them.
func (c *Client) Fetch(ctx context.Context, config *Config) ([]json.RawMessage, error) {
	requestURL, publicURL, err := buildRequestURL(config)
	if err != nil {
		return nil, err
	}

	key := cache.GenerateKey("response", string(config.Kind), publicURL)
	data, cached := c.cache.Get(key)
	if !cached {
		data, err = c.get(ctx, requestURL, publicURL, config.Timeout())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", config.Name, err)
		}
	}

	raws, err := c.decode(config.Kind, data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", config.Name, err)
	}

	if !cached {
		c.cache.Set(key, data)
	}

	if limit := config.Settings.MaxItems; limit > 0 && len(raws) > limit {
		raws = raws[:limit]
	}

	slog.Debug("Provider fetched", "provider", config.Name, "kind", config.Kind, "items", len(raws), "cached", cached)
	return raws, nil
}

// FetchPage downloads an HTML page for content extraction.
func (c *Client) FetchPage(ctx context.Context, pageURL string, timeout time.Duration) ([]byte, error) {
	key := cache.GenerateKey("page", pageURL)
	if data, ok := c.cache.Get(key); ok {
		return data, nil
	}

	data, err := c.get(ctx, pageURL, pageURL, timeout, "text/html")
	if err != nil {
		return nil, err
	}

	c.cache.Set(key, data)
	return data, nil
}

func (c *Client) decode(kind article.Provider, data []byte) ([]json.RawMessage, error) {
	switch kind {
	case article.ProviderGuardian:
		return decodeGuardian(data)
	case article.ProviderNewsAPI:
		return decodeNewsAPI(data)
	case article.ProviderRSS:
		_, items, err := c.parser.Run(data)
		return items, err
	default:
		return nil, fmt.Errorf("unsupported provider kind: %s", kind)
	}
}

func (c *Client) get(ctx context.Context, requestURL, publicURL string, timeout time.Duration, requireType ...string) ([]byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch URL %s: %w", publicURL, redact(err, requestURL, publicURL))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: publicURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	for _, want := range requireType {
		contentType := resp.Header.Get("Content-Type")
		if !strings.Contains(strings.ToLower(contentType), want) {
			return nil, fmt.Errorf("%w: %s", ErrNotHTML, contentType)
		}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// buildRequestURL returns the URL to request and the same URL without
// credentials, which is used for cache keys and logs.
func buildRequestURL(config *Config) (string, string, error) {
	u, err := url.Parse(config.URL)
	if err != nil {
		return "", "", fmt.Errorf("invalid provider URL: %w", err)
	}

	q := u.Query()
	for k, v := range config.Query {
		q.Set(k, v)
	}

	var keyParam string
	switch config.Kind {
	case article.ProviderGuardian:
		setDefault(q, "show-fields", guardianFields)
		setDefault(q, "show-tags", guardianTags)
		setDefault(q, "page-size", strconv.Itoa(pageSize(config.Settings.MaxItems, guardianMaxPage)))
		keyParam = "api-key"
	case article.ProviderNewsAPI:
		setDefault(q, "pageSize", strconv.Itoa(pageSize(config.Settings.MaxItems, newsAPIMaxPage)))
		keyParam = "apiKey"
	}

	u.RawQuery = q.Encode()
	publicURL := u.String()

	if keyParam != "" && config.APIKey != "" {
		q.Set(keyParam, config.APIKey)
		u.RawQuery = q.Encode()
	}

	return u.String(), publicURL, nil
}

func setDefault(q url.Values, key, value string) {
	if q.Get(key) == "" {
		q.Set(key, value)
	}
}

func pageSize(maxItems, limit int) int {
	if maxItems <= 0 {
		return limit
	}
	return min(maxItems, limit)
}

// redact keeps API keys out of transport errors, which embed the full URL.
func redact(err error, requestURL, publicURL string) error {
	if requestURL == publicURL {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &url.Error{Op: urlErr.Op, URL: publicURL, Err: urlErr.Err}
	}
	return err
}
