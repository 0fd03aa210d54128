package provider

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/nexus-news/app/article"
	"github.com/lysyi3m/nexus-news/app/cache"
)

const guardianResponse = `{
  "response": {
    "status": "ok",
    "total": 3,
    "results": [
      {"id": "world/1", "webTitle": "One", "webUrl": "https://g/1"},
      {"id": "world/2", "webTitle": "Two", "webUrl": "https://g/2"},
      {"id": "world/3", "webTitle": "Three", "webUrl": "https://g/3"}
    ]
  }
}`

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <link>https://blog.example.com</link>
    <description>Posts</description>
    <item>
      <title>First post</title>
      <link>https://blog.example.com/1</link>
      <guid>post-1</guid>
      <description>Teaser one</description>
      <pubDate>Mon, 01 Jan 2024 10:00:00 +0000</pubDate>
      <category>Tech</category>
    </item>
    <item>
      <title>Second post</title>
      <link>https://blog.example.com/2</link>
      <description>Teaser two</description>
    </item>
  </channel>
</rss>`

func TestClientFetchGuardian(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		for _, param := range []string{"api-key=secret", "show-fields=trailText%2Cbody%2Cthumbnail%2Cbyline%2Cheadline", "show-tags=contributor%2Ckeyword", "page-size=2", "q=climate"} {
			if !strings.Contains(r.URL.RawQuery, param) {
				t.Errorf("Expected query to contain '%s', got '%s'", param, r.URL.RawQuery)
			}
		}
		if r.Header.Get("User-Agent") != "NEXUS-Test/1.0" {
			t.Errorf("Expected User-Agent header, got '%s'", r.Header.Get("User-Agent"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(guardianResponse))
	}))
	defer server.Close()

	client := NewClient(server.Client(), cache.NewMemory(time.Minute, nil), "NEXUS-Test/1.0")
	config := &Config{
		Name:     "guardian",
		Kind:     article.ProviderGuardian,
		URL:      server.URL + "/search?q=climate",
		APIKey:   "secret",
		Settings: ConfigSettings{MaxItems: 2, Timeout: 5},
	}

	raws, err := client.Fetch(context.Background(), config)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(raws) != 2 {
		t.Errorf("Expected max_items to cap results at 2, got %d", len(raws))
	}

	if _, err := client.Fetch(context.Background(), config); err != nil {
		t.Fatalf("Expected cached fetch to succeed, got: %v", err)
	}
	if requests.Load() != 1 {
		t.Errorf("Expected second fetch to be served from cache, got %d requests", requests.Load())
	}
}

func TestClientFetchNewsAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apiKey") != "k" || r.URL.Query().Get("pageSize") != "50" {
			t.Errorf("Unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[{"title":"Headline","url":"https://n/1"}]}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil, "ua")
	config := &Config{Name: "newsapi", Kind: article.ProviderNewsAPI, URL: server.URL, APIKey: "k", Settings: ConfigSettings{MaxItems: 50}}

	raws, err := client.Fetch(context.Background(), config)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(raws) != 1 {
		t.Errorf("Expected 1 article, got %d", len(raws))
	}
}

func TestClientFetchNewsAPIErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid"}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), cache.NewMemory(time.Minute, nil), "ua")
	config := &Config{Name: "newsapi", Kind: article.ProviderNewsAPI, URL: server.URL}

	_, err := client.Fetch(context.Background(), config)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.Code != "apiKeyInvalid" {
		t.Errorf("Expected code 'apiKeyInvalid', got '%s'", apiErr.Code)
	}
	if stats := client.cache.Stats(); stats.Sets != 0 {
		t.Errorf("Expected failed response not to be cached, got %d sets", stats.Sets)
	}
}

func TestClientFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil, "ua")
	config := &Config{Name: "guardian", Kind: article.ProviderGuardian, URL: server.URL, APIKey: "secret"}

	_, err := client.Fetch(context.Background(), config)

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", statusErr.StatusCode)
	}
	if strings.Contains(err.Error(), "secret") {
		t.Errorf("Expected api key to be kept out of errors, got '%s'", err.Error())
	}
}

func TestClientFetchRSS(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil, "ua")
	config := &Config{Name: "blog", Kind: article.ProviderRSS, URL: server.URL + "/feed.xml"}

	raws, err := client.Fetch(context.Background(), config)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(raws) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(raws))
	}

	articles := article.NewNormalizer().NormalizeAllFrom(raws, "rss", "Example Blog")
	if articles[0].ID != "rss_"+base64.RawURLEncoding.EncodeToString([]byte("https://blog.example.com/1")) || articles[0].PublishedAt != "2024-01-01T10:00:00Z" {
		t.Errorf("Unexpected first article: %+v", articles[0])
	}
	if !strings.HasPrefix(articles[1].ID, "rss_") || articles[1].URL != "https://blog.example.com/2" {
		t.Errorf("Unexpected second article: %+v", articles[1])
	}
}

func TestClientFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.Client(), nil, "ua")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Fetch(ctx, &Config{Name: "slow", Kind: article.ProviderRSS, URL: server.URL})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected deadline exceeded, got %v", err)
	}
}

func TestClientFetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json" {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{}`))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html><body><p>hi</p></body></html>"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil, "ua")

	data, err := client.FetchPage(context.Background(), server.URL+"/page", time.Second)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if !strings.Contains(string(data), "<p>hi</p>") {
		t.Errorf("Unexpected page body: %s", data)
	}

	if _, err := client.FetchPage(context.Background(), server.URL+"/json", time.Second); !errors.Is(err, ErrNotHTML) {
		t.Errorf("Expected ErrNotHTML, got %v", err)
	}
}

func TestBuildRequestURLKeepsKeyOutOfPublicURL(t *testing.T) {
	config := &Config{
		Kind:     article.ProviderGuardian,
		URL:      "https://content.guardianapis.com/search",
		APIKey:   "secret",
		Query:    map[string]string{"page-size": "10"},
		Settings: ConfigSettings{MaxItems: 50},
	}

	requestURL, publicURL, err := buildRequestURL(config)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(requestURL, "api-key=secret") {
		t.Errorf("Expected request URL to carry api key, got '%s'", requestURL)
	}
	if strings.Contains(publicURL, "secret") {
		t.Errorf("Expected public URL without api key, got '%s'", publicURL)
	}
	if !strings.Contains(publicURL, "page-size=10") {
		t.Errorf("Expected configured page-size to win, got '%s'", publicURL)
	}
}
