package article

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

const unknownSourceID = "unknown"

var ErrNotObject = errors.New("payload is not a JSON object")

type mapFunc func(raw json.RawMessage, env mapEnv) (Article, error)

// mapEnv carries what a mapper needs besides the payload itself.
type mapEnv struct {
	now        time.Time
	index      int
	sourceName string
}

func (e mapEnv) timestamp() string {
	return e.now.UTC().Format(time.RFC3339)
}

type Option func(*Normalizer)

// WithClock replaces time.Now for default timestamps and fallback ids.
func WithClock(clock func() time.Time) Option {
	return func(n *Normalizer) {
		if clock != nil {
			n.clock = clock
		}
	}
}

// Normalizer maps provider payloads to Article. It holds no mutable state
// after construction and may be shared between goroutines.
type Normalizer struct {
	strategies map[Provider]mapFunc
	clock      func() time.Time
}

func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		strategies: map[Provider]mapFunc{
			ProviderGuardian: mapGuardian,
			ProviderNewsAPI:  mapNewsAPI,
			ProviderRSS:      mapRSS,
		},
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Supports reports whether provider has a mapping strategy.
func (n *Normalizer) Supports(provider string) bool {
	_, ok := n.strategies[Provider(provider)]
	return ok
}

func (n *Normalizer) Normalize(raw json.RawMessage, provider string) Article {
	return n.normalizeBatch([]json.RawMessage{raw}, provider, "")[0]
}

// NormalizeAll returns exactly one article per input. Items that fail to map
// are replaced by a fallback record at the same index.
func (n *Normalizer) NormalizeAll(raws []json.RawMessage, provider string) []Article {
	return n.normalizeBatch(raws, provider, "")
}

// NormalizeAllFrom is NormalizeAll with a display name for the source, used
// for providers whose payload does not carry one.
func (n *Normalizer) NormalizeAllFrom(raws []json.RawMessage, provider, sourceName string) []Article {
	return n.normalizeBatch(raws, provider, sourceName)
}

// Refresh recomputes derived fields, e.g. after content was replaced.
func (n *Normalizer) Refresh(a Article) Article {
	a.Normalized = computeMetrics(a)
	return a
}

func (n *Normalizer) normalizeBatch(raws []json.RawMessage, provider, sourceName string) []Article {
	now := n.clock()
	articles := make([]Article, len(raws))

	mapper, ok := n.strategies[Provider(provider)]
	if !ok {
		slog.Warn("Unknown provider, using fallback records", "provider", provider, "count", len(raws))
		for i := range raws {
			articles[i] = n.unknownFallback(provider, mapEnv{now: now, index: i})
		}
		return articles
	}

	for i, raw := range raws {
		env := mapEnv{now: now, index: i, sourceName: sourceName}
		a, err := safeMap(mapper, raw, env)
		if err != nil {
			slog.Warn("Failed to normalize article, using fallback record", "provider", provider, "index", i, "error", err)
			a = fallback(Provider(provider), env)
		}
		a.Normalized = computeMetrics(a)
		articles[i] = a
	}
	return articles
}

func safeMap(mapper mapFunc, raw json.RawMessage, env mapEnv) (a Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mapper panicked: %v", r)
		}
	}()
	return mapper(raw, env)
}

func fallback(provider Provider, env mapEnv) Article {
	return Article{
		ID:          syntheticID(provider, "", "", env),
		Title:       DefaultTitle,
		URL:         DefaultURL,
		Source:      Source{ID: string(provider), Name: firstNonEmpty(env.sourceName, defaultSourceName(provider))},
		PublishedAt: env.timestamp(),
		Categories:  []string{DefaultCategory},
		Tags:        []string{},
	}
}

func (n *Normalizer) unknownFallback(provider string, env mapEnv) Article {
	a := fallback(unknownSourceID, env)
	a.Source = Source{ID: unknownSourceID, Name: firstNonEmpty(provider, unknownSourceID)}
	a.Normalized = computeMetrics(a)
	return a
}

func defaultSourceName(provider Provider) string {
	switch provider {
	case ProviderGuardian:
		return guardianSourceName
	case ProviderNewsAPI:
		return newsAPISourceName
	case ProviderRSS:
		return rssSourceName
	default:
		return string(provider)
	}
}

// decodeObject accepts only JSON objects; null, arrays and scalars are
// reported as errors so the caller can fall back.
func decodeObject(raw json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ErrNotObject
	}
	if err := json.Unmarshal(trimmed, v); err != nil {
		return fmt.Errorf("failed to decode payload: %w", err)
	}
	return nil
}

// syntheticID prefers the provider's own key, then the URL, then a
// timestamp and batch index.
func syntheticID(provider Provider, key, url string, env mapEnv) string {
	key = strings.TrimSpace(key)
	url = strings.TrimSpace(url)

	switch {
	case key != "":
		return fmt.Sprintf("%s_%s", provider, key)
	case url != "" && url != DefaultURL:
		return fmt.Sprintf("%s_%s", provider, base64.RawURLEncoding.EncodeToString([]byte(url)))
	default:
		return fmt.Sprintf("%s_%d_%d", provider, env.now.UnixMilli(), env.index)
	}
}

// compact trims values, drops blanks and repeats. The result is never nil.
func compact(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func withDefaultCategory(categories []string) []string {
	if len(categories) == 0 {
		return []string{DefaultCategory}
	}
	return categories
}
