package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lysyi3m/nexus-news/app/provider"
)

type mockFetcher struct {
	mu         sync.Mutex
	raws       []json.RawMessage
	err        error
	pages      map[string][]byte
	fetchCalls int
	pageCalls  []string
}

func (m *mockFetcher) Fetch(ctx context.Context, config *provider.Config) ([]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.raws, nil
}

func (m *mockFetcher) FetchPage(ctx context.Context, pageURL string, timeout time.Duration) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageCalls = append(m.pageCalls, pageURL)
	page, ok := m.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("HTTP error: 404")
	}
	return page, nil
}

func (m *mockFetcher) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetchCalls
}

type mockExtractor struct {
	content string
	err     error
}

func (m *mockExtractor) Run(data []byte, pageURL string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

type mockConfigSource struct {
	configs map[string]*provider.Config
}

func (m *mockConfigSource) GetConfig(name string) (*provider.Config, error) {
	config, ok := m.configs[name]
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", provider.ErrConfigNotFound, name)
	}
	return config, nil
}

func (m *mockConfigSource) GetEnabledConfigs() map[string]*provider.Config {
	enabled := make(map[string]*provider.Config)
	for name, config := range m.configs {
		if config.Settings.Enabled {
			enabled[name] = config
		}
	}
	return enabled
}

type mockTask struct {
	Task
	err      error
	executed int
}

func (m *mockTask) Execute(ctx context.Context) error {
	m.executed++
	return m.err
}
