package provider

import (
	"time"

	"github.com/lysyi3m/nexus-news/app/article"
)

type Config struct {
	Name     string            // Derived from filename (without .yml extension)
	Kind     article.Provider  `yaml:"kind"`
	Title    string            `yaml:"title"`
	URL      string            `yaml:"url"`
	APIKey   string            `yaml:"api_key"` // ${VAR} references are expanded from the environment
	Query    map[string]string `yaml:"query"`
	Settings ConfigSettings    `yaml:"settings"`
	Filters  []article.Filter  `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	MaxItems        int  `yaml:"max_items"`
	Timeout         int  `yaml:"timeout"`         // seconds
	ExtractContent  bool `yaml:"extract_content"` // enable content extraction
}

func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Settings.RefreshInterval) * time.Second
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Settings.Timeout) * time.Second
}

// DisplayName is the configured title, else the config name.
func (c *Config) DisplayName() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Name
}

type Metadata struct {
	Title       string
	Link        string
	Description string
	Language    string
}
