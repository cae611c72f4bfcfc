package config

import (
	"time"

	"github.com/caselens/caselens/internal/providers"
)

// Config holds caselens configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Providers  map[string]ProviderCfg `mapstructure:"providers" yaml:"providers"`
	Defaults   DefaultsCfg            `mapstructure:"defaults" yaml:"defaults"`
	Extraction ExtractionCfg          `mapstructure:"extraction" yaml:"extraction"`
}

// ProviderCfg configures a generation provider.
type ProviderCfg struct {
	Type       string `mapstructure:"type" yaml:"type"`                 // "openai", "mock"
	Model      string `mapstructure:"model" yaml:"model"`               // Model name
	APIKey     string `mapstructure:"api_key" yaml:"api_key"`           // API key (supports ${ENV_VAR} syntax)
	BaseURL    string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	MaxRetries int    `mapstructure:"max_retries" yaml:"max_retries"`
	Enabled    bool   `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultsCfg specifies default selections.
type DefaultsCfg struct {
	Provider string `mapstructure:"provider" yaml:"provider"` // Default generation provider
	Schema   string `mapstructure:"schema" yaml:"schema"`     // Default schema name
}

// ExtractionCfg holds generation parameters for extraction requests.
type ExtractionCfg struct {
	Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
	MaxTokens      int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Providers: map[string]ProviderCfg{
			"openai": {
				Type:       "openai",
				Model:      "gpt-4.1",
				APIKey:     "${OPENAI_API_KEY}",
				MaxRetries: 3,
				Enabled:    true,
			},
		},
		Defaults: DefaultsCfg{
			Provider: "openai",
			Schema:   "default",
		},
		Extraction: ExtractionCfg{
			Temperature:    0.1,
			MaxTokens:      4096,
			TimeoutSeconds: 300,
		},
	}
}

// GetProvider returns a provider config by name.
func (c *Config) GetProvider(name string) (ProviderCfg, bool) {
	cfg, ok := c.Providers[name]
	return cfg, ok
}

// EnabledProviders returns all enabled providers.
func (c *Config) EnabledProviders() map[string]ProviderCfg {
	result := make(map[string]ProviderCfg)
	for name, cfg := range c.Providers {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// ClientConfig converts a named provider config into client settings,
// resolving ${ENV_VAR} references in the API key.
func (c *Config) ClientConfig(name string) (providers.ClientConfig, bool) {
	p, ok := c.Providers[name]
	if !ok {
		return providers.ClientConfig{}, false
	}
	return providers.ClientConfig{
		Type:        p.Type,
		Model:       p.Model,
		APIKey:      ResolveEnvVars(p.APIKey),
		BaseURL:     p.BaseURL,
		Temperature: c.Extraction.Temperature,
		MaxTokens:   c.Extraction.MaxTokens,
		MaxRetries:  p.MaxRetries,
		Timeout:     time.Duration(c.Extraction.TimeoutSeconds) * time.Second,
	}, true
}
