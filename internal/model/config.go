package model

import "time"

// Config holds all runtime configuration
type Config struct {
	Ontology     OntologyConfig     `yaml:"ontology" mapstructure:"ontology"`
	Overlay      OverlayConfig      `yaml:"overlay" mapstructure:"overlay"`
	FX           map[string]float64 `yaml:"fx" mapstructure:"fx"` // Currency code -> USD rate
	Authority    AuthorityConfig    `yaml:"authority" mapstructure:"authority"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitConfig    `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// OntologyConfig locates the known-entity whitelist
type OntologyConfig struct {
	Path      string        `yaml:"path" mapstructure:"path"`             // Local file (.yaml, .json or plain text)
	URL       string        `yaml:"url" mapstructure:"url"`               // Remote plain-text list
	Watch     bool          `yaml:"watch" mapstructure:"watch"`           // Reload Path on change
	UserAgent string        `yaml:"user_agent" mapstructure:"user_agent"` // For remote fetches
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBytes  int64         `yaml:"max_bytes" mapstructure:"max_bytes"`
}

// OverlayConfig configures the inference overlay classifier
type OverlayConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL    string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// AuthorityConfig configures publisher authority classification
type AuthorityConfig struct {
	PrimaryDomains   []string          `yaml:"primary_domains" mapstructure:"primary_domains"`
	SecondaryDomains []string          `yaml:"secondary_domains" mapstructure:"secondary_domains"`
	DomainMap        map[string]string `yaml:"domain_map,omitempty" mapstructure:"domain_map"`
	PathPatterns     []PathPattern     `yaml:"path_patterns,omitempty" mapstructure:"path_patterns"`
}

// PathPattern maps a URL path regex to a tier name
type PathPattern struct {
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
	Tier    string `yaml:"tier" mapstructure:"tier"`
}

// CacheConfig configures the extraction result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig configures batch workers
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitConfig throttles overlay calls per publisher host during batches
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"` // 0 disables
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// StoreConfig configures the SQLite event sink
type StoreConfig struct {
	DBPath string `yaml:"db_path" mapstructure:"db_path"` // Empty disables persistence
}

// LogConfig configures structured logging
type LogConfig struct {
	Level      string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format     string `yaml:"format" mapstructure:"format"` // text, json
	File       string `yaml:"file,omitempty" mapstructure:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
}

// OutputConfig configures rendering
type OutputConfig struct {
	Pretty  bool `yaml:"pretty" mapstructure:"pretty"`
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultFX returns the built-in USD conversion rates
func DefaultFX() map[string]float64 {
	return map[string]float64{
		"USD": 1.0,
		"EUR": 1.08,
		"GBP": 1.27,
		"HKD": 0.128,
		"INR": 0.012,
	}
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Ontology: OntologyConfig{
			UserAgent: "capevent/0.1 (+https://github.com/ppiankov/capevent)",
			Timeout:   15 * time.Second,
			MaxBytes:  5_000_000,
		},
		Overlay: OverlayConfig{
			Provider:  "", // Disabled by default
			Timeout:   30,
			MaxTokens: 300,
		},
		FX: DefaultFX(),
		Authority: AuthorityConfig{
			PrimaryDomains: []string{
				"prnewswire.com",
				"businesswire.com",
				"globenewswire.com",
				"accesswire.com",
				"sec.gov",
			},
			SecondaryDomains: []string{
				"reuters.com",
				"bloomberg.com",
				"ft.com",
				"wsj.com",
				"cnbc.com",
				"techcrunch.com",
				"theinformation.com",
				"axios.com",
				"economictimes.indiatimes.com",
				"livemint.com",
				"scmp.com",
			},
			PathPatterns: []PathPattern{
				{Pattern: `^/(news-releases|press-releases?|newsroom)/`, Tier: "primary"},
			},
		},
		Cache: CacheConfig{
			Enabled:   false,
			Dir:       ".capevent-cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 0,
			BurstSize:         5,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Output: OutputConfig{
			Pretty: true,
		},
	}
}
