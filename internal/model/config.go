package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all runtime configuration. Values come from defaults,
// the config file, CREDENCE_* environment variables, and flags, in
// that order of precedence.
type Config struct {
	HTTP          HTTPConfig          `yaml:"http" mapstructure:"http"`
	Inference     InferenceConfig     `yaml:"inference" mapstructure:"inference"`
	Corroboration CorroborationConfig `yaml:"corroboration" mapstructure:"corroboration"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit" mapstructure:"rate_limit"`
	Batch         BatchConfig         `yaml:"batch" mapstructure:"batch"`
	LLM           LLMConfig           `yaml:"llm" mapstructure:"llm"`
	Output        OutputConfig        `yaml:"output" mapstructure:"output"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
}

// HTTPConfig controls content fetching. Empty proxy values defer to
// the HTTP_PROXY and HTTPS_PROXY environment variables.
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	MaxRetries    int           `yaml:"max_retries" mapstructure:"max_retries"`
	RetryBackoff  time.Duration `yaml:"retry_backoff" mapstructure:"retry_backoff"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// InferenceConfig points at the hosted classifier API. An empty APIKey
// disables remote classification; analyzers fall back to heuristics.
type InferenceConfig struct {
	BaseURL        string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey         string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`
	WarmupBackoff  time.Duration `yaml:"warmup_backoff" mapstructure:"warmup_backoff"`
	SentimentModel string        `yaml:"sentiment_model" mapstructure:"sentiment_model"`
	SyntheticModel string        `yaml:"synthetic_model" mapstructure:"synthetic_model"`
	NERModel       string        `yaml:"ner_model" mapstructure:"ner_model"`
	MaxWords       int           `yaml:"max_words" mapstructure:"max_words"`
}

// CorroborationConfig points at the news-search API. An empty APIKey
// disables the external corroboration check.
type CorroborationConfig struct {
	BaseURL string        `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string        `yaml:"api_key" mapstructure:"api_key"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// CacheConfig controls the fetch cache (memory + disk).
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// RateLimitConfig throttles outbound fetches per domain.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// BatchConfig controls the batch worker pool.
type BatchConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// LLMConfig controls the optional narrative briefing.
type LLMConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"`
	Model    string        `yaml:"model" mapstructure:"model"`
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL  string        `yaml:"base_url" mapstructure:"base_url"`
	Grounded bool          `yaml:"grounded" mapstructure:"grounded"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// OutputConfig controls rendering.
type OutputConfig struct {
	Verbose       bool   `yaml:"verbose" mapstructure:"verbose"`
	Format        string `yaml:"format" mapstructure:"format"` // text, json, markdown
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr           string   `yaml:"addr" mapstructure:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Credence/0.1 (+https://github.com/ppiankov/credence)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
			MaxRetries:    3,
			RetryBackoff:  2 * time.Second,
		},
		Inference: InferenceConfig{
			BaseURL:        "https://api-inference.huggingface.co",
			Timeout:        25 * time.Second,
			WarmupBackoff:  10 * time.Second,
			SentimentModel: "cardiffnlp/twitter-roberta-base-sentiment-latest",
			SyntheticModel: "openai-community/roberta-base-openai-detector",
			NERModel:       "dslim/bert-base-NER",
			MaxWords:       400,
		},
		Corroboration: CorroborationConfig{
			BaseURL: "https://newsapi.org",
			Timeout: 8 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       filepath.Join(home, ".credence", "cache"),
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		LLM: LLMConfig{
			Provider: "",
			Model:    "gpt-4o-mini",
			Grounded: true,
			Timeout:  60 * time.Second,
		},
		Output: OutputConfig{
			Format:        "text",
			IncludeFooter: true,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
	}
}
