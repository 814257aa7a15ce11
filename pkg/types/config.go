// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GatewayConfig holds settings for the completion gateway.
type GatewayConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the chat-completion endpoint.
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey is the bearer token for the completion API. When empty the
	// gateway returns an unconfigured failure without any network call.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// HeavyModel and LightModel are the model identifiers for the two tiers.
	HeavyModel string `json:"heavy_model" yaml:"heavy_model"`
	LightModel string `json:"light_model" yaml:"light_model"`

	// MaxRetries is the number of additional attempts after a retryable
	// failure (default 2).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// BackoffBase is the initial retry backoff, doubled on each attempt
	// (default 1s). Tests override this to avoid real sleeps.
	BackoffBase time.Duration `json:"backoff_base" yaml:"backoff_base"`
}

// VerificationConfig holds settings for the record verification stage.
type VerificationConfig struct {
	HTTPConfig `yaml:",inline"`

	// Mailto is sent to Crossref as the mailto parameter for polite pool access.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty"`

	// SemanticScholarAPIKey is an optional API key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// MaxConcurrent limits simultaneous in-flight record verifications
	// (default 8).
	MaxConcurrent int `json:"max_concurrent" yaml:"max_concurrent"`

	// BatchTimeout bounds a whole verification batch (default 60s). Records
	// whose lookups are still pending at the deadline resolve unverified.
	BatchTimeout time.Duration `json:"batch_timeout" yaml:"batch_timeout"`
}

// HistoryConfig holds settings for the run-history store.
type HistoryConfig struct {
	// Dir is the directory holding the history database.
	Dir string `json:"dir" yaml:"dir"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Gateway      GatewayConfig      `json:"gateway" yaml:"gateway"`
	Verification VerificationConfig `json:"verify" yaml:"verify"`
	History      HistoryConfig      `json:"history" yaml:"history"`
}
