package config

// Config holds all configuration for the application.
type Config struct {
	// APIPort is the port the HTTP API server listens on.
	APIPort int

	// LogLevelFlags are the per-package log level configurations.
	// Format: ["debug"], ["default=info", "ingest=debug"], or ["info"].
	LogLevelFlags []string

	// WeightsConfigPath is the path to the YAML file holding the
	// similarity-weights config (spec §4.4), hot-reloaded at runtime.
	WeightsConfigPath string

	// MaxConcurrentRequests is a configured request-concurrency limit. Validate
	// requires it to be at least 1; the HTTP server does not enforce it.
	MaxConcurrentRequests int

	// TracingEnabled indicates whether OpenTelemetry tracing is enabled.
	TracingEnabled bool

	// TracingEndpoint is the OTLP gRPC endpoint for trace export.
	TracingEndpoint string

	// TracingTLSCAPath is the path to the CA certificate for TLS verification.
	TracingTLSCAPath string

	// TracingTLSInsecure allows insecure TLS connections (skip verification).
	TracingTLSInsecure bool

	// EmbeddingProvider selects the C3 embedder implementation ("mock" or "gemini").
	EmbeddingProvider string

	// EmbeddingModel is the provider-specific embedding model name.
	EmbeddingModel string

	// EmbeddingAPIKey authenticates against the embedding provider.
	EmbeddingAPIKey string

	// LLMProvider selects the C10 provider implementation ("mock" or "anthropic").
	LLMProvider string

	// LLMModel is the provider-specific model name.
	LLMModel string

	// LLMAPIKey authenticates against the LLM provider.
	LLMAPIKey string

	// StoreAddress is the FalkorDB connection address ("host:port").
	StoreAddress string

	// StoreMockMode uses the in-memory store instead of FalkorDB.
	StoreMockMode bool
}

// LoadConfig creates a Config with the provided values.
func LoadConfig(
	apiPort int,
	logLevelFlags []string,
	weightsConfigPath string,
	maxConcurrentRequests int,
	tracingEnabled bool,
	tracingEndpoint, tracingTLSCAPath string,
	tracingTLSInsecure bool,
) *Config {
	return &Config{
		APIPort:               apiPort,
		LogLevelFlags:         logLevelFlags,
		WeightsConfigPath:     weightsConfigPath,
		MaxConcurrentRequests: maxConcurrentRequests,
		TracingEnabled:        tracingEnabled,
		TracingEndpoint:       tracingEndpoint,
		TracingTLSCAPath:      tracingTLSCAPath,
		TracingTLSInsecure:    tracingTLSInsecure,
		EmbeddingProvider:     "mock",
		LLMProvider:           "mock",
		StoreMockMode:         true,
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return NewConfigError("APIPort must be between 1 and 65535")
	}

	if c.MaxConcurrentRequests < 1 {
		return NewConfigError("MaxConcurrentRequests must be at least 1")
	}

	if c.TracingEnabled && c.TracingEndpoint == "" {
		return NewConfigError("TracingEndpoint must be set when tracing is enabled")
	}

	if !c.StoreMockMode && c.StoreAddress == "" {
		return NewConfigError("StoreAddress must be set when StoreMockMode is false")
	}

	return nil
}

// ConfigError represents a configuration error.
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message.
func (e *ConfigError) Error() string {
	return e.message
}
