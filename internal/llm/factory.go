package llm

import "fmt"

// FactoryConfig carries the environment-derived provider selection.
type FactoryConfig struct {
	Provider string // "anthropic" | "mock"
	APIKey   string
	Model    string
	MockMode bool
}

// New selects a Provider per cfg. Unknown providers are a ConfigError
// (§7): the process refuses to start rather than silently falling back.
func New(cfg FactoryConfig) (Provider, error) {
	if cfg.MockMode || cfg.Provider == "mock" || cfg.Provider == "" {
		return NewMockProvider(), nil
	}
	switch cfg.Provider {
	case "anthropic":
		genCfg := DefaultConfig()
		if cfg.Model != "" {
			genCfg.Model = cfg.Model
		}
		return NewAnthropicProvider(cfg.APIKey, genCfg), nil
	default:
		return nil, fmt.Errorf("llm: unrecognized TEXT_LLM_PROVIDER %q", cfg.Provider)
	}
}
