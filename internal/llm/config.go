package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/vulcan/internal/store"
)

// Config selects a provider and tunes the middleware around it.
type Config struct {
	Provider string // anthropic, openai, gemini, openrouter or mock
	Model    string // alias or full model ID; empty for the provider default
	APIKey   string
	BaseURL  string // OpenAI-compatible endpoints only

	Retry RetryConfig
}

// RetryConfig configures exponential backoff for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// Timeout bounds one Generate call including its retries.
	Timeout time.Duration
}

// backend describes one supported provider.
type backend struct {
	name  string
	model string // default alias
	// keyEnv lists environment variables holding an API key, most
	// specific first.
	keyEnv []string
}

// backends is also the discovery order when no provider is configured.
var backends = []backend{
	{name: "gemini", model: "gemini-flash", keyEnv: []string{"VULCAN_GEMINI_API_KEY", "GEMINI_API_KEY"}},
	{name: "openai", model: "gpt-4o-mini", keyEnv: []string{"VULCAN_OPENAI_API_KEY", "OPENAI_API_KEY"}},
	{name: "anthropic", model: "claude-haiku", keyEnv: []string{"VULCAN_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY"}},
	{name: "openrouter", model: "google/gemini-2.0-flash-exp", keyEnv: []string{"VULCAN_OPENROUTER_API_KEY", "OPENROUTER_API_KEY"}},
}

func lookupBackend(name string) (backend, bool) {
	for _, b := range backends {
		if b.name == name {
			return b, true
		}
	}
	return backend{}, false
}

func (b backend) envKey() string {
	for _, k := range b.keyEnv {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// DefaultRetry is three attempts starting at one second.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2,
		Timeout:     2 * time.Minute,
	}
}

// Resolve builds a Config from explicit settings, filling the gaps from
// the environment. With no provider named, the first backend whose API
// key is set wins.
func Resolve(provider, model, apiKey string) (Config, error) {
	cfg := Config{
		Provider: strings.ToLower(strings.TrimSpace(provider)),
		Model:    model,
		APIKey:   apiKey,
		Retry:    DefaultRetry(),
	}
	if cfg.Provider == "mock" {
		return cfg, nil
	}

	if cfg.Provider == "" {
		for _, b := range backends {
			if key := b.envKey(); key != "" {
				cfg.Provider = b.name
				if cfg.APIKey == "" {
					cfg.APIKey = key
				}
				break
			}
		}
		if cfg.Provider == "" {
			return Config{}, fmt.Errorf("no LLM provider configured: set llm.provider or one of GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, OPENROUTER_API_KEY")
		}
	}

	b, ok := lookupBackend(cfg.Provider)
	if !ok {
		return Config{}, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = b.envKey()
	}
	if cfg.APIKey == "" {
		return Config{}, fmt.Errorf("%s needs an API key (%s)", b.name, strings.Join(b.keyEnv, " or "))
	}
	if cfg.Model == "" {
		cfg.Model = b.model
	}
	if u := os.Getenv("VULCAN_" + strings.ToUpper(b.name) + "_BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	return cfg, nil
}

// New builds the configured provider wrapped in retries and, when repo is
// non-nil, request recording. Every attempt is recorded.
func New(ctx context.Context, cfg Config, repo store.EventRepo) (Provider, error) {
	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case "anthropic":
		p, err = NewAnthropic(cfg.APIKey, cfg.Model)
	case "openai":
		p, err = NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "openrouter":
		p, err = NewOpenRouter(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case "gemini":
		p, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	case "mock":
		p = &Mock{}
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s: %w", cfg.Provider, err)
	}

	if repo != nil {
		p = Record(p, repo)
	}
	return Retry(p, cfg.Retry), nil
}

// resolveModel expands a friendly alias; unknown names are model IDs.
func resolveModel(name string, aliases map[string]string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}
