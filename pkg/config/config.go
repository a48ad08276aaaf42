package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderGoogle = "google"
)

// Config represents the application configuration
type Config struct {
	Provider  string                    `json:"provider"`
	Providers ProvidersConfig           `json:"providers"`
	Actions   map[string]ActionOverride `json:"actions,omitempty"`
	LogLevel  string                    `json:"log_level"`
	LogFormat string                    `json:"log_format"`
	LogFile   string                    `json:"log_file"`
}

// ProvidersConfig holds per-provider connection settings
type ProvidersConfig struct {
	OpenAI ProviderConfig `json:"openai"`
	Google ProviderConfig `json:"google"`
}

// ProviderConfig describes how to reach a provider. The API key itself is
// never stored; APIKeyEnv names the environment variable holding it.
type ProviderConfig struct {
	APIURL            string `json:"api_url,omitempty"`
	APIKeyEnv         string `json:"api_key_env"`
	APITimeoutSeconds int    `json:"api_timeout_seconds,omitempty"` // 0 = no client timeout
}

// ActionOverride replaces fields of a built-in action. Zero values keep the default.
type ActionOverride struct {
	Model           string `json:"model,omitempty"`
	ReasoningEffort string `json:"reasoning_effort,omitempty"` // "none" removes the hint
	MaxOutputTokens int    `json:"max_output_tokens,omitempty"`
	TokenField      string `json:"token_field,omitempty"`
	MaxChars        int    `json:"max_chars,omitempty"`
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		Provider: ProviderOpenAI,
		Providers: ProvidersConfig{
			OpenAI: ProviderConfig{
				APIURL:    "https://api.openai.com/v1",
				APIKeyEnv: "OPENAI_API_KEY",
			},
			Google: ProviderConfig{
				APIKeyEnv: "GEMINI_API_KEY",
			},
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load loads configuration from the specified path.
// A missing file yields the defaults; nothing is written to disk.
func Load(configPath string) (Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal over the defaults so partial files keep sane values
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderGoogle:
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.Provider)
	}

	active := c.ActiveProvider()
	if strings.TrimSpace(active.APIKeyEnv) == "" {
		return fmt.Errorf("%s api_key_env must be set", c.Provider)
	}
	if active.APITimeoutSeconds < 0 {
		return fmt.Errorf("api_timeout_seconds must not be negative, got: %d", active.APITimeoutSeconds)
	}

	for name, o := range c.Actions {
		if o.MaxOutputTokens < 0 {
			return fmt.Errorf("actions.%s.max_output_tokens must not be negative, got: %d", name, o.MaxOutputTokens)
		}
		if o.MaxChars < 0 {
			return fmt.Errorf("actions.%s.max_chars must not be negative, got: %d", name, o.MaxChars)
		}
		switch o.ReasoningEffort {
		case "", "none", "low", "medium", "high":
		default:
			return fmt.Errorf("actions.%s.reasoning_effort must be low, medium, high or none, got: %s", name, o.ReasoningEffort)
		}
		switch o.TokenField {
		case "", "max_completion_tokens", "max_tokens":
		default:
			return fmt.Errorf("actions.%s.token_field must be max_completion_tokens or max_tokens, got: %s", name, o.TokenField)
		}
	}

	return nil
}

// ActiveProvider returns the settings of the selected provider.
func (c Config) ActiveProvider() ProviderConfig {
	if c.Provider == ProviderGoogle {
		return c.Providers.Google
	}
	return c.Providers.OpenAI
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".openai_helper/config.json"
	}
	return filepath.Join(homeDir, ".openai_helper", "config.json")
}
