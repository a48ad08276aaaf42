package ai

import (
	"fmt"
	"os"
	"strings"
)

// KeyProvider supplies the API credential. Providers call it once per request.
type KeyProvider interface {
	APIKey() string
	// Source describes where the key comes from, for error messages.
	Source() string
}

// EnvKeyProvider reads the key from an environment variable.
type EnvKeyProvider struct {
	Var string
}

func (p EnvKeyProvider) APIKey() string {
	return os.Getenv(p.Var)
}

func (p EnvKeyProvider) Source() string {
	return "environment variable " + p.Var
}

// StaticKey is a fixed credential, mainly for tests.
type StaticKey string

func (k StaticKey) APIKey() string { return string(k) }
func (k StaticKey) Source() string { return "static key" }

// RequireKey returns the trimmed key or a ConfigurationError naming label.
func RequireKey(keys KeyProvider, label string) (string, error) {
	if keys == nil {
		return "", &ConfigurationError{Msg: fmt.Sprintf("%s API key provider is not configured.", label)}
	}
	key := strings.TrimSpace(keys.APIKey())
	if key == "" {
		return "", &ConfigurationError{Msg: fmt.Sprintf("%s API key not set in %s.", label, keys.Source())}
	}
	return key, nil
}
