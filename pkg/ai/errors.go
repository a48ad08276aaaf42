package ai

import "fmt"

// ConfigurationError reports a missing credential or unusable settings.
// It is raised before any network activity.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

// TransportError reports a failed exchange with the provider: either a
// non-success status (Body holds the response body verbatim) or a network
// failure (Err holds the cause).
type TransportError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("OpenAI API error: %s", e.Body)
	}
	return fmt.Sprintf("OpenAI API request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
