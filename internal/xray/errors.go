package xray

import (
	"fmt"
	"strings"
)

// FormatError reports a malformed or structurally incomplete report file.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed report %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// TransportError reports a rejected or failed call to Xray or Jira.
// StatusCode is zero when no response was received.
type TransportError struct {
	Op         string
	StatusCode int
	Status     string
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)

	if e.StatusCode != 0 {
		fmt.Fprintf(&b, ": http %d", e.StatusCode)
		if e.Status != "" {
			fmt.Fprintf(&b, " (%s)", e.Status)
		}
	}

	if body := strings.TrimSpace(e.Body); body != "" {
		fmt.Fprintf(&b, ": %s", body)
	}

	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}

	return b.String()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ConfigError reports an invalid run configuration, detected before any network call.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Reason
	}

	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}
