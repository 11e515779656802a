package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrConfiguration  = errors.New("configuration error")
	ErrFetch          = errors.New("fetch error")
	ErrPromptNotFound = errors.New("prompt not found")
	ErrSubmit         = errors.New("submit error")
)

// ConfigurationError reports an unreadable or missing input such as the source manifest.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// FetchError reports a network failure or a non-2xx response for one source URL.
// StatusCode is zero when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d: %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// PromptNotFoundError is returned when a prompt template name is not registered.
type PromptNotFoundError struct {
	Name string
}

func (e *PromptNotFoundError) Error() string {
	return fmt.Sprintf("prompt %q not found", e.Name)
}

func (e *PromptNotFoundError) Is(target error) bool { return target == ErrPromptNotFound }

// SubmitError wraps a failure returned by the ingestion sink.
type SubmitError struct {
	ID  ContentID
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("submit document %s: %v", e.ID, e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

func (e *SubmitError) Is(target error) bool { return target == ErrSubmit }
