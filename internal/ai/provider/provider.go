// Package provider defines the interface for text completion backends used by
// the financial advisor, with Mistral and YandexGPT implementations.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"bizledger/internal/config"
)

// Provider names.
const (
	NameMistral = "mistral"
	NameYandex  = "yandex"
	NameOffline = "offline"
)

// ErrNotConfigured is returned by Complete when the provider has no credentials.
var ErrNotConfigured = errors.New("provider not configured")

// Request is a single completion request.
type Request struct {
	Context string // economy, report, forecast or general
	System  string
	Message string
}

// Completion is the text returned by a provider.
type Completion struct {
	Text     string
	Tokens   int
	Provider string
}

// Error represents a failed completion call.
type Error struct {
	Provider   string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s completion failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s completion failed: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Provider produces completions for a system prompt and a user message.
type Provider interface {
	// Name returns the provider identifier stored with generated artifacts.
	Name() string

	// Configured reports whether the provider has the credentials it needs.
	Configured() bool

	// Complete sends one request. It makes a single attempt without retry.
	Complete(ctx context.Context, req Request) (*Completion, error)
}

// New selects the provider named by cfg.AIProvider. Unknown names yield the
// offline provider.
func New(cfg *config.Config) Provider {
	httpClient := &http.Client{Timeout: cfg.AITimeout}

	switch cfg.AIProvider {
	case NameMistral:
		return NewMistralProvider(httpClient, cfg.MistralAPIKey, cfg.MistralModel, cfg.MistralBaseURL)
	case NameYandex:
		return NewYandexProvider(httpClient, cfg.YandexAPIKey, cfg.YandexFolderID, cfg.YandexModel, cfg.YandexBaseURL)
	default:
		return Offline{}
	}
}
