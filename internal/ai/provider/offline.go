package provider

import "context"

// Offline is a provider that is never configured. Callers fall back to
// locally rendered text.
type Offline struct{}

// Name returns "offline".
func (Offline) Name() string { return NameOffline }

// Configured always returns false.
func (Offline) Configured() bool { return false }

// Complete always returns ErrNotConfigured.
func (Offline) Complete(_ context.Context, _ Request) (*Completion, error) {
	return nil, ErrNotConfigured
}
