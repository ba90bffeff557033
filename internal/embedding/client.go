package embedding

import (
	"context"
	"fmt"
)

// Client is the interface for embedding providers. Implementations must
// return one vector per input text, in input order, with a fixed
// dimensionality per model across all calls.
type Client interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// ProviderError wraps any embedding-call failure: transport errors, timeouts,
// malformed responses and count or dimension mismatches. It is surfaced to
// the caller unchanged; the pipeline never retries internally.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("embedding provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// providerErrorf builds a ProviderError from a format string
func providerErrorf(provider, format string, args ...any) *ProviderError {
	return &ProviderError{Provider: provider, Err: fmt.Errorf(format, args...)}
}
