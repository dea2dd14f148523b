package llm

import "context"

// Provider is a remote completion service that turns a system instruction and
// user text into completion text.
type Provider interface {
	Name() string
	Complete(ctx context.Context, system, user string) (string, error)
}

// Cache stores completions keyed by request fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Close() error
}
