package logging

import "context"

// Context keys for logging values.
// Using a private type to avoid key collisions.
type contextKey int

const (
	componentKey contextKey = iota
	pathKey
	batchKey
)

// WithComponent adds a component name to the context.
// Component names identify the subsystem generating logs
// (e.g., "session", "hooks", "recheck", "payload").
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, componentKey, component)
}

// WithPath adds a repository-relative file path to the context.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey, path)
}

// WithBatch adds a 1-based recheck batch number to the context.
func WithBatch(ctx context.Context, batch int) context.Context {
	return context.WithValue(ctx, batchKey, batch)
}

// ComponentFromContext extracts the component name from the context.
// Returns empty string if not set.
func ComponentFromContext(ctx context.Context) string {
	if v := ctx.Value(componentKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
