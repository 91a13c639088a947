package config

import "context"

// Loader is the interface for a format-specific workspace loader.
type Loader interface {
	// Load reads workspace description files from the given paths and
	// translates them into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Workspace, error)
}
