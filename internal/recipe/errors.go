package recipe

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound    = errors.New("recipe not found")
	ErrInvalidSlug = errors.New("invalid recipe slug")
)
