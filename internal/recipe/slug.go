package recipe

import (
	"fmt"
	"strings"

	"brewbook/internal/textutil"
)

// SlugFromName derives a slug from a recipe display name.
func SlugFromName(name string) string {
	return textutil.Slugify(name)
}

// ValidateSlug rejects identifiers that cannot safely name a backing document.
func ValidateSlug(slug string) error {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return fmt.Errorf("%w: empty", ErrInvalidSlug)
	}
	if trimmed != slug {
		return fmt.Errorf("%w: %q has surrounding whitespace", ErrInvalidSlug, slug)
	}
	if trimmed == "." || trimmed == ".." || strings.HasPrefix(trimmed, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidSlug, slug)
	}
	if strings.ContainsAny(trimmed, `/\:*?"<>|`) {
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidSlug, slug)
	}
	return nil
}
