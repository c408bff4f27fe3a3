package storage

import (
	"context"
	"fmt"
	"strings"

	"brewbook/internal/config"
	"brewbook/internal/recipe"
)

// DocumentExt is the extension every stored recipe document carries.
const DocumentExt = ".xml"

// Backend stores raw recipe documents keyed by slug.
type Backend interface {
	// List returns the slugs of every stored document in ascending order.
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, slug string) ([]byte, error)
	// Write replaces the whole document. A failed write leaves any previous
	// document untouched.
	Write(ctx context.Context, slug string, data []byte) error
	// Delete reports whether a document existed.
	Delete(ctx context.Context, slug string) (bool, error)
	Driver() string
}

// Open constructs the backend named by cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage: config is required")
	}
	switch cfg.Storage.Driver {
	case config.StorageFilesystem, "":
		return NewFS(cfg.Paths.RecipesDir)
	case config.StorageS3:
		return NewS3(ctx, S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			Prefix:    cfg.S3.Prefix,
			PathStyle: cfg.S3.PathStyle,

			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
		})
	default:
		return nil, fmt.Errorf("storage: unsupported driver %q", cfg.Storage.Driver)
	}
}

func documentName(slug string) (string, error) {
	if err := recipe.ValidateSlug(slug); err != nil {
		return "", err
	}
	return slug + DocumentExt, nil
}

func slugFromName(name string) (string, bool) {
	if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, DocumentExt) {
		return "", false
	}
	slug := strings.TrimSuffix(name, DocumentExt)
	if recipe.ValidateSlug(slug) != nil {
		return "", false
	}
	return slug, true
}

func notFound(slug string) error {
	return fmt.Errorf("recipe %q: %w", slug, recipe.ErrNotFound)
}
