package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"brewbook/internal/interchange"
	"brewbook/internal/recipe"
)

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteRecipe encodes r into <dir>/<slug>.xml.
func WriteRecipe(t testing.TB, dir string, r *recipe.Recipe) {
	t.Helper()

	data, err := interchange.Encode(r)
	if err != nil {
		t.Fatalf("encode %s: %v", r.Slug, err)
	}
	WriteFile(t, filepath.Join(dir, r.Slug+".xml"), data)
}

// WriteRawRecipe stores an arbitrary document under slug, for exercising
// malformed input.
func WriteRawRecipe(t testing.TB, dir, slug, document string) {
	t.Helper()
	WriteFile(t, filepath.Join(dir, slug+".xml"), []byte(document))
}
