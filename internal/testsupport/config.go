package testsupport

import (
	"path/filepath"
	"testing"

	"brewbook/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = base
	cfgVal.Paths.RecipesDir = filepath.Join(base, "recipes")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Index.Path = filepath.Join(base, "index.db")
	cfgVal.Server.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure test directories: %v", err)
	}
	return builder.cfg
}

// WithAPIToken enables bearer-token auth on the test config.
func WithAPIToken(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Server.APIToken = token
	}
}

// WithoutIndex disables the summary index.
func WithoutIndex() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Index.Enabled = false
	}
}

// WithColorTable points the config at a color table written into the base
// directory.
func WithColorTable(csv string) ConfigOption {
	return func(b *configBuilder) {
		path := filepath.Join(b.baseDir, "srm.csv")
		WriteFile(b.t, path, []byte(csv))
		b.cfg.Colors.TablePath = path
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return cfg.Paths.DataDir
}
