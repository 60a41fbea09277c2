package testsupport

import (
	"path/filepath"
	"testing"

	"otadocs/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config rooted in a unique temp directory per test.
// Paths are already absolute, matching what config.Load would return.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.RegistryFile = filepath.Join(cfgVal.Paths.OutputDir, "devices.json")
	cfgVal.Paths.ImagesDir = filepath.Join(cfgVal.Paths.OutputDir, "images")
	cfgVal.Paths.InstructionsDir = filepath.Join(cfgVal.Paths.OutputDir, "instructions")
	cfgVal.HTTP.TimeoutSeconds = 5

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithUpstream points every upstream endpoint at the fake server.
func WithUpstream(u *Upstream) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OTA.APIBaseURL = u.URL() + "/api"
		b.cfg.OTA.RawBaseURL = u.URL() + "/raw"
		b.cfg.Assets.BaseURL = u.URL() + "/images"
	}
}

// WithMirrorTemplate overrides the download link template.
func WithMirrorTemplate(template string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Mirror.DownloadURLTemplate = template
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
