package testsupport

import (
	"path/filepath"
	"testing"

	"lodestone/internal/config"
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
	cfgVal.Paths.InstancesDir = filepath.Join(base, "instances")
	cfgVal.Paths.CachePath = filepath.Join(base, "cache", "content_cache.json")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Logging.Level = "error"

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

// WithCurseForgeKey sets the CurseForge API key on the test config.
func WithCurseForgeKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.CurseForge.APIKey = key
	}
}

// WithCacheTTLs overrides the cache TTL windows on the test config.
func WithCacheTTLs(identityDays, updateHours int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Cache.IdentityTTLDays = identityDays
		b.cfg.Cache.UpdateTTLHours = updateHours
	}
}
