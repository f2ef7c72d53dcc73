package config

const (
	defaultInstancesDir      = "~/.local/share/lodestone/instances"
	defaultCachePath         = "~/.cache/lodestone/content_cache.json"
	defaultLogDir            = "~/.local/share/lodestone/logs"
	defaultModrinthBaseURL   = "https://api.modrinth.com/v2"
	defaultModrinthUserAgent = "lodestone/dev"
	defaultCurseForgeBaseURL = "https://api.curseforge.com/v1"
	defaultIdentityTTLDays   = 30
	defaultUpdateTTLHours    = 6
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InstancesDir: defaultInstancesDir,
			CachePath:    defaultCachePath,
			LogDir:       defaultLogDir,
		},
		Modrinth: Modrinth{
			BaseURL:   defaultModrinthBaseURL,
			UserAgent: defaultModrinthUserAgent,
		},
		CurseForge: CurseForge{
			BaseURL: defaultCurseForgeBaseURL,
		},
		Cache: Cache{
			IdentityTTLDays: defaultIdentityTTLDays,
			UpdateTTLHours:  defaultUpdateTTLHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
