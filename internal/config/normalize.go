package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCatalogs()
	c.normalizeCache()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.InstancesDir) == "" {
		c.Paths.InstancesDir = defaultInstancesDir
	}
	if c.Paths.InstancesDir, err = expandPath(c.Paths.InstancesDir); err != nil {
		return fmt.Errorf("paths.instances_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.CachePath) == "" {
		c.Paths.CachePath = defaultCachePath
	}
	if c.Paths.CachePath, err = expandPath(c.Paths.CachePath); err != nil {
		return fmt.Errorf("paths.cache_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalogs() {
	c.Modrinth.BaseURL = strings.TrimRight(strings.TrimSpace(c.Modrinth.BaseURL), "/")
	if c.Modrinth.BaseURL == "" {
		c.Modrinth.BaseURL = defaultModrinthBaseURL
	}
	c.Modrinth.UserAgent = strings.TrimSpace(c.Modrinth.UserAgent)
	if c.Modrinth.UserAgent == "" {
		c.Modrinth.UserAgent = defaultModrinthUserAgent
	}
	c.CurseForge.BaseURL = strings.TrimRight(strings.TrimSpace(c.CurseForge.BaseURL), "/")
	if c.CurseForge.BaseURL == "" {
		c.CurseForge.BaseURL = defaultCurseForgeBaseURL
	}
	c.CurseForge.APIKey = strings.TrimSpace(c.CurseForge.APIKey)
	if c.CurseForge.APIKey == "" {
		if value, ok := os.LookupEnv("CURSEFORGE_API_KEY"); ok {
			c.CurseForge.APIKey = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeCache() {
	if c.Cache.IdentityTTLDays == 0 {
		c.Cache.IdentityTTLDays = defaultIdentityTTLDays
	}
	if c.Cache.UpdateTTLHours == 0 {
		c.Cache.UpdateTTLHours = defaultUpdateTTLHours
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
