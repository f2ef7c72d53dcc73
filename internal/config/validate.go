package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateCatalogs(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateCatalogs() error {
	for name, base := range map[string]string{
		"modrinth.base_url":   c.Modrinth.BaseURL,
		"curseforge.base_url": c.CurseForge.BaseURL,
	} {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, base)
		}
	}
	return nil
}

func (c *Config) validateCache() error {
	if c.Cache.IdentityTTLDays < 0 {
		return errors.New("cache.identity_ttl_days must not be negative")
	}
	if c.Cache.UpdateTTLHours < 0 {
		return errors.New("cache.update_ttl_hours must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
