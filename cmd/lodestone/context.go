package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"lodestone/internal/catalog"
	"lodestone/internal/catalog/curseforge"
	"lodestone/internal/catalog/modrinth"
	"lodestone/internal/config"
	"lodestone/internal/contentcache"
	"lodestone/internal/enrich"
	"lodestone/internal/instances"
	"lodestone/internal/logging"
	"lodestone/internal/updatecheck"
)

type commandContext struct {
	configFlag  *string
	verboseFlag *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	cacheOnce sync.Once
	cache     *contentcache.Store
}

func newCommandContext(configFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:  configFlag,
		verboseFlag: verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		level := cfg.Logging.Level
		if c.verboseFlag != nil && *c.verboseFlag {
			level = "debug"
		}
		logger, err := logging.New(logging.Options{
			Level:       level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{"stderr"},
		})
		if err != nil {
			c.loggerErr = fmt.Errorf("setup logging: %w", err)
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) cacheStore() (*contentcache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	c.cacheOnce.Do(func() {
		c.cache = contentcache.NewStore(cfg.Paths.CachePath, logger,
			contentcache.WithTTLs(cfg.IdentityTTL(), cfg.UpdateTTL()))
	})
	return c.cache, nil
}

func (c *commandContext) instanceRegistry() (*instances.Registry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return instances.NewRegistry(cfg.Paths.InstancesDir, logger), nil
}

// searchers builds the catalog clients in query order. CurseForge is
// included only when an API key is configured.
func (c *commandContext) searchers() ([]catalog.Searcher, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	modrinthClient, err := modrinth.New(cfg.Modrinth.BaseURL, cfg.Modrinth.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("build modrinth client: %w", err)
	}
	searchers := []catalog.Searcher{modrinthClient}

	if strings.TrimSpace(cfg.CurseForge.APIKey) != "" {
		curseforgeClient, err := curseforge.New(cfg.CurseForge.BaseURL, cfg.CurseForge.APIKey)
		if err != nil {
			return nil, fmt.Errorf("build curseforge client: %w", err)
		}
		searchers = append(searchers, curseforgeClient)
	}
	return searchers, nil
}

func (c *commandContext) versionListers() (map[catalog.Platform]catalog.VersionLister, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	modrinthClient, err := modrinth.New(cfg.Modrinth.BaseURL, cfg.Modrinth.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("build modrinth client: %w", err)
	}
	return map[catalog.Platform]catalog.VersionLister{
		catalog.PlatformModrinth: modrinthClient,
	}, nil
}

func (c *commandContext) enricher() (*enrich.Enricher, error) {
	searchers, err := c.searchers()
	if err != nil {
		return nil, err
	}
	cache, err := c.cacheStore()
	if err != nil {
		return nil, err
	}
	registry, err := c.instanceRegistry()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return enrich.New(searchers, cache, registry, logger), nil
}

func (c *commandContext) updateChecker() (*updatecheck.Checker, error) {
	listers, err := c.versionListers()
	if err != nil {
		return nil, err
	}
	cache, err := c.cacheStore()
	if err != nil {
		return nil, err
	}
	registry, err := c.instanceRegistry()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	return updatecheck.New(listers, cache, registry, logger), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
