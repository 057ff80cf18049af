package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"tanko/internal/archive"
	"tanko/internal/config"
	"tanko/internal/cover"
	"tanko/internal/cover/anilist"
	"tanko/internal/cover/kitsu"
	"tanko/internal/cover/mangadex"
	"tanko/internal/covercache"
	"tanko/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	c.loggerOnce.Do(func() {
		logger, err := logging.New(logging.Options{
			Level:  cfg.Logging.Level,
			Format: cfg.Logging.Format,
		})
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger, nil
}

// newResolver wires the full cover chain from configuration: the archive
// inspector, the enabled remote providers in fixed order, and the URL cache.
func (c *commandContext) newResolver() (*cover.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}

	var providers []cover.Provider
	if cfg.Providers.MangaDex {
		providers = append(providers, mangadex.New("", cfg.Providers.UserAgent))
	}
	if cfg.Providers.AniList {
		providers = append(providers, anilist.New("", cfg.Providers.UserAgent))
	}
	if cfg.Providers.Kitsu {
		providers = append(providers, kitsu.New("", cfg.Providers.UserAgent))
	}

	var fetcher cover.RemoteFetcher
	if len(providers) > 0 {
		cache := covercache.New(cfg.Providers.CachePath, logger)
		timeout := time.Duration(cfg.Providers.TimeoutSeconds) * time.Second
		fetcher = cover.NewFetcher(providers, cache, cfg.Providers.UserAgent, timeout, logger)
	}

	inspector := archive.NewInspector(archive.ZipReader{}, cfg.ImageExtension)
	return cover.NewResolver(cfg, inspector, fetcher, logger), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
