package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"cinescout/internal/catalog"
	"cinescout/internal/config"
	"cinescout/internal/logging"
	"cinescout/internal/resolver"
	"cinescout/internal/tmdb"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
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

func (c *commandContext) openStore() (*catalog.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return catalog.Open(cfg)
}

func (c *commandContext) buildLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.NewFromConfig(cfg)
}

// newResolver wires the resolver against the configured metadata provider.
// Without an API key the searcher stays nil and resolution falls back to
// fuzzy matching and placeholders.
func (c *commandContext) newResolver(store *catalog.Store, logger *slog.Logger) (*resolver.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	var searcher tmdb.Searcher
	if strings.TrimSpace(cfg.TMDB.APIKey) != "" {
		client, err := tmdb.New(
			cfg.TMDB.APIKey,
			cfg.TMDB.BaseURL,
			cfg.TMDB.Language,
			tmdb.WithTimeout(time.Duration(cfg.TMDB.RequestTimeout)*time.Second),
		)
		if err != nil {
			return nil, err
		}
		searcher = client
	}
	return resolver.New(store, searcher, logger), nil
}
