package config

import (
	"fmt"
	"time"
)

// Validate ensures the configuration is usable. The TMDB key is optional:
// without it resolution degrades to fuzzy matching and placeholders.
func (c *Config) Validate() error {
	if err := c.validateScrape(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScrape() error {
	if _, err := time.LoadLocation(c.Scrape.Timezone); err != nil {
		return fmt.Errorf("scrape.timezone: unknown zone %q: %w", c.Scrape.Timezone, err)
	}
	if c.Scrape.Concurrency > 64 {
		return fmt.Errorf("scrape.concurrency: %d exceeds maximum of 64", c.Scrape.Concurrency)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
		return nil
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
}

// Location returns the IANA time zone showings are scraped in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scrape.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
