package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBatching(); err != nil {
		return err
	}
	if err := c.validateCovers(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateBatching() error {
	if c.Batching.BatchSize < 1 {
		return errors.New("batching.batch_size must be at least 1")
	}
	if len(c.Batching.VolumeExtensions) == 0 {
		return errors.New("batching.volume_extensions must not be empty")
	}
	return nil
}

func (c *Config) validateCovers() error {
	if len(c.Covers.ImageExtensions) == 0 {
		return errors.New("covers.image_extensions must not be empty")
	}
	if c.Covers.TextScale <= 0 || c.Covers.TextScale > 1 {
		return errors.New("covers.text_scale must be between 0 and 1")
	}
	if c.Covers.MarginFraction < 0 || c.Covers.MarginFraction >= 0.5 {
		return errors.New("covers.margin_fraction must be between 0 and 0.5")
	}
	if c.Covers.JPEGQuality < 1 || c.Covers.JPEGQuality > 100 {
		return errors.New("covers.jpeg_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateProviders() error {
	if c.Providers.TimeoutSeconds < 1 {
		return errors.New("providers.timeout_seconds must be at least 1")
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
