package config

import "strings"

// normalize sanitizes decoded values before validation: extensions gain
// leading dots and lowercase form, paths expand, empty knobs regain defaults.
func (c *Config) normalize() error {
	c.Batching.VolumeExtensions = normalizeExtensions(c.Batching.VolumeExtensions)
	c.Covers.ImageExtensions = normalizeExtensions(c.Covers.ImageExtensions)

	for i, name := range c.Covers.LocalCandidates {
		c.Covers.LocalCandidates[i] = strings.TrimSpace(name)
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	c.Providers.UserAgent = strings.TrimSpace(c.Providers.UserAgent)
	if c.Providers.UserAgent == "" {
		c.Providers.UserAgent = defaultUserAgent
	}

	if strings.TrimSpace(c.Providers.CachePath) != "" {
		expanded, err := expandPath(c.Providers.CachePath)
		if err != nil {
			return err
		}
		c.Providers.CachePath = expanded
	}

	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
