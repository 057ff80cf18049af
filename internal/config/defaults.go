package config

const (
	defaultBatchSize      = 20
	defaultTextScale      = 0.90
	defaultMarginFraction = 0.06
	defaultJPEGQuality    = 95
	defaultTimeoutSeconds = 20
	defaultUserAgent      = "tanko/1.0 (+https://example.invalid)"
	defaultCachePath      = "~/.cache/tanko/covers.json"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Batching: Batching{
			BatchSize:        defaultBatchSize,
			VolumeExtensions: []string{".cbz", ".cbr", ".cb7", ".zip"},
		},
		Covers: Covers{
			ImageExtensions: []string{".jpg", ".jpeg", ".png", ".webp"},
			LocalCandidates: []string{
				"cover.jpg",
				"cover.jpeg",
				"cover.png",
				"poster.jpg",
				"poster.png",
				"cover_old.jpg",
			},
			TextScale:      defaultTextScale,
			MarginFraction: defaultMarginFraction,
			JPEGQuality:    defaultJPEGQuality,
		},
		Providers: Providers{
			MangaDex:       true,
			AniList:        true,
			Kitsu:          true,
			TimeoutSeconds: defaultTimeoutSeconds,
			UserAgent:      defaultUserAgent,
			CachePath:      defaultCachePath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
