package config

const (
	defaultDataDir           = "~/.local/share/cinescout/data"
	defaultLogDir            = "~/.local/share/cinescout/logs"
	defaultAPIBind           = "127.0.0.1:7560"
	defaultTMDBBaseURL       = "https://api.themoviedb.org/3"
	defaultTMDBLanguage      = "en-GB"
	defaultTMDBTimeout       = 10
	defaultScrapeDaysAhead   = 14
	defaultScrapeTimeout     = 30
	defaultScrapeConcurrency = 4
	defaultScrapeTimezone    = "Europe/London"
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		TMDB: TMDB{
			BaseURL:        defaultTMDBBaseURL,
			Language:       defaultTMDBLanguage,
			RequestTimeout: defaultTMDBTimeout,
		},
		Scrape: Scrape{
			DaysAhead:      defaultScrapeDaysAhead,
			RequestTimeout: defaultScrapeTimeout,
			Concurrency:    defaultScrapeConcurrency,
			Timezone:       defaultScrapeTimezone,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
