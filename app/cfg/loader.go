package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Application configuration
	Port        string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	SourcesFile string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file with category feed sources and proxy endpoints"`
	CacheDBPath string `long:"cache-db" env:"CACHE_DB" default:"./news_cache.db" description:"Path to the SQLite cache database"`

	// Cache freshness thresholds (seconds)
	FreshDuration int `long:"fresh-duration" env:"FRESH_DURATION" default:"300" description:"Age in seconds below which a cache entry is fresh"`
	StaleDuration int `long:"stale-duration" env:"STALE_DURATION" default:"1800" description:"Age in seconds above which a cache entry is expired"`

	// Fetch tuning
	FetchTimeout   int `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"15" description:"Per-request fetch timeout in seconds"`
	PlausibleFloor int `long:"plausible-floor" env:"PLAUSIBLE_FLOOR" default:"500" description:"Minimum payload size in bytes considered real content"`

	// Background refresh
	WorkerCount       int `long:"worker-count" env:"WORKER_COUNT" default:"5" description:"Number of background workers for category refreshes"`
	SchedulerInterval int `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"60" description:"Scheduler interval in seconds"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, Asia/Kathmandu)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Port:              raw.Port,
		SourcesFile:       raw.SourcesFile,
		CacheDBPath:       raw.CacheDBPath,
		FreshDuration:     time.Duration(raw.FreshDuration) * time.Second,
		StaleDuration:     time.Duration(raw.StaleDuration) * time.Second,
		FetchTimeout:      time.Duration(raw.FetchTimeout) * time.Second,
		PlausibleFloor:    raw.PlausibleFloor,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

// Set replaces the global configuration. Intended for tests.
func Set(c *Cfg) {
	globalCfg = c
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
