package cfg

import "time"

type Cfg struct {
	// Application configuration
	Port        string
	SourcesFile string
	CacheDBPath string

	// Cache freshness thresholds
	FreshDuration time.Duration
	StaleDuration time.Duration

	// Fetch tuning
	FetchTimeout   time.Duration
	PlausibleFloor int

	// Background refresh
	WorkerCount       int
	SchedulerInterval int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
