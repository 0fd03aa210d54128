package cfg

type Cfg struct {
	// Storage configuration
	DBPath   string
	CacheTTL int // seconds, 0 disables the response cache

	// Application configuration
	ProvidersDir      string
	Port              string
	BaseUrl           string
	WorkerCount       int
	SchedulerInterval int
	APIAccessKey      string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
