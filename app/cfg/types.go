package cfg

type Cfg struct {
	// Crawl configuration
	FeedsFile      string
	CacheFile      string
	DataDir        string
	WorkerCount    int
	FetchTimeout   int
	ExtractTimeout int

	// Run modes
	Verbose    bool
	Debug      bool
	ClearCache bool
	SkipCache  bool
	Production bool

	// Database configuration
	DBPath string

	// Read API
	Serve bool
	Port  string

	// Application metadata
	UserAgent string
	Version   string
}
