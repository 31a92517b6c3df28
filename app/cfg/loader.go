package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Crawl configuration
	FeedsFile      string `long:"feeds-file" env:"FEEDS_FILE" default:"./feeds.yml" description:"Feed registry YAML file"`
	CacheFile      string `long:"cache-file" env:"CACHE_FILE" default:"./cache.txt" description:"Seen-URL cache file"`
	DataDir        string `long:"data-dir" env:"DATA_DIR" default:"./data" description:"Directory for per-language JSONL output"`
	WorkerCount    int    `long:"worker-count" env:"WORKER_COUNT" default:"10" description:"Number of workers per pipeline stage"`
	FetchTimeout   int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"30" description:"Feed download timeout in seconds"`
	ExtractTimeout int    `long:"extract-timeout" env:"EXTRACT_TIMEOUT" default:"60" description:"Article extraction timeout in seconds"`

	// Run modes
	Verbose    bool `short:"v" long:"verbose" env:"VERBOSE" description:"Enable debug logging and record echo"`
	Debug      bool `short:"d" long:"debug" env:"DEBUG" description:"Write JSONL output files instead of the database"`
	ClearCache bool `short:"c" long:"clear-cache" description:"Truncate the seen-URL cache before the run"`
	SkipCache  bool `short:"a" long:"all" description:"Ignore the seen-URL cache entirely (exhaustive re-crawl, no persistence)"`
	Production bool `short:"p" long:"production" description:"Write records to the production table instead of the test table"`

	// Database configuration
	DBPath string `long:"db-path" env:"DB_PATH" default:"./newswire.db" description:"SQLite database path"`

	// Read API
	Serve bool   `long:"serve" env:"SERVE" description:"Start the read API after the crawl completes"`
	Port  string `long:"port" env:"PORT" default:"8080" description:"HTTP server port for the read API"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Mozilla/5.0" description:"User agent string for HTTP requests"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	// Optional .env file; absence is not an error
	_ = godotenv.Load()

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

	if raw.WorkerCount < 1 {
		return nil, fmt.Errorf("worker-count must be at least 1, got %d", raw.WorkerCount)
	}

	cfg := &Cfg{
		FeedsFile:      raw.FeedsFile,
		CacheFile:      raw.CacheFile,
		DataDir:        raw.DataDir,
		WorkerCount:    raw.WorkerCount,
		FetchTimeout:   raw.FetchTimeout,
		ExtractTimeout: raw.ExtractTimeout,
		Verbose:        raw.Verbose,
		Debug:          raw.Debug,
		ClearCache:     raw.ClearCache,
		SkipCache:      raw.SkipCache,
		Production:     raw.Production,
		DBPath:         raw.DBPath,
		Serve:          raw.Serve,
		Port:           raw.Port,
		UserAgent:      raw.UserAgent,
		Version:        GetVersion(),
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
