package commands

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sunscrape/internal/components/configutil"
	"sunscrape/internal/components/telemetry"
	"sunscrape/internal/scrapers/campaignfinance"
	"time"
)

const defaultConfigName = "sunscrape.json5"

type Config struct {
	BaseUrl           string  `json:"base_url"`
	UserAgent         string  `json:"user_agent"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	Retries           *int    `json:"retries"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	CloudflareBypass  bool    `json:"cloudflare_bypass"`
	DumpHttp          bool    `json:"dump_http"`
	// OutputDir is where csv files without an explicit path are written.
	OutputDir string `json:"output_dir"`
	// Database is the sqlite file used by the sqlite output format.
	Database  string           `json:"database"`
	Telemetry telemetry.Config `json:"telemetry"`
}

func (c Config) ClientOptions() campaignfinance.ClientOptions {
	opts := campaignfinance.DefaultClientOptions()
	if c.BaseUrl != "" {
		opts.BaseUrl = c.BaseUrl
	}
	if c.UserAgent != "" {
		opts.UserAgent = c.UserAgent
	}
	if c.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(c.TimeoutSeconds) * time.Second
	}
	if c.Retries != nil {
		opts.Retries = *c.Retries
	}
	if c.RequestsPerSecond > 0 {
		opts.RequestsPerSecond = c.RequestsPerSecond
	}
	opts.CloudflareBypass = c.CloudflareBypass
	opts.DumpHttp = c.DumpHttp
	return opts
}

func (c Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return filepath.Join(c.OutputDir, "sunscrape.db")
}

// LoadConfig reads the config at path. A bare file name is searched for from
// the working directory upwards. A missing config yields the defaults.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	var err error
	if filepath.Base(path) == path {
		cfg, err = configutil.ReadRecursively[Config](".", path)
	} else {
		cfg, err = configutil.ReadConfig[Config](path)
	}
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("no config found, using defaults", "path", path)
		return Config{}, nil
	}
	return cfg, err
}
