// Package config loads the application configuration: TOML file, then
// environment-variable overrides for credentials. The resulting struct is
// built once at process start and passed by reference; nothing in the core
// reads ambient state.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Intervals holds interval-platform credentials. The API key is the one
// credential the pipeline cannot run without.
type Intervals struct {
	AthleteID string `toml:"athlete_id"`
	APIKey    string `toml:"api_key"`
}

// Strava holds activity-network OAuth credentials. Optional: absent
// credentials skip the source.
type Strava struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RefreshToken string `toml:"refresh_token"`
}

// Concept2 holds ergometer-logbook credentials. Optional.
type Concept2 struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// Fit configures the optional local FIT-file import source.
type Fit struct {
	Dir string `toml:"dir"`
}

// Sync controls the fetch window and derived-view parameters.
type Sync struct {
	HistoryStart   string    `toml:"history_start"` // YYYY-MM-DD
	HeatmapDays    []int     `toml:"heatmap_days"`
	PBDistancesM   []float64 `toml:"pb_distances_m"`
	PBTolerance    float64   `toml:"pb_tolerance"`
	MaxRetries     int       `toml:"max_retries"`
	RetryBackoffS  int       `toml:"retry_backoff_s"`
	RequestDelayMS int       `toml:"request_delay_ms"`
}

// Output controls where artifacts land.
type Output struct {
	Dir        string `toml:"dir"`
	Parquet    bool   `toml:"parquet"`
	RunLogPath string `toml:"runlog_path"`
}

// Server configures the artifact preview server.
type Server struct {
	Bind string `toml:"bind"`
}

// Log configures structured logging.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text|json
}

// Config is the full application configuration.
type Config struct {
	Intervals Intervals `toml:"intervals"`
	Strava    Strava    `toml:"strava"`
	Concept2  Concept2  `toml:"concept2"`
	Fit       Fit       `toml:"fit"`
	Sync      Sync      `toml:"sync"`
	Output    Output    `toml:"output"`
	Server    Server    `toml:"server"`
	Log       Log       `toml:"log"`
}

// Load reads the file at path (missing file falls back to defaults), merges
// it over defaults, and applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// fall through to defaults + env
		case err != nil:
			return nil, fmt.Errorf("read config: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	cfg.applyEnv()
	cfg.normalize()
	return cfg, nil
}

// applyEnv lets credentials come from the environment so they stay out of
// the config file on shared machines.
func (c *Config) applyEnv() {
	setIfEnv(&c.Intervals.AthleteID, "INTERVALS_ATHLETE_ID")
	setIfEnv(&c.Intervals.APIKey, "INTERVALS_API_KEY")
	setIfEnv(&c.Strava.ClientID, "STRAVA_CLIENT_ID")
	setIfEnv(&c.Strava.ClientSecret, "STRAVA_CLIENT_SECRET")
	setIfEnv(&c.Strava.RefreshToken, "STRAVA_REFRESH_TOKEN")
	setIfEnv(&c.Concept2.Username, "CONCEPT2_USERNAME")
	setIfEnv(&c.Concept2.Password, "CONCEPT2_PASSWORD")
}

func setIfEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks invariants that must hold before a sync may start. A
// missing interval-platform key is the one fatal configuration error.
func (c *Config) Validate() error {
	if c.Intervals.APIKey == "" {
		return errors.New("intervals api_key is required (set intervals.api_key or INTERVALS_API_KEY)")
	}
	if c.Intervals.AthleteID == "" {
		return errors.New("intervals athlete_id is required")
	}
	if c.Output.Dir == "" {
		return errors.New("output dir is required")
	}
	return nil
}

// StravaConfigured reports whether the optional activity-network source has
// complete credentials.
func (c *Config) StravaConfigured() bool {
	return c.Strava.ClientID != "" && c.Strava.ClientSecret != "" && c.Strava.RefreshToken != ""
}

// Concept2Configured reports whether the optional logbook source has
// complete credentials.
func (c *Config) Concept2Configured() bool {
	return c.Concept2.Username != "" && c.Concept2.Password != ""
}

// SampleConfig returns the annotated sample configuration file.
func SampleConfig() string { return sampleConfig }
