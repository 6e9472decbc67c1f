package config

// Default returns the baseline configuration before file and environment
// merging.
func Default() *Config {
	return &Config{
		Sync: Sync{
			HistoryStart:   "2025-01-01",
			HeatmapDays:    []int{365},
			PBDistancesM:   []float64{1000, 5000, 10000, 21097.5},
			PBTolerance:    0.15,
			MaxRetries:     3,
			RetryBackoffS:  5,
			RequestDelayMS: 500,
		},
		Output: Output{
			Dir:        "docs/data",
			RunLogPath: "docs/data/runs.db",
		},
		Server: Server{Bind: "127.0.0.1:8823"},
		Log:    Log{Level: "info", Format: "text"},
	}
}

// normalize backfills zero values that a partial config file may have left
// behind.
func (c *Config) normalize() {
	def := Default()
	if c.Sync.HistoryStart == "" {
		c.Sync.HistoryStart = def.Sync.HistoryStart
	}
	if len(c.Sync.HeatmapDays) == 0 {
		c.Sync.HeatmapDays = def.Sync.HeatmapDays
	}
	if len(c.Sync.PBDistancesM) == 0 {
		c.Sync.PBDistancesM = def.Sync.PBDistancesM
	}
	if c.Sync.PBTolerance <= 0 {
		c.Sync.PBTolerance = def.Sync.PBTolerance
	}
	if c.Sync.MaxRetries <= 0 {
		c.Sync.MaxRetries = def.Sync.MaxRetries
	}
	if c.Sync.RetryBackoffS <= 0 {
		c.Sync.RetryBackoffS = def.Sync.RetryBackoffS
	}
	if c.Sync.RequestDelayMS < 0 {
		c.Sync.RequestDelayMS = def.Sync.RequestDelayMS
	}
	if c.Output.Dir == "" {
		c.Output.Dir = def.Output.Dir
	}
	if c.Output.RunLogPath == "" {
		c.Output.RunLogPath = def.Output.RunLogPath
	}
	if c.Server.Bind == "" {
		c.Server.Bind = def.Server.Bind
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
}
