package pipeline

import (
	"context"
	"log/slog"
	"time"

	"fitsync/internal/aggregate"
	"fitsync/internal/artifact"
	"fitsync/internal/config"
	"fitsync/internal/merge"
	"fitsync/internal/source"
)

// IntervalsSource is the primary adapter: activities, wellness, and the
// athlete profile.
type IntervalsSource interface {
	FetchActivities(ctx context.Context, oldest, newest string) ([]source.IntervalsActivity, error)
	FetchWellness(ctx context.Context, oldest, newest string) ([]source.IntervalsWellness, error)
	FetchAthlete(ctx context.Context) (source.IntervalsAthlete, error)
}

// StravaSource is the secondary adapter.
type StravaSource interface {
	Authenticate(ctx context.Context) error
	FetchActivities(ctx context.Context, after time.Time) ([]source.StravaActivity, error)
	FetchActivitySegments(ctx context.Context, activityID string) ([]source.StravaSegmentEffort, error)
}

// Concept2Source is the tertiary adapter.
type Concept2Source interface {
	FetchResults(ctx context.Context, from, to string) ([]source.Concept2Result, error)
}

// FitSource imports local FIT exports.
type FitSource interface {
	Import() ([]source.FitSession, error)
}

// Sources bundles the adapters. Nil entries are constructed from config
// when credentials exist; tests inject fakes.
type Sources struct {
	Intervals IntervalsSource
	Strava    StravaSource
	Concept2  Concept2Source
	Fit       FitSource
}

// Options configures one pipeline run.
type Options struct {
	Config  *config.Config
	Logger  *slog.Logger
	Sink    artifact.Sink // defaults to a DirSink over Config.Output.Dir
	Sources Sources
	Now     time.Time // defaults to time.Now()
}

// Result reports what one run produced.
type Result struct {
	RunID          string
	StartedAt      time.Time
	FinishedAt     time.Time
	ActivityCount  int
	WellnessCount  int
	MergeStats     merge.Stats
	Sources        map[string]bool // source name -> contributed this run
	Snapshot       aggregate.AthleteSnapshot
	ArtifactErrors []string
}

// Failed reports whether any artifact write failed. The process exit status
// mirrors this.
func (r *Result) Failed() bool {
	return len(r.ArtifactErrors) > 0
}
