// Package pipeline orchestrates one sync: fetch every configured source,
// merge and dedupe, derive the dashboard views, and persist the artifact
// set. Sources degrade independently; only broken configuration aborts the
// run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"fitsync/internal/aggregate"
	"fitsync/internal/artifact"
	"fitsync/internal/merge"
	"fitsync/internal/model"
	"fitsync/internal/normalize"
	"fitsync/internal/runlog"
	"fitsync/internal/source"
)

// Run executes the full pipeline once. The returned error covers fatal
// problems only (bad configuration, unusable output directory); per-source
// fetch failures and per-artifact write failures are logged, counted in the
// Result, and do not stop the run.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("pipeline: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	sink := opts.Sink
	if sink == nil {
		ds, err := artifact.NewDirSink(cfg.Output.Dir)
		if err != nil {
			return nil, err
		}
		sink = ds
	}

	retry := source.Retry{
		MaxAttempts: cfg.Sync.MaxRetries,
		Backoff:     time.Duration(cfg.Sync.RetryBackoffS) * time.Second,
		MinInterval: time.Duration(cfg.Sync.RequestDelayMS) * time.Millisecond,
	}
	oldest := cfg.Sync.HistoryStart
	newest := now.Format("2006-01-02")

	res := &Result{
		RunID:     uuid.NewString(),
		StartedAt: now,
		Sources:   make(map[string]bool),
	}
	logger.Info("sync starting", "run_id", res.RunID, "oldest", oldest, "newest", newest)

	// Primary source. A fetch failure here degrades like the others: the
	// secondary and tertiary records still land, just without dedupe cover.
	intervals := opts.Sources.Intervals
	if intervals == nil {
		intervals = source.NewIntervalsClient(cfg.Intervals.AthleteID, cfg.Intervals.APIKey, retry, logger)
	}
	rawActivities, err := intervals.FetchActivities(ctx, oldest, newest)
	if err != nil {
		logger.Error("intervals activities fetch failed", "error", err)
		rawActivities = nil
	}
	rawWellness, err := intervals.FetchWellness(ctx, oldest, newest)
	if err != nil {
		logger.Error("intervals wellness fetch failed", "error", err)
		rawWellness = nil
	}
	athlete, err := intervals.FetchAthlete(ctx)
	if err != nil {
		logger.Error("intervals athlete fetch failed", "error", err)
		athlete = source.IntervalsAthlete{}
	}
	res.Sources["intervals"] = len(rawActivities) > 0 || len(rawWellness) > 0

	var rawStrava []source.StravaActivity
	var stravaReady bool
	strava := opts.Sources.Strava
	if strava == nil && cfg.StravaConfigured() {
		strava = source.NewStravaClient(cfg.Strava.ClientID, cfg.Strava.ClientSecret, cfg.Strava.RefreshToken, retry, logger)
	}
	if strava != nil {
		rawStrava, stravaReady = fetchStrava(ctx, strava, oldest, logger)
		res.Sources["strava"] = len(rawStrava) > 0
	}

	var rawConcept2 []source.Concept2Result
	concept2 := opts.Sources.Concept2
	if concept2 == nil && cfg.Concept2Configured() {
		concept2 = source.NewConcept2Client(cfg.Concept2.Username, cfg.Concept2.Password, retry, logger)
	}
	if concept2 != nil {
		rawConcept2, err = concept2.FetchResults(ctx, oldest, newest)
		if err != nil {
			logger.Error("concept2 fetch failed", "error", err)
			rawConcept2 = nil
		}
		res.Sources["concept2"] = len(rawConcept2) > 0
	}

	var local []model.Activity
	fitSrc := opts.Sources.Fit
	if fitSrc == nil && cfg.Fit.Dir != "" {
		fitSrc = source.NewFitImporter(cfg.Fit.Dir, logger)
	}
	if fitSrc != nil {
		sessions, err := fitSrc.Import()
		if err != nil {
			logger.Error("fit import failed", "error", err)
		}
		for _, s := range sessions {
			local = append(local, normalize.FitSession(s))
		}
		res.Sources["fit"] = len(local) > 0
	}

	merged := merge.Merge(rawActivities, rawStrava, rawConcept2)
	merged = merge.AppendLocal(merged, local)
	wellness := normalize.WellnessSeries(rawWellness)

	res.MergeStats = merged.Stats
	res.ActivityCount = len(merged.Activities)
	res.WellnessCount = len(wellness)
	logger.Info("merge complete",
		"activities", res.ActivityCount,
		"wellness", res.WellnessCount,
		"primary", merged.Stats.Primary,
		"stubs", merged.Stats.PrimaryStubs,
		"secondary", merged.Stats.Secondary,
		"covered", merged.Stats.SecondaryCovered,
		"tertiary", merged.Stats.Tertiary,
		"local", merged.Stats.Local)

	snap := aggregate.Snapshot(merged.Activities, wellness)
	snap.ID = string(athlete.ID)
	snap.Name = athlete.Name
	if snap.WeightKG == nil {
		snap.WeightKG = athlete.Weight
	}
	if snap.FTPW == nil {
		snap.FTPW = athlete.FTP
	}
	if snap.WPrimeJ == nil {
		snap.WPrimeJ = athlete.WPrime
	}
	res.Snapshot = snap

	cp := aggregate.CriticalPowerFromActivities(merged.Activities)

	write := func(name string, v any) {
		if err := sink.Write(name, v); err != nil {
			logger.Error("artifact write failed", "artifact", name, "error", err)
			res.ArtifactErrors = append(res.ArtifactErrors, fmt.Sprintf("%s: %v", name, err))
		}
	}
	write("activities.json", merged.Activities)
	write("wellness.json", wellness)
	write("athlete.json", snap)
	write("weekly_tss.json", aggregate.WeeklyLoad(merged.Activities))
	write("ytd.json", aggregate.CalcYearToDate(merged.Activities, now))
	for _, days := range cfg.Sync.HeatmapDays {
		write(heatmapName(days), aggregate.Heatmap(merged.Activities, days, now))
	}
	write("personal_bests.json", aggregate.PersonalBests(merged.Activities, cfg.Sync.PBDistancesM, cfg.Sync.PBTolerance))
	write("cycling_metrics.json", cyclingMetrics(snap, cp))

	// The segments artifact is always written; without a usable network
	// source the dashboard gets the empty shape.
	segments := aggregate.NewSegments()
	if stravaReady {
		segments = fetchSegments(ctx, strava, merged.Activities, now, logger)
	}
	write("segments.json", segments)

	res.FinishedAt = time.Now()
	write("meta.json", metaDocument(res, oldest))

	if cfg.Output.Parquet {
		if ds, ok := sink.(*artifact.DirSink); ok {
			path := filepath.Join(ds.Dir(), "activities.parquet")
			if err := artifact.WriteActivitiesParquet(path, merged.Activities); err != nil {
				logger.Error("parquet write failed", "error", err)
				res.ArtifactErrors = append(res.ArtifactErrors, fmt.Sprintf("activities.parquet: %v", err))
			}
		}
	}

	recordRun(ctx, cfg.Output.RunLogPath, res, logger)

	logger.Info("sync finished",
		"run_id", res.RunID,
		"status", runStatus(res),
		"duration", res.FinishedAt.Sub(res.StartedAt).Round(time.Millisecond))
	return res, nil
}

// fetchStrava authenticates and fetches; the second return reports whether
// the client is usable for follow-up calls (segment details).
func fetchStrava(ctx context.Context, c StravaSource, oldest string, logger *slog.Logger) ([]source.StravaActivity, bool) {
	if err := c.Authenticate(ctx); err != nil {
		logger.Error("strava auth failed", "error", err)
		return nil, false
	}
	after, err := time.Parse("2006-01-02", oldest)
	if err != nil {
		after = time.Time{}
	}
	acts, err := c.FetchActivities(ctx, after)
	if err != nil {
		logger.Error("strava fetch failed", "error", err)
		return nil, true
	}
	return acts, true
}

// fetchSegments pulls segment efforts for the recent network-linked
// activities. A failed detail request skips that activity only.
func fetchSegments(ctx context.Context, c StravaSource, acts []model.Activity, now time.Time, logger *slog.Logger) aggregate.Segments {
	builder := aggregate.NewSegmentBuilder()
	for _, act := range aggregate.RecentStravaLinked(acts, now) {
		efforts, err := c.FetchActivitySegments(ctx, act.StravaID)
		if err != nil {
			logger.Error("segment fetch failed", "activity", act.ID, "error", err)
			continue
		}
		builder.Add(act, efforts)
	}
	return builder.Segments()
}

// heatmapName keeps the historical name for the default one-year window and
// a self-describing one for anything else.
func heatmapName(days int) string {
	if days == 365 {
		return "heatmap_1y.json"
	}
	return fmt.Sprintf("heatmap_%dd.json", days)
}

func cyclingMetrics(snap aggregate.AthleteSnapshot, cp aggregate.CPModel) map[string]any {
	return map[string]any{
		"ftp":      snap.FTPW,
		"weight":   snap.WeightKG,
		"w_prime":  snap.WPrimeJ,
		"cp_model": cp,
	}
}

func metaDocument(res *Result, oldest string) map[string]any {
	return map[string]any{
		"run_id":         res.RunID,
		"last_updated":   res.FinishedAt.UTC().Format(time.RFC3339),
		"oldest":         oldest,
		"activity_count": res.ActivityCount,
		"wellness_count": res.WellnessCount,
		"sources":        res.Sources,
		"merge":          res.MergeStats,
		"athlete":        res.Snapshot,
	}
}

func runStatus(res *Result) string {
	switch {
	case res.Failed():
		return "partial"
	default:
		return "ok"
	}
}

// recordRun journals the run. The journal is best-effort: a broken database
// must not fail a sync that already produced its artifacts.
func recordRun(ctx context.Context, path string, res *Result, logger *slog.Logger) {
	if path == "" {
		return
	}
	store, err := runlog.Open(path)
	if err != nil {
		logger.Warn("run journal unavailable", "error", err)
		return
	}
	defer store.Close()

	contributed := make([]string, 0, len(res.Sources))
	for name, ok := range res.Sources {
		if ok {
			contributed = append(contributed, name)
		}
	}
	sort.Strings(contributed)

	run := runlog.Run{
		ID:         res.RunID,
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Status:     runStatus(res),
		Activities: res.ActivityCount,
		Wellness:   res.WellnessCount,
		Sources:    strings.Join(contributed, ","),
		Error:      strings.Join(res.ArtifactErrors, "; "),
	}
	if err := store.Record(ctx, run); err != nil {
		logger.Warn("run journal write failed", "error", err)
	}
}
