package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fitsync/internal/aggregate"
	"fitsync/internal/config"
	"fitsync/internal/model"
	"fitsync/internal/source"
)

func fp(v float64) *float64 { return &v }

type fakeIntervals struct {
	activities []source.IntervalsActivity
	wellness   []source.IntervalsWellness
	athlete    source.IntervalsAthlete
	err        error
}

func (f *fakeIntervals) FetchActivities(ctx context.Context, oldest, newest string) ([]source.IntervalsActivity, error) {
	return f.activities, f.err
}

func (f *fakeIntervals) FetchWellness(ctx context.Context, oldest, newest string) ([]source.IntervalsWellness, error) {
	return f.wellness, f.err
}

func (f *fakeIntervals) FetchAthlete(ctx context.Context) (source.IntervalsAthlete, error) {
	return f.athlete, f.err
}

type fakeStrava struct {
	activities []source.StravaActivity
	efforts    map[string][]source.StravaSegmentEffort
	authErr    error
}

func (f *fakeStrava) Authenticate(ctx context.Context) error { return f.authErr }

func (f *fakeStrava) FetchActivities(ctx context.Context, after time.Time) ([]source.StravaActivity, error) {
	return f.activities, nil
}

func (f *fakeStrava) FetchActivitySegments(ctx context.Context, activityID string) ([]source.StravaSegmentEffort, error) {
	return f.efforts[activityID], nil
}

type fakeConcept2 struct {
	results []source.Concept2Result
}

func (f *fakeConcept2) FetchResults(ctx context.Context, from, to string) ([]source.Concept2Result, error) {
	return f.results, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Intervals = config.Intervals{AthleteID: "a1", APIKey: "k"}
	cfg.Output.Dir = filepath.Join(dir, "data")
	cfg.Output.RunLogPath = filepath.Join(dir, "runs.db")
	cfg.Sync.HeatmapDays = []int{7}
	cfg.Sync.PBDistancesM = []float64{5000}
	return cfg
}

func readJSON(t *testing.T, dir, name string, out any) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read %s: %v", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		t.Fatalf("unmarshal %s: %v", name, err)
	}
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t)
	now := time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)

	sources := Sources{
		Intervals: &fakeIntervals{
			activities: []source.IntervalsActivity{
				{ID: "p1", StravaID: "100", Note: "linked", Type: ""}, // stub
				{ID: "p2", Type: "Ride", StartDate: "2025-08-20T08:00:00", MovingTime: fp(3600), TrainingLoad: fp(60), FTP: fp(250)},
			},
			wellness: []source.IntervalsWellness{
				{ID: "2025-08-20", RestingHR: fp(48), SleepSecs: fp(27000)},
			},
			athlete: source.IntervalsAthlete{ID: "a1", Name: "Tester", Weight: fp(72)},
		},
		Strava: &fakeStrava{
			activities: []source.StravaActivity{
				{ID: 100, Type: "Ride", StartDate: "2025-08-20T08:00:00Z"}, // covered by stub
				{ID: 200, Type: "Run", StartDate: "2025-08-21T08:00:00Z", Distance: fp(5000), MovingTime: fp(1500), AvgSpeed: fp(3.33)},
			},
			efforts: map[string][]source.StravaSegmentEffort{
				"200": {{Segment: source.StravaSegment{ID: 31, Name: "Park Loop", Distance: 1600}, ElapsedTime: 390}},
			},
		},
		Concept2: &fakeConcept2{results: []source.Concept2Result{
			{ID: 5, Date: "2025-08-22 06:30:00", TimeCS: fp(120000), Distance: fp(5000)},
		}},
	}

	res, err := Run(context.Background(), Options{
		Config:  cfg,
		Logger:  quietLogger(),
		Sources: sources,
		Now:     now,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Failed() {
		t.Fatalf("artifact errors: %v", res.ArtifactErrors)
	}
	if res.ActivityCount != 3 {
		t.Fatalf("activities = %d, want 3 (stub and covered duplicate dropped)", res.ActivityCount)
	}
	if res.WellnessCount != 1 {
		t.Fatalf("wellness = %d", res.WellnessCount)
	}
	if res.MergeStats.PrimaryStubs != 1 || res.MergeStats.SecondaryCovered != 1 {
		t.Fatalf("stats = %+v", res.MergeStats)
	}

	var acts []model.Activity
	readJSON(t, cfg.Output.Dir, "activities.json", &acts)
	if len(acts) != 3 {
		t.Fatalf("activities.json = %d records", len(acts))
	}
	if acts[0].Date != "2025-08-22" {
		t.Fatalf("first record date = %s, want newest", acts[0].Date)
	}

	var heatmap []map[string]any
	readJSON(t, cfg.Output.Dir, "heatmap_7d.json", &heatmap)
	if len(heatmap) != 7 {
		t.Fatalf("heatmap cells = %d, want 7", len(heatmap))
	}

	var athlete map[string]any
	readJSON(t, cfg.Output.Dir, "athlete.json", &athlete)
	if athlete["name"] != "Tester" {
		t.Fatalf("athlete = %v", athlete)
	}
	if athlete["ftp"].(float64) != 250 {
		t.Fatalf("ftp = %v, want activity-derived 250", athlete["ftp"])
	}

	var meta map[string]any
	readJSON(t, cfg.Output.Dir, "meta.json", &meta)
	if meta["activity_count"].(float64) != 3 {
		t.Fatalf("meta = %v", meta)
	}
	if meta["run_id"] != res.RunID {
		t.Fatalf("meta run_id = %v", meta["run_id"])
	}

	var segments aggregate.Segments
	readJSON(t, cfg.Output.Dir, "segments.json", &segments)
	if len(segments.Running) != 1 || segments.Running[0].ID != 31 {
		t.Fatalf("segments = %+v", segments)
	}
	if len(segments.Cycling) != 0 {
		t.Fatalf("cycling segments = %+v, want none", segments.Cycling)
	}

	for _, name := range []string{"wellness.json", "weekly_tss.json", "ytd.json", "personal_bests.json", "cycling_metrics.json"} {
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
}

func TestRunDegradesWhenPrimaryFails(t *testing.T) {
	cfg := testConfig(t)
	sources := Sources{
		Intervals: &fakeIntervals{err: errors.New("boom")},
		Strava: &fakeStrava{activities: []source.StravaActivity{
			{ID: 300, Type: "Ride", StartDate: "2025-08-20T08:00:00Z"},
		}},
	}

	res, err := Run(context.Background(), Options{
		Config:  cfg,
		Logger:  quietLogger(),
		Sources: sources,
		Now:     time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Run should degrade, got %v", err)
	}
	if res.ActivityCount != 1 {
		t.Fatalf("activities = %d, want network record without dedupe cover", res.ActivityCount)
	}
	if res.Sources["intervals"] {
		t.Fatal("intervals should report no contribution")
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default() // no credentials
	if _, err := Run(context.Background(), Options{Config: cfg, Logger: quietLogger()}); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestRunAuthFailureSkipsStrava(t *testing.T) {
	cfg := testConfig(t)
	sources := Sources{
		Intervals: &fakeIntervals{
			activities: []source.IntervalsActivity{
				{ID: "p1", Type: "Ride", StartDate: "2025-08-20T08:00:00"},
			},
		},
		Strava: &fakeStrava{authErr: errors.New("bad token")},
	}
	res, err := Run(context.Background(), Options{
		Config:  cfg,
		Logger:  quietLogger(),
		Sources: sources,
		Now:     time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.ActivityCount != 1 {
		t.Fatalf("activities = %d", res.ActivityCount)
	}
	if res.Sources["strava"] {
		t.Fatal("strava should report no contribution after auth failure")
	}

	// The segments artifact still appears, in its empty shape.
	var segments aggregate.Segments
	readJSON(t, cfg.Output.Dir, "segments.json", &segments)
	if segments.Cycling == nil || segments.Running == nil {
		t.Fatal("segments.json should carry empty arrays, not null")
	}
	if len(segments.Cycling) != 0 || len(segments.Running) != 0 {
		t.Fatalf("segments = %+v, want empty", segments)
	}
}
