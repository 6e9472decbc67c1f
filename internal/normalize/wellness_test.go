package normalize

import (
	"testing"

	"fitsync/internal/source"
)

func TestWellnessSleepConversion(t *testing.T) {
	w := Wellness(source.IntervalsWellness{
		ID:           "2025-06-01",
		TrainingLoad: fp(85),
		SleepSecs:    fp(27000), // 7.5 h
		RestingHR:    fp(48),
	})
	if w.Date != "2025-06-01" {
		t.Errorf("date = %q", w.Date)
	}
	if w.SleepH == nil || *w.SleepH != 7.5 {
		t.Errorf("sleep = %v, want 7.5", w.SleepH)
	}
	if w.TSS != 85 {
		t.Errorf("tss = %v", w.TSS)
	}
}

func TestWellnessSleepRounding(t *testing.T) {
	w := Wellness(source.IntervalsWellness{ID: "2025-06-02", SleepSecs: fp(26100)}) // 7.25 h
	if w.SleepH == nil || *w.SleepH != 7.3 {
		t.Errorf("sleep = %v, want 7.3 (one decimal)", w.SleepH)
	}
}

func TestWellnessZeroSleepAbsent(t *testing.T) {
	w := Wellness(source.IntervalsWellness{ID: "2025-06-03", SleepSecs: fp(0)})
	if w.SleepH != nil {
		t.Errorf("sleep = %v, want absent for zero seconds", *w.SleepH)
	}
}

func TestWellnessSeriesDedupeAndOrder(t *testing.T) {
	raws := []source.IntervalsWellness{
		{ID: "2025-06-02", RestingHR: fp(50)},
		{ID: "2025-06-01", RestingHR: fp(48)},
		{ID: "2025-06-02", RestingHR: fp(99)}, // duplicate date: first wins
		{ID: ""},                              // no date: dropped
	}
	series := WellnessSeries(raws)
	if len(series) != 2 {
		t.Fatalf("len = %d, want 2", len(series))
	}
	if series[0].Date != "2025-06-01" || series[1].Date != "2025-06-02" {
		t.Fatalf("order = %s, %s", series[0].Date, series[1].Date)
	}
	if *series[1].RestingHR != 50 {
		t.Fatalf("duplicate overwrote first record: %v", *series[1].RestingHR)
	}
}
