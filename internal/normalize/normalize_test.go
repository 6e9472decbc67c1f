package normalize

import (
	"testing"

	"fitsync/internal/model"
	"fitsync/internal/source"
)

func fp(v float64) *float64 { return &v }

func TestIntervalsStubDetection(t *testing.T) {
	cases := []struct {
		name string
		raw  source.IntervalsActivity
		stub bool
	}{
		{"note marker", source.IntervalsActivity{ID: "1", Note: "synced from network", Type: "Ride"}, true},
		{"empty type", source.IntervalsActivity{ID: "2", Type: ""}, true},
		{"real record", source.IntervalsActivity{ID: "3", Type: "Ride"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsStub(tc.raw); got != tc.stub {
				t.Fatalf("IsStub() = %v, want %v", got, tc.stub)
			}
			act := Intervals(tc.raw)
			if tc.stub && act != nil {
				t.Fatalf("Intervals() returned a record for a stub")
			}
			if !tc.stub && act == nil {
				t.Fatalf("Intervals() returned nil for a real record")
			}
		})
	}
}

func TestIntervalsMapping(t *testing.T) {
	raw := source.IntervalsActivity{
		ID:           "i1",
		StravaID:     "987",
		Name:         "Morning Ride",
		Type:         "Ride",
		StartDate:    "2025-03-02T07:15:00",
		MovingTime:   fp(3600),
		Distance:     fp(30000),
		TrainingLoad: fp(64.6),
		Intensity:    fp(85),
		FTP:          fp(250),
		DeviceName:   "Garmin Edge 530",
	}
	act := Intervals(raw)
	if act == nil {
		t.Fatal("Intervals() returned nil")
	}
	if act.Date != "2025-03-02" {
		t.Errorf("date = %q, want 2025-03-02", act.Date)
	}
	if act.TSS != 65 {
		t.Errorf("tss = %v, want 65 (rounded)", act.TSS)
	}
	if act.IF == nil || *act.IF != 0.85 {
		t.Errorf("if = %v, want 0.85", act.IF)
	}
	if act.StravaID != "987" {
		t.Errorf("strava_id = %q, want 987", act.StravaID)
	}
	if !act.IsGarmin {
		t.Error("expected is_garmin for Garmin device")
	}
	if act.Source != model.SourceIntervals {
		t.Errorf("source = %q", act.Source)
	}
}

func TestIntervalsZeroIntensityOmitted(t *testing.T) {
	act := Intervals(source.IntervalsActivity{ID: "i", Type: "Run", Intensity: fp(0)})
	if act == nil || act.IF != nil {
		t.Fatalf("zero intensity should leave if unset, got %v", act.IF)
	}
}

func TestStravaMapping(t *testing.T) {
	raw := source.StravaActivity{
		ID:          12345,
		Name:        "Stair Session",
		SportType:   "StairStepper",
		StartDate:   "2025-04-01T18:00:00Z",
		MovingTime:  fp(0),
		ElapsedTime: fp(1800),
		Distance:    fp(0),
	}
	act := Strava(raw)
	if act.ID != "strava_12345" || act.StravaID != "12345" {
		t.Fatalf("ids = %q/%q", act.ID, act.StravaID)
	}
	if act.Type != "Cardio" {
		t.Errorf("type = %q, want Cardio", act.Type)
	}
	if act.DurationS != 1800 {
		t.Errorf("duration = %v, want elapsed fallback 1800", act.DurationS)
	}
	if act.TSS != 0 {
		t.Errorf("tss = %v, want 0 for network activities", act.TSS)
	}
	if act.Date != "2025-04-01" {
		t.Errorf("date = %q", act.Date)
	}
}

func TestStravaUnmappedTypePassthrough(t *testing.T) {
	act := Strava(source.StravaActivity{ID: 1, SportType: "IceSkate"})
	if act.Type != "IceSkate" {
		t.Fatalf("type = %q, want passthrough IceSkate", act.Type)
	}
}

func TestConcept2Mapping(t *testing.T) {
	raw := source.Concept2Result{
		ID:         777,
		Date:       "2025-05-10 06:30:00",
		TimeCS:     fp(120000), // 20:00 in centiseconds
		Distance:   fp(5000),
		StrokeRate: fp(22),
	}
	act := Concept2(raw)
	if act == nil {
		t.Fatal("Concept2() returned nil")
	}
	if act.DurationS != 1200 {
		t.Errorf("duration = %v, want 1200 (centiseconds/100)", act.DurationS)
	}
	if act.AvgPaceS500 == nil || *act.AvgPaceS500 != 120 {
		t.Errorf("pace = %v, want 120 s/500m", act.AvgPaceS500)
	}
	if act.Name != "Rowing - 5000m" {
		t.Errorf("name = %q", act.Name)
	}
	if act.Type != "Rowing" || act.Device != "Concept2 RowErg" {
		t.Errorf("type/device = %q/%q", act.Type, act.Device)
	}
	if act.Date != "2025-05-10" {
		t.Errorf("date = %q", act.Date)
	}
}

func TestConcept2NoTimeSkipped(t *testing.T) {
	if act := Concept2(source.Concept2Result{ID: 1, Distance: fp(2000)}); act != nil {
		t.Fatalf("expected nil for workout without time, got %+v", act)
	}
}

func TestConcept2TimeOnlyName(t *testing.T) {
	act := Concept2(source.Concept2Result{ID: 2, Date: "2025-05-11 07:00:00", TimeCS: fp(90500)})
	if act == nil {
		t.Fatal("Concept2() returned nil")
	}
	if act.Name != "Rowing - 15:05" {
		t.Errorf("name = %q, want Rowing - 15:05", act.Name)
	}
	if act.AvgPaceS500 != nil {
		t.Errorf("pace should be absent without distance, got %v", *act.AvgPaceS500)
	}
}

func TestFitSessionSpeedDerivation(t *testing.T) {
	act := FitSession(source.FitSession{
		File:      "ride.fit",
		Sport:     "Cycling",
		StartTime: "2025-06-01",
		DurationS: 3600,
		DistanceM: 36000,
		Device:    "Garmin Edge",
	})
	if act.Type != "Ride" {
		t.Errorf("type = %q, want Ride", act.Type)
	}
	if act.AvgSpeedMPS == nil || *act.AvgSpeedMPS != 10 {
		t.Errorf("derived speed = %v, want 10", act.AvgSpeedMPS)
	}
	if act.ID != "fit_ride.fit" {
		t.Errorf("id = %q", act.ID)
	}
	if !act.IsGarmin {
		t.Error("expected is_garmin")
	}
}

func TestNormalizationIdempotent(t *testing.T) {
	raw := source.IntervalsActivity{ID: "a", Type: "Ride", TrainingLoad: fp(50.4)}
	first := Intervals(raw)
	second := Intervals(raw)
	if first == nil || second == nil {
		t.Fatal("unexpected nil")
	}
	if *first != *second {
		t.Fatalf("normalization not deterministic: %+v vs %+v", *first, *second)
	}
}
