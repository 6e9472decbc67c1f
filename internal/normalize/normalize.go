// Package normalize maps source-native raw records into the canonical
// Activity and Wellness shapes. All functions are pure: conversion failures
// degrade to nil/zero fields, never panics, never I/O.
package normalize

import (
	"fmt"
	"math"

	"fitsync/internal/model"
	"fitsync/internal/source"
)

// stravaTypeMap is the fixed normalization table for activity-network sport
// types. Unlisted types pass through unchanged.
var stravaTypeMap = map[string]string{
	"Ride":           "Ride",
	"VirtualRide":    "VirtualRide",
	"Run":            "Run",
	"VirtualRun":     "VirtualRun",
	"Rowing":         "Rowing",
	"Kayaking":       "Kayaking",
	"WeightTraining": "WeightTraining",
	"Workout":        "Workout",
	"Yoga":           "Yoga",
	"Walk":           "Walk",
	"Hike":           "Hike",
	"Swim":           "Swim",
	"Crossfit":       "Crossfit",
	"Elliptical":     "Cardio",
	"StairStepper":   "Cardio",
}

// IsStub reports whether an interval-platform record is a placeholder for an
// activity whose real data lives in the activity network. Stubs carry a
// `_note` annotation or an empty type and must be excluded from output, but
// their cross-source id still suppresses the duplicate during merge.
func IsStub(a source.IntervalsActivity) bool {
	return a.Note != "" || a.Type == ""
}

// CrossSourceID returns the record's activity-network linkage id, or "" when
// it carries none. Stubs expose one even though they produce no activity.
func CrossSourceID(a source.IntervalsActivity) string {
	return string(a.StravaID)
}

// Intervals maps one interval-platform record to the canonical shape.
// Returns nil for stub records.
func Intervals(a source.IntervalsActivity) *model.Activity {
	if IsStub(a) {
		return nil
	}
	act := model.Activity{
		ID:          string(a.ID),
		StravaID:    string(a.StravaID),
		Source:      model.SourceIntervals,
		Name:        orDefault(a.Name, "Activity"),
		Type:        orDefault(a.Type, "Unknown"),
		Date:        datePart(a.StartDate),
		DurationS:   floatOrZero(a.MovingTime),
		DistanceM:   floatOrZero(a.Distance),
		ElevationM:  floatOrZero(a.Elevation),
		AvgPowerW:   a.AvgWatts,
		NormPowerW:  a.WeightedWats,
		AvgHR:       a.AvgHR,
		MaxHR:       a.MaxHR,
		AvgSpeedMPS: a.AvgSpeed,
		AvgCadence:  a.AvgCadence,
		Calories:    a.Calories,
		TSS:         math.Round(floatOrZero(a.TrainingLoad)),
		FTPW:        a.FTP,
		WPrimeJ:     a.WPrime,
		WeightKG:    a.Weight,
		Device:      a.DeviceName,
		IsGarmin:    model.DeviceIsGarmin(a.DeviceName),
	}
	if a.Intensity != nil && *a.Intensity != 0 {
		// Intensity factor arrives percentage-encoded.
		act.IF = model.Float(round2(*a.Intensity / 100))
	}
	return &act
}

// Strava maps one activity-network record to the canonical shape. The
// network computes no training load, so tss is always 0.
func Strava(a source.StravaActivity) model.Activity {
	rawType := a.SportType
	if rawType == "" {
		rawType = a.Type
	}
	actType := rawType
	if mapped, ok := stravaTypeMap[rawType]; ok {
		actType = mapped
	}
	if actType == "" {
		actType = "Other"
	}
	duration := floatOrZero(a.MovingTime)
	if duration == 0 {
		duration = floatOrZero(a.ElapsedTime)
	}
	return model.Activity{
		ID:          fmt.Sprintf("strava_%d", a.ID),
		StravaID:    fmt.Sprintf("%d", a.ID),
		Source:      model.SourceStrava,
		Name:        orDefault(a.Name, "Activity"),
		Type:        actType,
		Date:        datePart(a.StartDate),
		DurationS:   duration,
		DistanceM:   floatOrZero(a.Distance),
		ElevationM:  floatOrZero(a.Elevation),
		AvgPowerW:   a.AvgWatts,
		NormPowerW:  a.WeightedW,
		AvgHR:       a.AvgHR,
		MaxHR:       a.MaxHR,
		AvgSpeedMPS: a.AvgSpeed,
		AvgCadence:  a.AvgCadence,
		Calories:    a.Calories,
		Device:      a.DeviceName,
	}
}

// Concept2 maps one ergometer-logbook workout to the canonical shape.
// Returns nil for records without a recorded time: the logbook posts such
// placeholders for externally-synced sessions it has no data for.
func Concept2(w source.Concept2Result) *model.Activity {
	raw := floatOrZero(w.TimeCS)
	if raw == 0 {
		return nil
	}
	duration := raw / 100 // centiseconds
	distance := floatOrZero(w.Distance)

	act := model.Activity{
		ID:         fmt.Sprintf("concept2_%d", w.ID),
		Source:     model.SourceConcept2,
		Name:       concept2Name(distance, duration),
		Type:       "Rowing",
		Date:       datePart(w.Date),
		DurationS:  duration,
		DistanceM:  distance,
		AvgHR:      w.HeartRate.Average,
		MaxHR:      w.HeartRate.Max,
		AvgCadence: w.StrokeRate, // strokes per minute
		Calories:   w.Calories,
		Device:     "Concept2 RowErg",
	}
	if duration > 0 && distance > 0 {
		act.AvgSpeedMPS = model.Float(distance / duration)
		act.AvgPaceS500 = model.Float(duration / distance * 500)
	}
	return &act
}

// FitSession maps one locally-imported FIT session to the canonical shape.
func FitSession(s source.FitSession) model.Activity {
	act := model.Activity{
		ID:          "fit_" + s.File,
		Source:      model.SourceFit,
		Name:        orDefault(s.Sport, "Activity"),
		Type:        fitSportType(s.Sport),
		Date:        s.StartTime,
		DurationS:   s.DurationS,
		DistanceM:   s.DistanceM,
		ElevationM:  s.ElevationM,
		AvgPowerW:   s.AvgPowerW,
		AvgHR:       s.AvgHR,
		MaxHR:       s.MaxHR,
		AvgSpeedMPS: s.AvgSpeed,
		AvgCadence:  s.AvgCadence,
		Calories:    s.Calories,
		Device:      s.Device,
		IsGarmin:    model.DeviceIsGarmin(s.Device),
	}
	if act.AvgSpeedMPS == nil && act.DurationS > 0 && act.DistanceM > 0 {
		act.AvgSpeedMPS = model.Float(act.DistanceM / act.DurationS)
	}
	return act
}

func fitSportType(sport string) string {
	switch sport {
	case "Cycling", "cycling":
		return "Ride"
	case "Running", "running":
		return "Run"
	case "Rowing", "rowing":
		return "Rowing"
	case "Walking", "walking":
		return "Walk"
	case "Swimming", "swimming":
		return "Swim"
	case "":
		return "Unknown"
	default:
		return "Other"
	}
}

func concept2Name(distance, duration float64) string {
	switch {
	case distance > 0:
		return fmt.Sprintf("Rowing - %.0fm", distance)
	case duration > 0:
		return fmt.Sprintf("Rowing - %d:%02d", int(duration)/60, int(duration)%60)
	default:
		return "Rowing"
	}
}

// datePart truncates an ISO-8601 timestamp to its calendar date.
func datePart(ts string) string {
	if len(ts) < 10 {
		return ""
	}
	return ts[:10]
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func floatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
