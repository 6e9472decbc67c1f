package aggregate

import (
	"testing"
	"time"

	"fitsync/internal/model"
)

func act(id, typ, date string, tss float64) model.Activity {
	return model.Activity{ID: id, Type: typ, Date: date, TSS: tss}
}

func TestWeeklyLoadBuckets(t *testing.T) {
	acts := []model.Activity{
		act("1", "Ride", "2025-03-03", 50),        // ISO week 10
		act("2", "VirtualRide", "2025-03-04", 30), // same week, same bucket
		act("3", "Run", "2025-03-05", 30),
		act("4", "Kayaking", "2025-03-06", 20),
		act("5", "Yoga", "2025-03-07", 10),
		act("6", "Ride", "2025-03-10", 40), // week 11
		act("7", "Ride", "", 99),           // no date: skipped
	}

	weeks := WeeklyLoad(acts)
	if len(weeks) != 2 {
		t.Fatalf("weeks = %d, want 2", len(weeks))
	}
	w10 := weeks[0]
	if w10.Year != 2025 || w10.Week != 10 {
		t.Fatalf("first week = %d-W%d", w10.Year, w10.Week)
	}
	if w10.Ride != 80 || w10.Run != 30 || w10.Row != 20 || w10.Other != 10 {
		t.Fatalf("week 10 buckets = %+v", w10)
	}
	if weeks[1].Week != 11 || weeks[1].Ride != 40 {
		t.Fatalf("week 11 = %+v", weeks[1])
	}
}

func TestYearToDateFiltersAndRounds(t *testing.T) {
	now := time.Date(2025, 8, 25, 12, 0, 0, 0, time.UTC)
	acts := []model.Activity{
		{ID: "1", Type: "Ride", Date: "2025-02-01", DistanceM: 30400, DurationS: 3650, TSS: 60},
		{ID: "2", Type: "Run", Date: "2025-02-02", DistanceM: 10000, DurationS: 3000, TSS: 40},
		{ID: "3", Type: "Rowing", Date: "2025-02-03", DistanceM: 5000, DurationS: 1200, TSS: 30},
		{ID: "4", Type: "Ride", Date: "2024-12-31", DistanceM: 99999, DurationS: 9999, TSS: 999}, // prior year
	}

	ytd := CalcYearToDate(acts, now)
	if ytd.Year != 2025 {
		t.Fatalf("year = %d", ytd.Year)
	}
	if ytd.Total.Count != 3 {
		t.Fatalf("count = %d, want 3", ytd.Total.Count)
	}
	if ytd.Total.DistanceKM != 45 { // 45.4 km rounds to whole km
		t.Errorf("distance = %v, want 45", ytd.Total.DistanceKM)
	}
	if ytd.Total.Hours != 2.2 { // 7850s = 2.18h rounds to one decimal
		t.Errorf("hours = %v, want 2.2", ytd.Total.Hours)
	}
	if ytd.Cycling.Count != 1 || ytd.Running.Count != 1 || ytd.Rowing.Count != 1 {
		t.Errorf("discipline counts = %d/%d/%d", ytd.Cycling.Count, ytd.Running.Count, ytd.Rowing.Count)
	}
	if ytd.Total.TSS != 130 {
		t.Errorf("tss = %v", ytd.Total.TSS)
	}
}

func TestSnapshotNewestWinsWithWellnessFallback(t *testing.T) {
	acts := []model.Activity{
		{ID: "new", Date: "2025-08-01", FTPW: model.Float(255)},
		{ID: "old", Date: "2025-01-01", FTPW: model.Float(240), WPrimeJ: model.Float(21000)},
	}
	wellness := []model.Wellness{
		{Date: "2025-07-01", WeightKG: model.Float(71.5)},
		{Date: "2025-08-01"},
	}

	snap := Snapshot(acts, wellness)
	if snap.FTPW == nil || *snap.FTPW != 255 {
		t.Errorf("ftp = %v, want newest 255", snap.FTPW)
	}
	if snap.WPrimeJ == nil || *snap.WPrimeJ != 21000 {
		t.Errorf("w_prime = %v", snap.WPrimeJ)
	}
	if snap.WeightKG == nil || *snap.WeightKG != 71.5 {
		t.Errorf("weight = %v, want wellness fallback 71.5", snap.WeightKG)
	}
}
