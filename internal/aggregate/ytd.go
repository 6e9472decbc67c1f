package aggregate

import (
	"fmt"
	"math"
	"time"

	"fitsync/internal/model"
)

// Totals sums one discipline slice of the year-to-date view. Distance is in
// whole kilometers, duration in hours with one decimal.
type Totals struct {
	DistanceKM float64 `json:"distance"`
	Hours      float64 `json:"hours"`
	TSS        float64 `json:"tss"`
	Count      int     `json:"count"`
}

// YearToDate is the current-year summary, overall and per discipline.
type YearToDate struct {
	Year    int    `json:"year"`
	Total   Totals `json:"total"`
	Cycling Totals `json:"cycling"`
	Running Totals `json:"running"`
	Rowing  Totals `json:"rowing"`
}

// CalcYearToDate filters to activities in now's calendar year and sums
// distance, duration, TSS, and count.
func CalcYearToDate(acts []model.Activity, now time.Time) YearToDate {
	year := now.Year()
	prefix := fmt.Sprintf("%04d-", year)
	out := YearToDate{Year: year}

	for _, a := range acts {
		if len(a.Date) < 5 || a.Date[:5] != prefix {
			continue
		}
		addTotals(&out.Total, a)
		switch classify(a.Type) {
		case disciplineRide:
			addTotals(&out.Cycling, a)
		case disciplineRun:
			addTotals(&out.Running, a)
		case disciplineRow:
			addTotals(&out.Rowing, a)
		}
	}

	roundTotals(&out.Total)
	roundTotals(&out.Cycling)
	roundTotals(&out.Running)
	roundTotals(&out.Rowing)
	return out
}

func addTotals(t *Totals, a model.Activity) {
	t.DistanceKM += a.DistanceM
	t.Hours += a.DurationS
	t.TSS += a.TSS
	t.Count++
}

func roundTotals(t *Totals) {
	t.DistanceKM = math.Round(t.DistanceKM / 1000)
	t.Hours = math.Round(t.Hours/3600*10) / 10
}
