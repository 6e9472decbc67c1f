package aggregate

import (
	"sort"
	"time"

	"fitsync/internal/model"
)

// WeekLoad is one ISO-week row of training-stress sums per discipline.
type WeekLoad struct {
	Year  int     `json:"year"`
	Week  int     `json:"week"`
	Ride  float64 `json:"ride"`
	Run   float64 `json:"run"`
	Row   float64 `json:"row"`
	Other float64 `json:"other"`
}

// WeeklyLoad groups activities by ISO calendar week and sums TSS into
// discipline buckets. Rows are sorted ascending by (year, week). Activities
// with unparseable dates are skipped.
func WeeklyLoad(acts []model.Activity) []WeekLoad {
	type key struct{ year, week int }
	weeks := make(map[key]*WeekLoad)

	for _, a := range acts {
		if a.Date == "" {
			continue
		}
		d, err := time.Parse("2006-01-02", a.Date)
		if err != nil {
			continue
		}
		year, week := d.ISOWeek()
		k := key{year, week}
		row, ok := weeks[k]
		if !ok {
			row = &WeekLoad{Year: year, Week: week}
			weeks[k] = row
		}
		switch classify(a.Type) {
		case disciplineRide:
			row.Ride += a.TSS
		case disciplineRun:
			row.Run += a.TSS
		case disciplineRow:
			row.Row += a.TSS
		default:
			row.Other += a.TSS
		}
	}

	out := make([]WeekLoad, 0, len(weeks))
	for _, row := range weeks {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}
