package aggregate

import (
	"time"

	"fitsync/internal/model"
)

// HeatmapCell is one calendar day of the activity heatmap. Level is a
// discrete 0-5 intensity bucket derived from the day's summed TSS.
type HeatmapCell struct {
	Date  string  `json:"date"`
	TSS   float64 `json:"tss"`
	Level int     `json:"level"`
}

// Heatmap sums TSS per day over the trailing window of `days` days ending at
// now, producing exactly one cell per day. Days without activity carry
// tss=0, level=0, so the output is a complete contiguous sequence.
func Heatmap(acts []model.Activity, days int, now time.Time) []HeatmapCell {
	if days <= 0 {
		return []HeatmapCell{}
	}
	byDate := make(map[string]float64)
	for _, a := range acts {
		if a.Date == "" {
			continue
		}
		byDate[a.Date] += a.TSS
	}

	cells := make([]HeatmapCell, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		tss := byDate[date]
		cells = append(cells, HeatmapCell{Date: date, TSS: tss, Level: heatLevel(tss)})
	}
	return cells
}

// heatLevel maps a daily TSS sum to its intensity bucket. Thresholds are
// strict: tss=40 is still level 1, tss=41 is level 2.
func heatLevel(tss float64) int {
	switch {
	case tss > 180:
		return 5
	case tss > 120:
		return 4
	case tss > 80:
		return 3
	case tss > 40:
		return 2
	case tss > 0:
		return 1
	default:
		return 0
	}
}
