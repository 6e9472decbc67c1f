package normalize

import (
	"math"
	"sort"

	"fitsync/internal/model"
	"fitsync/internal/source"
)

// Wellness maps one raw daily record to the canonical shape. Sleep arrives
// in seconds and is converted to hours with one-decimal rounding.
func Wellness(w source.IntervalsWellness) model.Wellness {
	out := model.Wellness{
		Date:      w.ID,
		CTL:       w.CTL,
		ATL:       w.ATL,
		TSB:       w.TSB,
		TSS:       floatOrZero(w.TrainingLoad),
		HRV:       w.HRV,
		RestingHR: w.RestingHR,
		WeightKG:  w.Weight,
		Fatigue:   w.Fatigue,
		Mood:      w.Mood,
		Soreness:  w.Soreness,
		Stress:    w.Stress,
		SpO2:      w.SpO2,
	}
	if w.SleepSecs != nil && *w.SleepSecs > 0 {
		out.SleepH = model.Float(round1(*w.SleepSecs / 3600))
	}
	return out
}

// WellnessSeries normalizes a batch, keeps the first record seen per date,
// and sorts ascending by date.
func WellnessSeries(raws []source.IntervalsWellness) []model.Wellness {
	seen := make(map[string]struct{}, len(raws))
	out := make([]model.Wellness, 0, len(raws))
	for _, raw := range raws {
		w := Wellness(raw)
		if w.Date == "" {
			continue
		}
		if _, ok := seen[w.Date]; ok {
			continue
		}
		seen[w.Date] = struct{}{}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
