// Package merge combines normalized activities from all sources into one
// deduplicated, date-ordered collection.
package merge

import (
	"sort"

	"fitsync/internal/model"
	"fitsync/internal/normalize"
	"fitsync/internal/source"
)

// Stats counts what each source contributed to a merge.
type Stats struct {
	Primary          int `json:"primary"`
	PrimaryStubs     int `json:"primary_stubs"`
	Secondary        int `json:"secondary"`
	SecondaryCovered int `json:"secondary_covered"`
	Tertiary         int `json:"tertiary"`
	TertiarySkipped  int `json:"tertiary_skipped"`
	Local            int `json:"local"`
}

// Result is the merged collection plus per-source accounting.
type Result struct {
	Activities []model.Activity
	Stats      Stats
}

// Merge reconciles the three sources. The interval platform is
// authoritative: its records (stubs included) build the covered set of
// cross-source ids, and an activity-network record is added only when its
// own id is not covered. Ergometer workouts are appended unconditionally;
// the logbook exposes no cross-source linkage, so duplicates from that side
// are a known limitation rather than something to guess at. The final order
// is date descending with a stable sort, so same-day records keep
// primary-secondary-tertiary insertion order.
func Merge(primary []source.IntervalsActivity, secondary []source.StravaActivity, tertiary []source.Concept2Result) Result {
	var res Result
	covered := make(map[string]struct{})

	for _, raw := range primary {
		if cross := normalize.CrossSourceID(raw); cross != "" {
			covered[cross] = struct{}{}
		}
		act := normalize.Intervals(raw)
		if act == nil {
			res.Stats.PrimaryStubs++
			continue
		}
		res.Stats.Primary++
		res.Activities = append(res.Activities, *act)
	}

	for _, raw := range secondary {
		act := normalize.Strava(raw)
		if _, ok := covered[act.StravaID]; ok {
			res.Stats.SecondaryCovered++
			continue
		}
		res.Stats.Secondary++
		res.Activities = append(res.Activities, act)
	}

	for _, raw := range tertiary {
		act := normalize.Concept2(raw)
		if act == nil {
			res.Stats.TertiarySkipped++
			continue
		}
		res.Stats.Tertiary++
		res.Activities = append(res.Activities, *act)
	}

	sortByDateDesc(res.Activities)
	return res
}

// AppendLocal adds locally-imported activities after the remote sources and
// restores date ordering.
func AppendLocal(res Result, acts []model.Activity) Result {
	if len(acts) == 0 {
		return res
	}
	res.Activities = append(res.Activities, acts...)
	res.Stats.Local += len(acts)
	sortByDateDesc(res.Activities)
	return res
}

// sortByDateDesc orders newest first. Date strings are YYYY-MM-DD, so
// lexical comparison is chronological; empty dates sort last.
func sortByDateDesc(acts []model.Activity) {
	sort.SliceStable(acts, func(i, j int) bool {
		return acts[i].Date > acts[j].Date
	})
}
