package aggregate

import (
	"math"

	"fitsync/internal/model"
)

// DefaultPBTolerance is the fraction by which a recorded distance may differ
// from the target and still qualify as a candidate.
const DefaultPBTolerance = 0.15

// PersonalBest is the best estimated time over one target distance. The
// estimate extrapolates from a candidate run's average speed; it is not a
// recorded split time.
type PersonalBest struct {
	DistanceM  float64  `json:"distance"`
	EstimatedS *float64 `json:"estimated_time,omitempty"`
	ActivityID string   `json:"activity_id,omitempty"`
	Date       string   `json:"date,omitempty"`
}

// BestTime estimates the fastest time over targetM from running-like
// activities whose distance is within tolerance of the target and which have
// a positive average speed. Returns nil when no activity qualifies.
func BestTime(acts []model.Activity, targetM, tolerance float64) *PersonalBest {
	if targetM <= 0 {
		return nil
	}
	if tolerance <= 0 {
		tolerance = DefaultPBTolerance
	}
	var best *PersonalBest
	for _, a := range acts {
		if !isRunLike(a.Type) {
			continue
		}
		if math.Abs(a.DistanceM-targetM) > targetM*tolerance {
			continue
		}
		if a.AvgSpeedMPS == nil || *a.AvgSpeedMPS <= 0 {
			continue
		}
		est := round1(targetM / *a.AvgSpeedMPS)
		if best == nil || est < *best.EstimatedS {
			best = &PersonalBest{
				DistanceM:  targetM,
				EstimatedS: model.Float(est),
				ActivityID: a.ID,
				Date:       a.Date,
			}
		}
	}
	return best
}

// PersonalBests evaluates every target distance, emitting a row per target
// so the artifact shape is stable even when nothing qualifies.
func PersonalBests(acts []model.Activity, targetsM []float64, tolerance float64) []PersonalBest {
	out := make([]PersonalBest, 0, len(targetsM))
	for _, target := range targetsM {
		if pb := BestTime(acts, target, tolerance); pb != nil {
			out = append(out, *pb)
			continue
		}
		out = append(out, PersonalBest{DistanceM: target})
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
