package aggregate

import (
	"math"

	"fitsync/internal/model"
)

// Sample durations for the two-parameter critical-power model.
const (
	cpShortSampleS = 300.0  // 5-minute power
	cpLongSampleS  = 1200.0 // 20-minute power
)

// CPModel is the two-parameter critical-power fit: CP is asymptotic
// sustainable power, W' the finite work capacity above it.
type CPModel struct {
	CPW     float64 `json:"cp"`
	WPrimeJ float64 `json:"w_prime"`
	P5W     float64 `json:"p5"`
	P20W    float64 `json:"p20"`
}

// CriticalPower solves the model from a 5-minute and a 20-minute power
// sample. A zero sample means insufficient data: the zero value is returned
// rather than a misleading fit.
func CriticalPower(p5, p20 float64) CPModel {
	if p5 <= 0 || p20 <= 0 {
		return CPModel{}
	}
	t1, t2 := cpShortSampleS, cpLongSampleS
	wPrime := (p5 - p20) * t1 * t2 / (t2 - t1)
	cp := (p5*t1 - p20*t2) / (t1 - t2)
	return CPModel{
		CPW:     round1(cp),
		WPrimeJ: math.Round(wPrime),
		P5W:     p5,
		P20W:    p20,
	}
}

// BestPower estimates the athlete's best power over minDuration from the
// merged collection: the highest normalized (falling back to average) power
// among ride-type activities at least that long. Whole-activity averages
// understate short-effort capability, so this is an estimate.
func BestPower(acts []model.Activity, minDurationS float64) float64 {
	best := 0.0
	for _, a := range acts {
		if classify(a.Type) != disciplineRide || a.DurationS < minDurationS {
			continue
		}
		p := 0.0
		if a.NormPowerW != nil {
			p = *a.NormPowerW
		} else if a.AvgPowerW != nil {
			p = *a.AvgPowerW
		}
		if p > best {
			best = p
		}
	}
	return best
}

// CriticalPowerFromActivities derives both samples from the collection and
// solves the model.
func CriticalPowerFromActivities(acts []model.Activity) CPModel {
	return CriticalPower(BestPower(acts, cpShortSampleS), BestPower(acts, cpLongSampleS))
}
