package model

// Wellness is one day of wellness and training-load metrics. At most one
// record exists per calendar date after normalization.
type Wellness struct {
	Date      string   `json:"date"`
	CTL       *float64 `json:"ctl,omitempty"`
	ATL       *float64 `json:"atl,omitempty"`
	TSB       *float64 `json:"tsb,omitempty"`
	TSS       float64  `json:"tss"`
	HRV       *float64 `json:"hrv,omitempty"`
	RestingHR *float64 `json:"resting_hr,omitempty"`
	SleepH    *float64 `json:"sleep,omitempty"` // hours, one decimal
	WeightKG  *float64 `json:"weight,omitempty"`
	Fatigue   *float64 `json:"fatigue,omitempty"`
	Mood      *float64 `json:"mood,omitempty"`
	Soreness  *float64 `json:"soreness,omitempty"`
	Stress    *float64 `json:"stress,omitempty"`
	SpO2      *float64 `json:"spo2,omitempty"`
}
