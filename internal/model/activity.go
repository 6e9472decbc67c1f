package model

import "strings"

// Source identifies which adapter produced an activity.
type Source string

const (
	SourceIntervals Source = "INTERVALS"
	SourceStrava    Source = "STRAVA"
	SourceConcept2  Source = "CONCEPT2"
	SourceFit       Source = "FIT"
)

// Activity is the canonical record for one physical workout. Field names in
// JSON form the contract consumed by the dashboard; optional numeric metrics
// are pointers so sources that never report them stay absent from output.
type Activity struct {
	ID          string   `json:"id"`
	StravaID    string   `json:"strava_id,omitempty"` // cross-source linkage key
	Source      Source   `json:"source"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Date        string   `json:"date"` // YYYY-MM-DD local, "" when unavailable
	DurationS   float64  `json:"duration"`
	DistanceM   float64  `json:"distance"`
	ElevationM  float64  `json:"elevation"`
	AvgPowerW   *float64 `json:"avg_power,omitempty"`
	NormPowerW  *float64 `json:"norm_power,omitempty"`
	AvgHR       *float64 `json:"avg_hr,omitempty"`
	MaxHR       *float64 `json:"max_hr,omitempty"`
	AvgSpeedMPS *float64 `json:"avg_speed,omitempty"`
	AvgPaceS500 *float64 `json:"avg_pace,omitempty"` // seconds per 500 m, rowing only
	AvgCadence  *float64 `json:"avg_cadence,omitempty"`
	Calories    *float64 `json:"calories,omitempty"`
	TSS         float64  `json:"tss"`
	IF          *float64 `json:"if_val,omitempty"`
	FTPW        *float64 `json:"ftp,omitempty"`
	WPrimeJ     *float64 `json:"w_prime,omitempty"`
	WeightKG    *float64 `json:"weight,omitempty"`
	Device      string   `json:"device"`
	IsGarmin    bool     `json:"is_garmin"`
}

// DeviceIsGarmin reports whether a device name belongs to a Garmin wearable.
func DeviceIsGarmin(device string) bool {
	return strings.Contains(strings.ToLower(device), "garmin")
}

// Float returns a pointer to v. Used when building optional metric fields.
func Float(v float64) *float64 {
	out := v
	return &out
}
