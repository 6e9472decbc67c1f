package source

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString accepts a JSON string, number, or null. The upstream services
// are inconsistent about whether identifiers are quoted.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*s = FlexString(n.String())
	return nil
}

// HeartRate accepts either the nested `{"average":x,"max":y}` object or a
// flat numeric value, which is treated as average-only.
type HeartRate struct {
	Average *float64 `json:"average"`
	Max     *float64 `json:"max"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (h *HeartRate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*h = HeartRate{}
		return nil
	}
	if data[0] == '{' {
		type alias HeartRate
		var v alias
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*h = HeartRate(v)
		return nil
	}
	var avg float64
	if err := json.Unmarshal(data, &avg); err != nil {
		return fmt.Errorf("heart rate: %w", err)
	}
	*h = HeartRate{Average: &avg}
	return nil
}

// IntervalsActivity is one raw activity record from the interval-training
// analytics platform. Stub records reference an activity that lives in the
// activity network and carry a `_note` marker or an empty type.
type IntervalsActivity struct {
	ID           FlexString `json:"id"`
	StravaID     FlexString `json:"strava_id"`
	Note         string     `json:"_note"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	StartDate    string     `json:"start_date_local"`
	MovingTime   *float64   `json:"moving_time"`
	Distance     *float64   `json:"distance"`
	Elevation    *float64   `json:"total_elevation_gain"`
	AvgWatts     *float64   `json:"icu_average_watts"`
	WeightedWats *float64   `json:"icu_weighted_avg_watts"`
	AvgHR        *float64   `json:"average_heartrate"`
	MaxHR        *float64   `json:"max_heartrate"`
	AvgSpeed     *float64   `json:"average_speed"`
	AvgCadence   *float64   `json:"average_cadence"`
	Calories     *float64   `json:"calories"`
	TrainingLoad *float64   `json:"icu_training_load"`
	Intensity    *float64   `json:"icu_intensity"` // percentage-encoded
	FTP          *float64   `json:"icu_ftp"`
	WPrime       *float64   `json:"icu_w_prime"`
	Weight       *float64   `json:"icu_weight"`
	DeviceName   string     `json:"device_name"`
}

// IntervalsWellness is one raw daily wellness record. The record id doubles
// as the calendar date.
type IntervalsWellness struct {
	ID           string   `json:"id"`
	CTL          *float64 `json:"ctl"`
	ATL          *float64 `json:"atl"`
	TSB          *float64 `json:"tsb"`
	TrainingLoad *float64 `json:"trainingLoad"`
	HRV          *float64 `json:"hrv"`
	RestingHR    *float64 `json:"restingHR"`
	SleepSecs    *float64 `json:"sleepSecs"`
	Weight       *float64 `json:"weight"`
	Fatigue      *float64 `json:"fatigue"`
	Mood         *float64 `json:"mood"`
	Soreness     *float64 `json:"soreness"`
	Stress       *float64 `json:"stress"`
	SpO2         *float64 `json:"spO2"`
}

// IntervalsAthlete is the athlete profile record.
type IntervalsAthlete struct {
	ID     FlexString `json:"id"`
	Name   string     `json:"name"`
	Weight *float64   `json:"weight"`
	FTP    *float64   `json:"ftp"`
	WPrime *float64   `json:"wPrime"`
}

// StravaActivity is one raw activity from the activity network.
type StravaActivity struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	SportType   string   `json:"sport_type"`
	StartDate   string   `json:"start_date_local"`
	MovingTime  *float64 `json:"moving_time"`
	ElapsedTime *float64 `json:"elapsed_time"`
	Distance    *float64 `json:"distance"`
	Elevation   *float64 `json:"total_elevation_gain"`
	AvgWatts    *float64 `json:"average_watts"`
	WeightedW   *float64 `json:"weighted_average_watts"`
	AvgHR       *float64 `json:"average_heartrate"`
	MaxHR       *float64 `json:"max_heartrate"`
	AvgSpeed    *float64 `json:"average_speed"`
	AvgCadence  *float64 `json:"average_cadence"`
	Calories    *float64 `json:"calories"`
	DeviceName  string   `json:"device_name"`
}

// StravaSegment is the segment summary nested inside an effort.
type StravaSegment struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// StravaSegmentEffort is one segment effort from an activity detail record.
type StravaSegmentEffort struct {
	Segment     StravaSegment `json:"segment"`
	ElapsedTime float64       `json:"elapsed_time"`
	PRRank      *int          `json:"pr_rank"`
	AvgWatts    *float64      `json:"average_watts"`
	AvgHR       *float64      `json:"average_heartrate"`
}

// Concept2Result is one raw workout from the rowing-ergometer logbook.
// Time fields are in centiseconds.
type Concept2Result struct {
	ID         int64     `json:"id"`
	Date       string    `json:"date"`
	TimeCS     *float64  `json:"time"`
	Distance   *float64  `json:"distance"`
	StrokeRate *float64  `json:"stroke_rate"`
	Calories   *float64  `json:"calories"`
	HeartRate  HeartRate `json:"heart_rate"`
	Comments   string    `json:"comments"`
}

// FitSession is the summary of one decoded local FIT file.
type FitSession struct {
	File       string
	Sport      string
	StartTime  string // YYYY-MM-DD
	DurationS  float64
	DistanceM  float64
	ElevationM float64
	AvgPowerW  *float64
	AvgHR      *float64
	MaxHR      *float64
	AvgCadence *float64
	AvgSpeed   *float64
	Calories   *float64
	Device     string
}
