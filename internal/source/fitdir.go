package source

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tormoder/fit"
)

// FitImporter reads device FIT exports from a local directory and summarizes
// each file's first session. It supplements the HTTP sources with workouts
// that were never uploaded anywhere.
type FitImporter struct {
	dir    string
	logger *slog.Logger
}

// NewFitImporter constructs an importer over one directory.
func NewFitImporter(dir string, logger *slog.Logger) *FitImporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &FitImporter{dir: dir, logger: logger}
}

// Import decodes every .fit file in the directory. Files that fail to decode
// or carry no session are skipped with a logged warning; one bad file must
// not sink the batch.
func (im *FitImporter) Import() ([]FitSession, error) {
	entries, err := os.ReadDir(im.dir)
	if err != nil {
		return nil, fmt.Errorf("read fit directory: %w", err)
	}
	sessions := make([]FitSession, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".fit") {
			continue
		}
		path := filepath.Join(im.dir, e.Name())
		s, err := decodeFitSession(path)
		if err != nil {
			im.logger.Warn("skipping fit file", "file", e.Name(), "error", err)
			continue
		}
		sessions = append(sessions, *s)
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].StartTime < sessions[j].StartTime })
	return sessions, nil
}

func decodeFitSession(path string) (*FitSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decoded, err := fit.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("activity file: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return nil, fmt.Errorf("no sessions")
	}
	s := activity.Sessions[0]

	out := &FitSession{
		File:       filepath.Base(path),
		Sport:      fmt.Sprint(s.Sport),
		DurationS:  positive(s.GetTotalTimerTimeScaled()),
		DistanceM:  positive(s.GetTotalDistanceScaled()),
		ElevationM: float64(validUint16(s.TotalAscent)),
		Device:     fmt.Sprint(decoded.FileId.Manufacturer),
	}
	if out.DurationS == 0 {
		out.DurationS = positive(s.GetTotalElapsedTimeScaled())
	}
	if !s.StartTime.IsZero() && !fit.IsBaseTime(s.StartTime) {
		out.StartTime = s.StartTime.UTC().Format("2006-01-02")
	}
	if v := validUint16(s.AvgPower); v > 0 {
		out.AvgPowerW = floatPtr(float64(v))
	}
	if v := validUint8(s.AvgHeartRate); v > 0 {
		out.AvgHR = floatPtr(float64(v))
	}
	if v := validUint8(s.MaxHeartRate); v > 0 {
		out.MaxHR = floatPtr(float64(v))
	}
	if v := cadenceFromAny(s.GetAvgCadence()); v > 0 {
		out.AvgCadence = floatPtr(v)
	}
	if v := positive(s.GetAvgSpeedScaled()); v > 0 {
		out.AvgSpeed = floatPtr(v)
	}
	if v := validUint16(s.TotalCalories); v > 0 {
		out.Calories = floatPtr(float64(v))
	}
	return out, nil
}

func validUint8(v uint8) uint8 {
	if v == math.MaxUint8 {
		return 0
	}
	return v
}

func validUint16(v uint16) uint16 {
	if v == math.MaxUint16 {
		return 0
	}
	return v
}

func cadenceFromAny(v any) float64 {
	switch x := v.(type) {
	case uint8:
		if x == math.MaxUint8 {
			return 0
		}
		return float64(x)
	case uint16:
		if x == math.MaxUint16 {
			return 0
		}
		return float64(x)
	case float64:
		return x
	default:
		return 0
	}
}

func positive(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}

func floatPtr(v float64) *float64 {
	out := v
	return &out
}
