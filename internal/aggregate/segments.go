package aggregate

import (
	"time"

	"fitsync/internal/model"
	"fitsync/internal/source"
)

// Segment collection parameters: only recent network-linked activities are
// worth the per-activity detail request.
const (
	segmentWindowDays    = 90
	segmentActivityLimit = 10
)

// SegmentEntry is one segment effort in the segments artifact. Cycling
// entries carry avg_power, running entries avg_hr.
type SegmentEntry struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	DistanceM float64  `json:"distance"`
	TimeS     float64  `json:"time"`
	PR        bool     `json:"pr"`
	Rank      *int     `json:"rank"`
	Date      string   `json:"date"`
	AvgPowerW *float64 `json:"avg_power,omitempty"`
	AvgHR     *float64 `json:"avg_hr,omitempty"`
}

// Segments is the segments artifact, split by discipline. Slices are always
// non-nil so an empty document still serializes as [] rather than null.
type Segments struct {
	Cycling []SegmentEntry `json:"cycling"`
	Running []SegmentEntry `json:"running"`
}

// NewSegments returns the empty artifact shape.
func NewSegments() Segments {
	return Segments{Cycling: []SegmentEntry{}, Running: []SegmentEntry{}}
}

// RecentStravaLinked selects the activities whose segment efforts are worth
// fetching: network-linked, within the trailing window, newest first, capped.
// Activities are expected already date-descending (merge order).
func RecentStravaLinked(acts []model.Activity, now time.Time) []model.Activity {
	cutoff := now.AddDate(0, 0, -segmentWindowDays).Format("2006-01-02")
	out := make([]model.Activity, 0, segmentActivityLimit)
	for _, a := range acts {
		if a.StravaID == "" || a.Date < cutoff {
			continue
		}
		out = append(out, a)
		if len(out) == segmentActivityLimit {
			break
		}
	}
	return out
}

// SegmentBuilder accumulates efforts across activities, keeping the first
// effort seen per segment id. Activities arrive newest first, so the kept
// effort is the most recent one.
type SegmentBuilder struct {
	segments Segments
	seen     map[int64]struct{}
}

// NewSegmentBuilder constructs an empty builder.
func NewSegmentBuilder() *SegmentBuilder {
	return &SegmentBuilder{segments: NewSegments(), seen: make(map[int64]struct{})}
}

// Add folds one activity's efforts into the collection. Ride-type activities
// contribute cycling entries, everything else running entries.
func (b *SegmentBuilder) Add(act model.Activity, efforts []source.StravaSegmentEffort) {
	for _, e := range efforts {
		if _, ok := b.seen[e.Segment.ID]; ok {
			continue
		}
		b.seen[e.Segment.ID] = struct{}{}
		entry := SegmentEntry{
			ID:        e.Segment.ID,
			Name:      e.Segment.Name,
			DistanceM: e.Segment.Distance,
			TimeS:     e.ElapsedTime,
			PR:        e.PRRank != nil && *e.PRRank == 1,
			Rank:      e.PRRank,
			Date:      act.Date,
		}
		if classify(act.Type) == disciplineRide {
			entry.AvgPowerW = e.AvgWatts
			b.segments.Cycling = append(b.segments.Cycling, entry)
		} else {
			entry.AvgHR = e.AvgHR
			b.segments.Running = append(b.segments.Running, entry)
		}
	}
}

// Segments returns the accumulated artifact.
func (b *SegmentBuilder) Segments() Segments {
	return b.segments
}
