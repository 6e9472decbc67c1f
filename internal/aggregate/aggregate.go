// Package aggregate computes derived views over a merged activity
// collection. Every function is pure and total: malformed input degrades to
// zero or empty results, and the reference time is always passed in rather
// than read from the clock.
package aggregate

// discipline buckets activity types for load and totals breakdowns. The
// table is fixed, not open-ended.
type discipline int

const (
	disciplineOther discipline = iota
	disciplineRide
	disciplineRun
	disciplineRow
)

func classify(actType string) discipline {
	switch actType {
	case "Ride", "VirtualRide":
		return disciplineRide
	case "Run", "VirtualRun":
		return disciplineRun
	case "Rowing", "Kayaking":
		return disciplineRow
	default:
		return disciplineOther
	}
}

func isRunLike(actType string) bool {
	return classify(actType) == disciplineRun
}
