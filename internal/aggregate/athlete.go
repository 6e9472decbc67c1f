package aggregate

import "fitsync/internal/model"

// AthleteSnapshot is the most recent known physiological state, scraped from
// activity-level snapshots because the profile endpoint omits them.
type AthleteSnapshot struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	WeightKG *float64 `json:"weight,omitempty"`
	FTPW     *float64 `json:"ftp,omitempty"`
	WPrimeJ  *float64 `json:"w_prime,omitempty"`
}

// Snapshot scans activities newest-first for the latest non-nil weight, FTP
// and W'. Weight falls back to the newest wellness record carrying one.
// Activities are expected already date-descending (merge order).
func Snapshot(acts []model.Activity, wellness []model.Wellness) AthleteSnapshot {
	var snap AthleteSnapshot
	for _, a := range acts {
		if snap.WeightKG == nil && a.WeightKG != nil {
			snap.WeightKG = a.WeightKG
		}
		if snap.FTPW == nil && a.FTPW != nil {
			snap.FTPW = a.FTPW
		}
		if snap.WPrimeJ == nil && a.WPrimeJ != nil {
			snap.WPrimeJ = a.WPrimeJ
		}
		if snap.WeightKG != nil && snap.FTPW != nil && snap.WPrimeJ != nil {
			break
		}
	}
	if snap.WeightKG == nil {
		// Wellness is ascending; walk from the newest end.
		for i := len(wellness) - 1; i >= 0; i-- {
			if wellness[i].WeightKG != nil {
				snap.WeightKG = wellness[i].WeightKG
				break
			}
		}
	}
	return snap
}
