package stats

import (
	"math"

	"crm-platform/internal/lead"
)

// Status bucket membership. These sets drive every aggregate; a new
// failure-like status must be added to adTargetExcluded or it will count as
// ad-eligible.

var adTargetExcluded = map[string]bool{
	lead.StatusASRequested:     true,
	lead.StatusFailed:          true,
	lead.StatusDuplicate:       true,
	lead.StatusFailedHandedOff: true,
}

var acceptedSet = map[string]bool{
	lead.StatusAccepted:    true,
	lead.StatusInstalled:   true,
	lead.StatusTerminating: true,
}

func isAdTarget(status string) bool  { return !adTargetExcluded[status] }
func isAccepted(status string) bool  { return acceptedSet[status] }
func isInstalled(status string) bool { return status == lead.StatusInstalled }
func isCanceled(status string) bool  { return status == lead.StatusCanceled }

// round1 rounds to one decimal place. Zero denominators are handled by the
// callers; these helpers never see NaN.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundInt64(v float64) int64 {
	return int64(math.Round(v))
}

// ratio returns num/den*100 rounded to one decimal, or 0 when den is 0.
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return round1(num / den * 100)
}
