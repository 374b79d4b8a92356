package domain

// DaysRemaining is the signed whole-day count from today until the window
// closes. Negative means the window has already expired.
func DaysRemaining(windowEnd, today Date) int {
	return today.DaysUntil(windowEnd)
}

// Classify derives the lifecycle status from whether the incident has ended
// and how many days remain in the SEP window. The 30-day boundary is
// inclusive: exactly 30 days remaining is expiring_soon.
//
// Status carries no stored transition history; re-running Classify with a
// later "today" yields the later-stage status for the same record.
func Classify(hasIncidentEnd bool, daysRemaining int) Status {
	switch {
	case daysRemaining < 0:
		return StatusExpired
	case daysRemaining <= 30:
		return StatusExpiringSoon
	case hasIncidentEnd:
		return StatusActive
	default:
		return StatusOngoing
	}
}
