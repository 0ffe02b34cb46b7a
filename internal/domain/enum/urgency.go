package enum

// Urgency tags a queued order for the cashier dashboard.
type Urgency string

const (
	// Regular orders, by minutes since they were placed.
	UrgencyFresh   Urgency = "fresh"   // < 30
	UrgencyWarning Urgency = "warning" // >= 30
	UrgencyLate    Urgency = "late"    // >= 60

	// Pre-orders, by minutes until the scheduled time.
	UrgencyDue       Urgency = "due"       // <= 0
	UrgencySoon      Urgency = "soon"      // <= 20
	UrgencyUpcoming  Urgency = "upcoming"  // <= 40
	UrgencyScheduled Urgency = "scheduled" // later, or no time given
)

// ElapsedUrgency classifies a regular order.
func ElapsedUrgency(minutesElapsed int) Urgency {
	switch {
	case minutesElapsed >= 60:
		return UrgencyLate
	case minutesElapsed >= 30:
		return UrgencyWarning
	default:
		return UrgencyFresh
	}
}

// CountdownUrgency classifies a pre-order.
func CountdownUrgency(minutesUntil int) Urgency {
	switch {
	case minutesUntil <= 0:
		return UrgencyDue
	case minutesUntil <= 20:
		return UrgencySoon
	case minutesUntil <= 40:
		return UrgencyUpcoming
	default:
		return UrgencyScheduled
	}
}
