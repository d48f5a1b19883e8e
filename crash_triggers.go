package main

import (
	"fmt"
	"time"
)

// identifyCrashTriggers walks the energy series in date order and, for each
// crash (a day-over-day drop of 3 or more points), attributes it to a
// completed activity logged the previous day. Absence of a prior-day
// activity produces no attribution: not knowing the trigger is not itself a
// trigger. Returned strings are deduplicated, first occurrence order.
func (a *PacingAnalyzer) identifyCrashTriggers(entries []EnergyEntry, activities []ActivityLog) []string {
	if len(entries) < 2 {
		return nil
	}

	sorted := sortedByDate(entries)

	var triggers []string
	seen := make(map[string]bool)

	for i := 1; i < len(sorted); i++ {
		previous := sorted[i-1]
		current := sorted[i]

		if previous.Level-current.Level < CrashDropThreshold {
			continue
		}

		activity, found := findCompletedActivityOn(activities, previous.Date)
		if !found {
			continue
		}

		var trigger string
		switch activity.Type {
		case ActivityMovementSession:
			trigger = fmt.Sprintf("Movement session on %s preceded a %d-point energy crash; the session intensity may have exceeded your current envelope", dateKey(previous.Date), previous.Level-current.Level)
		case ActivityDailyAnchor:
			trigger = fmt.Sprintf("Daily anchor routine on %s preceded a %d-point energy crash; the routine load may be too high right now", dateKey(previous.Date), previous.Level-current.Level)
		default:
			continue
		}

		if !seen[trigger] {
			seen[trigger] = true
			triggers = append(triggers, trigger)
		}
	}

	return triggers
}

// findCompletedActivityOn returns the first completed activity logged on the
// given calendar date.
func findCompletedActivityOn(activities []ActivityLog, date time.Time) (ActivityLog, bool) {
	for _, activity := range activities {
		if activity.Completed && sameCalendarDay(activity.Date, date) {
			return activity, true
		}
	}
	return ActivityLog{}, false
}
