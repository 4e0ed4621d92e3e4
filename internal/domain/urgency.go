package domain

import "time"

// UrgencyWindow is how close a due date must be for a task to count as urgent.
const UrgencyWindow = 24 * time.Hour

// IsUrgent reports whether a task with the given priority and optional due
// date qualifies for the urgency cache at now. High priority always does; so
// does any due date at most UrgencyWindow away, including ones already past.
//
// The policy is only consulted when a task is written. A task that drifts
// into the window as the clock advances stays out of the cache until the
// next write that touches it.
func IsUrgent(priority Priority, dueDate *time.Time, now time.Time) bool {
	if priority == PriorityHigh {
		return true
	}
	if dueDate == nil {
		return false
	}
	return dueDate.Sub(now) <= UrgencyWindow
}
