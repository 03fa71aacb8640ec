// Package admission implements the enrollment admission engine: the rules
// that decide, under concurrent enroll/cancel/accept/reject requests, who
// holds a confirmed seat, who waits, and how freed seats are reassigned.
package admission

import "studyhub/internal/model"

// ShouldAutoAccept decides whether a brand-new enrollment gets a confirmed
// seat immediately. FCFS events hand out seats in arrival order until the
// limit; confirmative events always start the enrollment waiting, regardless
// of free capacity.
func ShouldAutoAccept(eventType model.EventType, acceptedCount, limit int) bool {
	if eventType == model.Confirmative {
		return false
	}
	return HasFreeSpot(acceptedCount, limit)
}

// HasFreeSpot reports whether a confirmed seat is available. Used both for
// initial admission and for promotion after a vacancy opens.
func HasFreeSpot(acceptedCount, limit int) bool {
	return acceptedCount < limit
}
