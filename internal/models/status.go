package models

import (
	"time"

	"gorm.io/datatypes"
)

// ComputeRoomStatus derives a room status from its occupancy and capacity
func ComputeRoomStatus(occupancy, capacity int) RoomStatus {
	switch {
	case occupancy <= 0:
		return RoomAvailable
	case occupancy < capacity:
		return RoomPartiallyOccupied
	default:
		return RoomFullyOccupied
	}
}

// ComputeStudentStatus derives the debt label of a student.
//
// Students that are not placed yet are not evaluated. Otherwise the approved
// payment with the greatest valid_until decides: it must cover today (inclusive).
// Approved payments without valid_until cover nothing, cancelled payments are ignored.
func ComputeStudentStatus(placement PlacementStatus, payments []Payment, today time.Time) StudentStatus {
	if placement == PlacementReceived {
		return StudentNotEvaluated
	}

	latest, ok := LatestValidUntil(payments)
	if !ok || CalendarDay(latest) < CalendarDay(today) {
		return StudentDebtor
	}
	return StudentPaidUp
}

// LatestValidUntil returns the greatest valid_until among approved payments
func LatestValidUntil(payments []Payment) (time.Time, bool) {
	var (
		latest time.Time
		found  bool
	)
	for i := range payments {
		p := &payments[i]
		if p.Status != PaymentApproved || p.ValidUntil == nil {
			continue
		}
		until := time.Time(*p.ValidUntil)
		if !found || CalendarDay(until) > CalendarDay(latest) {
			latest = until
			found = true
		}
	}
	return latest, found
}

// CalendarDay turns t into a sortable yyyymmdd number in t's own location
func CalendarDay(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// NewDate builds a date-only column value
func NewDate(t time.Time) datatypes.Date {
	y, m, d := t.Date()
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// DatePtr is NewDate for nullable columns
func DatePtr(t time.Time) *datatypes.Date {
	d := NewDate(t)
	return &d
}
