package bookings

import "time"

// TimeWindow is a half-open interval [Start, End). Touching endpoints do
// not overlap, so back-to-back reservations on one seat are allowed.
type TimeWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTimeWindow validates start < end and returns the window.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	w := TimeWindow{Start: start, End: end}
	if !w.Valid() {
		return TimeWindow{}, ErrInvalidWindow
	}
	return w, nil
}

func (w TimeWindow) Valid() bool {
	return w.Start.Before(w.End)
}

// Overlaps reports whether two half-open windows intersect.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.Start.Before(other.End) && other.Start.Before(w.End)
}

// Contains reports whether t falls inside [Start, End).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

func (w TimeWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// CheckInOpensAt is the earliest instant check-in is accepted.
func (w TimeWindow) CheckInOpensAt(leadTime time.Duration) time.Time {
	return w.Start.Add(-leadTime)
}

// CheckInDeadline is the latest instant check-in is accepted (inclusive).
func (w TimeWindow) CheckInDeadline(grace time.Duration) time.Time {
	return w.Start.Add(grace)
}

// InCheckInWindow reports whether now falls inside the inclusive
// [start-leadTime, start+grace] check-in interval.
func (w TimeWindow) InCheckInWindow(now time.Time, leadTime, grace time.Duration) bool {
	return !now.Before(w.CheckInOpensAt(leadTime)) && !now.After(w.CheckInDeadline(grace))
}
