package bookings

import "errors"

// Caller-facing reservation errors. Every rejection names the guard that
// failed so clients can present an actionable message.
var (
	// ErrConflict means the requested seat/time overlaps a live reservation
	ErrConflict = errors.New("seat already reserved for an overlapping time window")

	// ErrSeatUnavailable means the seat's catalog status blocks booking
	ErrSeatUnavailable = errors.New("seat is not available for booking")

	// ErrInvalidWindow means the time range is malformed or starts in the past
	ErrInvalidWindow = errors.New("invalid reservation time window")

	// ErrBlacklisted means the user is blocked by an explicit blacklist entry
	ErrBlacklisted = errors.New("user is blacklisted from booking")

	// ErrForbidden means the caller does not own the reservation
	ErrForbidden = errors.New("reservation belongs to another user")

	// ErrInvalidTransition means the state machine guard failed: the
	// reservation is already terminal or the event does not apply to its state
	ErrInvalidTransition = errors.New("invalid reservation state transition")

	// ErrTooEarly means check-in was attempted before the lead window opened
	ErrTooEarly = errors.New("too early to check in")

	// ErrCheckInWindowClosed means the check-in grace deadline has passed
	ErrCheckInWindowClosed = errors.New("check-in window already closed")

	// ErrNotFound means the reservation does not exist
	ErrNotFound = errors.New("reservation not found")

	// ErrDailyLimit means the user already holds a live reservation that day
	ErrDailyLimit = errors.New("daily reservation limit reached")

	// ErrUserTimeConflict means the user already holds a live reservation
	// overlapping the requested window on another seat
	ErrUserTimeConflict = errors.New("user already has a reservation in this time window")

	// ErrClassroomOccupied means a classroom-level block covers the window
	ErrClassroomOccupied = errors.New("classroom is occupied during this time window")

	// ErrClassroomClosed means the classroom does not accept reservations
	ErrClassroomClosed = errors.New("classroom is closed")
)
