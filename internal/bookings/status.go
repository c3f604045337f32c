package bookings

// Status is the reservation lifecycle state.
//
//	PENDING -> ACTIVE    (check-in inside the grace window)
//	PENDING -> CANCELLED (user cancel)
//	PENDING -> TIMEOUT   (sweep: no-show past the grace deadline)
//	PENDING -> VIOLATED  (check-in attempted after the deadline)
//	ACTIVE  -> COMPLETED (sweep or check-out at window end)
//	ACTIVE  -> CANCELLED (user cancel, early release)
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusActive    Status = "ACTIVE"
	StatusCancelled Status = "CANCELLED"
	StatusCompleted Status = "COMPLETED"
	StatusViolated  Status = "VIOLATED"
	StatusTimeout   Status = "TIMEOUT"
)

// LiveStatuses are the states in which a reservation occupies its seat window.
var LiveStatuses = []Status{StatusPending, StatusActive}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusCompleted, StatusViolated, StatusTimeout:
		return true
	}
	return false
}

// IsLive reports whether the reservation still holds its seat window.
func (s Status) IsLive() bool {
	return s == StatusPending || s == StatusActive
}

// CountsAsViolation reports whether reaching this state increments the
// owner's violation counter.
func (s Status) CountsAsViolation() bool {
	return s == StatusTimeout || s == StatusViolated
}
