package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EventType names a reservation lifecycle transition worth telling the user about
type EventType string

const (
	EventReservationCreated    EventType = "reservation.created"
	EventReservationCheckedIn  EventType = "reservation.checked_in"
	EventReservationCheckedOut EventType = "reservation.checked_out"
	EventReservationCancelled  EventType = "reservation.cancelled"
	EventReservationCompleted  EventType = "reservation.completed"
	EventReservationTimeout    EventType = "reservation.timeout"
	EventReservationViolated   EventType = "reservation.violated"
)

// ReservationEvent is the message published to the broker on every
// reservation transition. Keyed by user so one user's events stay ordered.
type ReservationEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          EventType `json:"type"`
	ReservationID uuid.UUID `json:"reservation_id"`
	UserID        uuid.UUID `json:"user_id"`
	SeatID        uuid.UUID `json:"seat_id"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewReservationEvent(eventType EventType, reservationID, userID, seatID uuid.UUID, start, end time.Time) *ReservationEvent {
	return &ReservationEvent{
		ID:            uuid.New(),
		Type:          eventType,
		ReservationID: reservationID,
		UserID:        userID,
		SeatID:        seatID,
		StartTime:     start,
		EndTime:       end,
		OccurredAt:    time.Now(),
	}
}

func (e *ReservationEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// PartitionKey routes all of one user's events to the same partition
func (e *ReservationEvent) PartitionKey() string {
	return e.UserID.String()
}
