package bookings

import "time"

type CreateBookingRequest struct {
	SeatID    string    `json:"seat_id" binding:"required,uuid"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type ListFilters struct {
	Status string
	Page   int
	Limit  int
}

type PaginatedReservations struct {
	Reservations []Reservation `json:"reservations"`
	Total        int64         `json:"total"`
	Page         int           `json:"page"`
	Limit        int           `json:"limit"`
}

// SeatMapEntry projects one seat's availability for a queried window.
type SeatMapEntry struct {
	SeatID     string `json:"seat_id"`
	SeatNumber string `json:"seat_number"`
	Row        int    `json:"row"`
	Column     int    `json:"column"`
	HasOutlet  bool   `json:"has_outlet"`
	Status     string `json:"status"` // AVAILABLE, RESERVED or DISABLED for the window
}

type SeatMap struct {
	ClassroomID string         `json:"classroom_id"`
	Window      TimeWindow     `json:"window"`
	Seats       []SeatMapEntry `json:"seats"`
}
