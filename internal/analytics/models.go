package analytics

// Statistics is the admin dashboard aggregate.
type Statistics struct {
	TotalUsers     int64 `json:"total_users"`
	TotalBookings  int64 `json:"total_bookings"`
	TodayBookings  int64 `json:"today_bookings"`
	ActiveBookings int64 `json:"active_bookings"`
}
