package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kkkhs/study-room-booking/internal/blacklist"
	"github.com/kkkhs/study-room-booking/internal/catalog"
	"github.com/kkkhs/study-room-booking/internal/notifications"
	"github.com/kkkhs/study-room-booking/internal/shared/config"
	"github.com/kkkhs/study-room-booking/internal/shared/constants"
	"github.com/kkkhs/study-room-booking/pkg/cache"
	"github.com/kkkhs/study-room-booking/pkg/logger"

	"github.com/google/uuid"
)

// SeatCatalog is the read-only slice of the catalog the reservation flow
// needs. Satisfied by catalog.Service.
type SeatCatalog interface {
	GetSeat(ctx context.Context, id string) (*catalog.Seat, error)
	GetClassroomByID(ctx context.Context, id string) (*catalog.ClassroomResponse, error)
	GetSeatsByClassroom(ctx context.Context, classroomID string) ([]catalog.Seat, error)
}

// OccupancyChecker answers whether a classroom-level block covers a window.
// Satisfied by occupancy.Service.
type OccupancyChecker interface {
	IsClassroomBlocked(ctx context.Context, classroomID uuid.UUID, start, end time.Time) (bool, error)
}

type Service interface {
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*Reservation, error)
	CheckIn(ctx context.Context, reservationID, userID string) (*Reservation, error)
	CheckOut(ctx context.Context, reservationID, userID string) (*Reservation, error)
	Cancel(ctx context.Context, reservationID, userID string) error

	GetByID(ctx context.Context, reservationID string) (*Reservation, error)
	ListMine(ctx context.Context, userID string, filters ListFilters) (*PaginatedReservations, error)
	ListAll(ctx context.Context, filters ListFilters) (*PaginatedReservations, error)
	ListBySeatAndDate(ctx context.Context, seatID string, date time.Time) ([]Reservation, error)
	GetSeatMap(ctx context.Context, classroomID string, window TimeWindow) (*SeatMap, error)

	// Sweep entry points, driven by the background job processor
	SweepTimeouts(ctx context.Context) (int, error)
	SweepCompletions(ctx context.Context) (int, error)

	// RebuildLedger reloads the seat index from persisted live reservations
	RebuildLedger(ctx context.Context) error
}

type service struct {
	repo      Repository
	ledger    *SeatLedger
	seats     SeatCatalog
	occupancy OccupancyChecker
	gate      blacklist.Gate
	publisher notifications.Publisher
	cache     cache.Service
	policy    config.BookingConfig
	logger    *logger.Logger
	now       func() time.Time
}

func NewService(
	repo Repository,
	ledger *SeatLedger,
	seats SeatCatalog,
	occupancy OccupancyChecker,
	gate blacklist.Gate,
	publisher notifications.Publisher,
	cacheService cache.Service,
	policy config.BookingConfig,
) Service {
	return &service{
		repo:      repo,
		ledger:    ledger,
		seats:     seats,
		occupancy: occupancy,
		gate:      gate,
		publisher: publisher,
		cache:     cacheService,
		policy:    policy,
		logger:    logger.GetDefault(),
		now:       time.Now,
	}
}

// CreateBooking runs the guard chain in a fixed order; the first failing
// check short-circuits. The ledger insert is the atomic check-then-reserve
// that holds the per-seat exclusivity invariant.
func (s *service) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*Reservation, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	allowed, err := s.gate.CanBook(ctx, uid)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrBlacklisted
	}

	seat, err := s.seats.GetSeat(ctx, req.SeatID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !seat.IsReservable() {
		return nil, ErrSeatUnavailable
	}

	classroom, err := s.seats.GetClassroomByID(ctx, seat.ClassroomID.String())
	if err != nil {
		return nil, err
	}
	if !classroom.IsOpen() {
		return nil, ErrClassroomClosed
	}

	window, err := NewTimeWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if window.Start.Before(now) {
		return nil, ErrInvalidWindow
	}

	dayStart := time.Date(window.Start.Year(), window.Start.Month(), window.Start.Day(), 0, 0, 0, 0, window.Start.Location())
	count, err := s.repo.CountLiveForUserOnDay(ctx, uid, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDailyLimit
	}

	overlap, err := s.repo.HasLiveUserOverlap(ctx, uid, window)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, ErrUserTimeConflict
	}

	blocked, err := s.occupancy.IsClassroomBlocked(ctx, seat.ClassroomID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrClassroomOccupied
	}

	reservation := &Reservation{
		ID:          uuid.New(),
		UserID:      uid,
		SeatID:      seat.ID,
		ClassroomID: seat.ClassroomID,
		StartTime:   window.Start,
		EndTime:     window.End,
		Status:      StatusPending,
	}

	if err := s.ledger.Reserve(seat.ID, window, reservation.ID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, reservation); err != nil {
		// The in-memory hold must not outlive a failed insert
		s.ledger.Release(seat.ID, reservation.ID)
		return nil, fmt.Errorf("failed to persist reservation: %w", err)
	}

	s.invalidateSeatMap(ctx, reservation.ClassroomID)
	s.publish(ctx, notifications.EventReservationCreated, reservation)
	s.logger.LogReservationCreated(ctx, reservation.ID.String(), seat.ID.String(), userID)
	return reservation, nil
}

// CheckIn drives PENDING -> ACTIVE inside the inclusive
// [start-lead, start+grace] window. A late attempt drives PENDING ->
// VIOLATED instead: the seat is released, the violation is counted, and
// the caller is told the window closed.
func (s *service) CheckIn(ctx context.Context, reservationID, userID string) (*Reservation, error) {
	reservation, err := s.authorize(ctx, reservationID, userID)
	if err != nil {
		return nil, err
	}

	if reservation.Status != StatusPending {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	window := reservation.Window()

	if now.Before(window.CheckInOpensAt(s.policy.CheckInLeadTime)) {
		return nil, ErrTooEarly
	}

	if now.After(window.CheckInDeadline(s.policy.CheckInGrace)) {
		// Late attempt: the no-show outcome applies immediately rather
		// than waiting for the sweep. Whichever transition commits first
		// wins; the counter moves exactly once either way.
		affected, err := s.repo.Transition(ctx, reservation.ID, []Status{StatusPending}, StatusViolated, nil)
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, ErrInvalidTransition
		}
		s.finishTerminal(ctx, reservation, notifications.EventReservationViolated, true)
		return nil, ErrCheckInWindowClosed
	}

	affected, err := s.repo.Transition(ctx, reservation.ID, []Status{StatusPending}, StatusActive,
		map[string]interface{}{"check_in_time": now})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Lost the race against the sweep or a concurrent cancel
		return nil, ErrInvalidTransition
	}

	reservation.Status = StatusActive
	reservation.CheckInTime = &now

	s.publish(ctx, notifications.EventReservationCheckedIn, reservation)
	s.logger.LogCheckIn(ctx, reservation.ID.String(), userID)
	return reservation, nil
}

// CheckOut ends an ACTIVE session early, releasing the remaining window.
func (s *service) CheckOut(ctx context.Context, reservationID, userID string) (*Reservation, error) {
	reservation, err := s.authorize(ctx, reservationID, userID)
	if err != nil {
		return nil, err
	}

	if reservation.Status != StatusActive {
		return nil, ErrInvalidTransition
	}

	now := s.now()
	affected, err := s.repo.Transition(ctx, reservation.ID, []Status{StatusActive}, StatusCompleted,
		map[string]interface{}{"check_out_time": now})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrInvalidTransition
	}

	reservation.Status = StatusCompleted
	reservation.CheckOutTime = &now

	s.ledger.Release(reservation.SeatID, reservation.ID)
	s.invalidateSeatMap(ctx, reservation.ClassroomID)
	s.publish(ctx, notifications.EventReservationCheckedOut, reservation)
	return reservation, nil
}

// Cancel is valid from PENDING or ACTIVE and frees the seat window.
func (s *service) Cancel(ctx context.Context, reservationID, userID string) error {
	reservation, err := s.authorize(ctx, reservationID, userID)
	if err != nil {
		return err
	}

	if !reservation.Status.IsLive() {
		return ErrInvalidTransition
	}

	affected, err := s.repo.Transition(ctx, reservation.ID, LiveStatuses, StatusCancelled, nil)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidTransition
	}

	reservation.Status = StatusCancelled
	s.ledger.Release(reservation.SeatID, reservation.ID)
	s.invalidateSeatMap(ctx, reservation.ClassroomID)
	s.publish(ctx, notifications.EventReservationCancelled, reservation)
	s.logger.LogReservationCancelled(ctx, reservation.ID.String(), userID)
	return nil
}

func (s *service) GetByID(ctx context.Context, reservationID string) (*Reservation, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID: %w", err)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListMine(ctx context.Context, userID string, filters ListFilters) (*PaginatedReservations, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return s.repo.ListByUser(ctx, uid, filters)
}

func (s *service) ListAll(ctx context.Context, filters ListFilters) (*PaginatedReservations, error) {
	return s.repo.ListAll(ctx, filters)
}

func (s *service) ListBySeatAndDate(ctx context.Context, seatID string, date time.Time) ([]Reservation, error) {
	id, err := uuid.Parse(seatID)
	if err != nil {
		return nil, fmt.Errorf("invalid seat ID: %w", err)
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return s.repo.ListBySeatAndRange(ctx, id, dayStart, dayStart.AddDate(0, 0, 1))
}

// GetSeatMap projects seat availability for one classroom and window.
// Served from cache with a short TTL; transitions invalidate per classroom.
func (s *service) GetSeatMap(ctx context.Context, classroomID string, window TimeWindow) (*SeatMap, error) {
	cid, err := uuid.Parse(classroomID)
	if err != nil {
		return nil, fmt.Errorf("invalid classroom ID: %w", err)
	}
	if !window.Valid() {
		return nil, ErrInvalidWindow
	}

	var seatMap SeatMap
	cacheKey := constants.SeatMapKey(classroomID, window.Start, window.End)
	err = s.cache.GetOrSet(ctx, cacheKey, constants.TTL_SEAT_MAP, func() (interface{}, error) {
		return s.buildSeatMap(ctx, cid, window)
	}, &seatMap)
	if err != nil {
		return nil, err
	}
	return &seatMap, nil
}

func (s *service) buildSeatMap(ctx context.Context, classroomID uuid.UUID, window TimeWindow) (*SeatMap, error) {
	seats, err := s.seats.GetSeatsByClassroom(ctx, classroomID.String())
	if err != nil {
		return nil, err
	}

	// A classroom-level block (course, maintenance) makes every seat
	// unavailable for the window, regardless of individual reservations.
	blocked, err := s.occupancy.IsClassroomBlocked(ctx, classroomID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	live, err := s.repo.ListLiveByClassroomAndRange(ctx, classroomID, window.Start, window.End)
	if err != nil {
		return nil, err
	}

	reserved := make(map[uuid.UUID]bool, len(live))
	for _, r := range live {
		if r.Window().Overlaps(window) {
			reserved[r.SeatID] = true
		}
	}

	entries := make([]SeatMapEntry, 0, len(seats))
	for _, seat := range seats {
		status := string(seat.Status)
		if seat.IsReservable() {
			switch {
			case blocked:
				status = "OCCUPIED"
			case reserved[seat.ID]:
				status = "RESERVED"
			default:
				status = "AVAILABLE"
			}
		}
		entries = append(entries, SeatMapEntry{
			SeatID:     seat.ID.String(),
			SeatNumber: seat.SeatNumber,
			Row:        seat.Row,
			Column:     seat.Column,
			HasOutlet:  seat.HasOutlet,
			Status:     status,
		})
	}

	return &SeatMap{
		ClassroomID: classroomID.String(),
		Window:      window,
		Seats:       entries,
	}, nil
}

// SweepTimeouts forces PENDING reservations past their grace deadline to
// TIMEOUT. The deadline check uses the transition time, not a cached now.
func (s *service) SweepTimeouts(ctx context.Context) (int, error) {
	now := s.now()
	expired, err := s.repo.ListPendingExpired(ctx, now.Add(-s.policy.CheckInGrace))
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range expired {
		r := &expired[i]
		affected, err := s.repo.Transition(ctx, r.ID, []Status{StatusPending}, StatusTimeout, nil)
		if err != nil {
			s.logger.WithError(err).Error("timeout sweep: transition failed", "reservation_id", r.ID.String())
			continue
		}
		if affected == 0 {
			// Someone checked in, cancelled or violated it first
			continue
		}
		s.finishTerminal(ctx, r, notifications.EventReservationTimeout, true)
		swept++
	}
	return swept, nil
}

// SweepCompletions moves ACTIVE reservations whose window ended to COMPLETED.
func (s *service) SweepCompletions(ctx context.Context) (int, error) {
	ended, err := s.repo.ListActiveEnded(ctx, s.now())
	if err != nil {
		return 0, err
	}

	swept := 0
	for i := range ended {
		r := &ended[i]
		affected, err := s.repo.Transition(ctx, r.ID, []Status{StatusActive}, StatusCompleted, nil)
		if err != nil {
			s.logger.WithError(err).Error("completion sweep: transition failed", "reservation_id", r.ID.String())
			continue
		}
		if affected == 0 {
			continue
		}
		s.finishTerminal(ctx, r, notifications.EventReservationCompleted, false)
		swept++
	}
	return swept, nil
}

// RebuildLedger reloads the in-memory seat index from persisted live
// reservations. Called once at startup before requests are accepted.
func (s *service) RebuildLedger(ctx context.Context) error {
	live, err := s.repo.ListLive(ctx)
	if err != nil {
		return fmt.Errorf("failed to load live reservations: %w", err)
	}
	s.ledger.Rebuild(live)
	return nil
}

// authorize loads the reservation and verifies the caller owns it.
func (s *service) authorize(ctx context.Context, reservationID, userID string) (*Reservation, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID: %w", err)
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}

	reservation, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation.UserID != uid {
		return nil, ErrForbidden
	}
	return reservation, nil
}

// finishTerminal applies the shared side effects of a terminal transition
// that the status-guarded update already committed: ledger release, cache
// invalidation, optional violation count, event publish.
func (s *service) finishTerminal(ctx context.Context, r *Reservation, eventType notifications.EventType, countViolation bool) {
	s.ledger.Release(r.SeatID, r.ID)
	s.invalidateSeatMap(ctx, r.ClassroomID)

	if countViolation {
		if err := s.gate.RecordViolation(ctx, r.UserID); err != nil {
			s.logger.WithError(err).Error("failed to record violation", "user_id", r.UserID.String())
		}
	}

	s.publish(ctx, eventType, r)
}

func (s *service) publish(ctx context.Context, eventType notifications.EventType, r *Reservation) {
	event := notifications.NewReservationEvent(eventType, r.ID, r.UserID, r.SeatID, r.StartTime, r.EndTime)
	if err := s.publisher.PublishReservationEvent(ctx, event); err != nil {
		// Events are best-effort; a broker outage never fails the operation
		s.logger.WithError(err).Warn("failed to publish reservation event", "type", string(eventType))
	}
}

func (s *service) invalidateSeatMap(ctx context.Context, classroomID uuid.UUID) {
	if err := s.cache.DeletePattern(ctx, constants.SeatMapPattern(classroomID.String())); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate seat map cache")
	}
}
