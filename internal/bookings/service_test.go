package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kkkhs/study-room-booking/internal/catalog"
	"github.com/kkkhs/study-room-booking/internal/notifications"
	"github.com/kkkhs/study-room-booking/internal/shared/config"
	"github.com/kkkhs/study-room-booking/pkg/cache"
	"github.com/kkkhs/study-room-booking/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// Mock structures

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, reservation *Reservation) error {
	args := m.Called(ctx, reservation)
	return args.Error(0)
}

func (m *MockRepository) GetByID(ctx context.Context, id uuid.UUID) (*Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Reservation), args.Error(1)
}

func (m *MockRepository) Transition(ctx context.Context, id uuid.UUID, from []Status, to Status, updates map[string]interface{}) (int64, error) {
	args := m.Called(ctx, id, from, to, updates)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) ListLive(ctx context.Context) ([]Reservation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]Reservation), args.Error(1)
}

func (m *MockRepository) ListPendingExpired(ctx context.Context, deadline time.Time) ([]Reservation, error) {
	args := m.Called(ctx, deadline)
	return args.Get(0).([]Reservation), args.Error(1)
}

func (m *MockRepository) ListActiveEnded(ctx context.Context, now time.Time) ([]Reservation, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]Reservation), args.Error(1)
}

func (m *MockRepository) ListByUser(ctx context.Context, userID uuid.UUID, filters ListFilters) (*PaginatedReservations, error) {
	args := m.Called(ctx, userID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaginatedReservations), args.Error(1)
}

func (m *MockRepository) ListAll(ctx context.Context, filters ListFilters) (*PaginatedReservations, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaginatedReservations), args.Error(1)
}

func (m *MockRepository) ListBySeatAndRange(ctx context.Context, seatID uuid.UUID, from, to time.Time) ([]Reservation, error) {
	args := m.Called(ctx, seatID, from, to)
	return args.Get(0).([]Reservation), args.Error(1)
}

func (m *MockRepository) ListLiveByClassroomAndRange(ctx context.Context, classroomID uuid.UUID, from, to time.Time) ([]Reservation, error) {
	args := m.Called(ctx, classroomID, from, to)
	return args.Get(0).([]Reservation), args.Error(1)
}

func (m *MockRepository) CountLiveForUserOnDay(ctx context.Context, userID uuid.UUID, dayStart, dayEnd time.Time) (int64, error) {
	args := m.Called(ctx, userID, dayStart, dayEnd)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) HasLiveUserOverlap(ctx context.Context, userID uuid.UUID, w TimeWindow) (bool, error) {
	args := m.Called(ctx, userID, w)
	return args.Bool(0), args.Error(1)
}

type MockSeatCatalog struct {
	mock.Mock
}

func (m *MockSeatCatalog) GetSeat(ctx context.Context, id string) (*catalog.Seat, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Seat), args.Error(1)
}

func (m *MockSeatCatalog) GetClassroomByID(ctx context.Context, id string) (*catalog.ClassroomResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ClassroomResponse), args.Error(1)
}

func (m *MockSeatCatalog) GetSeatsByClassroom(ctx context.Context, classroomID string) ([]catalog.Seat, error) {
	args := m.Called(ctx, classroomID)
	return args.Get(0).([]catalog.Seat), args.Error(1)
}

type MockOccupancyChecker struct {
	mock.Mock
}

func (m *MockOccupancyChecker) IsClassroomBlocked(ctx context.Context, classroomID uuid.UUID, start, end time.Time) (bool, error) {
	args := m.Called(ctx, classroomID, start, end)
	return args.Bool(0), args.Error(1)
}

type MockGate struct {
	mock.Mock
}

func (m *MockGate) CanBook(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockGate) RecordViolation(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// stubPublisher records published event types; events are best-effort so
// assertions only need the trail.
type stubPublisher struct {
	mu     sync.Mutex
	events []notifications.EventType
}

func (p *stubPublisher) PublishReservationEvent(ctx context.Context, event *notifications.ReservationEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.Type)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

func (p *stubPublisher) published() []notifications.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notifications.EventType(nil), p.events...)
}

// stubCache is a pass-through cache: GetOrSet always runs the fetcher.
type stubCache struct{}

func (stubCache) Get(ctx context.Context, key string, dest interface{}) error { return cache.ErrCacheMiss }
func (stubCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (stubCache) Delete(ctx context.Context, key string) error         { return nil }
func (stubCache) DeletePattern(ctx context.Context, pattern string) error { return nil }
func (stubCache) Exists(ctx context.Context, key string) bool          { return false }
func (stubCache) Ping(ctx context.Context) error                       { return nil }

func (stubCache) GetOrSet(ctx context.Context, key string, ttl time.Duration, fetcher func() (interface{}, error), dest interface{}) error {
	value, err := fetcher()
	if err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Fixtures

var testPolicy = config.BookingConfig{
	CheckInLeadTime: 30 * time.Minute,
	CheckInGrace:    15 * time.Minute,
	SweepInterval:   time.Minute,
}

type testDeps struct {
	repo      *MockRepository
	seats     *MockSeatCatalog
	occupancy *MockOccupancyChecker
	gate      *MockGate
	publisher *stubPublisher
}

func newTestService(now time.Time) (*service, *testDeps) {
	deps := &testDeps{
		repo:      &MockRepository{},
		seats:     &MockSeatCatalog{},
		occupancy: &MockOccupancyChecker{},
		gate:      &MockGate{},
		publisher: &stubPublisher{},
	}
	svc := &service{
		repo:      deps.repo,
		ledger:    NewSeatLedger(),
		seats:     deps.seats,
		occupancy: deps.occupancy,
		gate:      deps.gate,
		publisher: deps.publisher,
		cache:     stubCache{},
		policy:    testPolicy,
		logger:    logger.GetDefault(),
		now:       func() time.Time { return now },
	}
	return svc, deps
}

func availableSeat() *catalog.Seat {
	return &catalog.Seat{
		ID:          uuid.New(),
		ClassroomID: uuid.New(),
		SeatNumber:  "A01",
		Row:         1,
		Column:      1,
		Status:      catalog.SeatAvailable,
	}
}

func openClassroom(id uuid.UUID) *catalog.ClassroomResponse {
	return &catalog.ClassroomResponse{
		Classroom: catalog.Classroom{
			ID:     id,
			Name:   "201 Quiet Study",
			Status: catalog.ClassroomOpen,
		},
		TotalSeats: 100,
	}
}

// CreateBooking

func TestService_CreateBooking_Success(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	seat := availableSeat()
	req := CreateBookingRequest{
		SeatID:    seat.ID.String(),
		StartTime: now.Add(2 * time.Hour),
		EndTime:   now.Add(4 * time.Hour),
	}

	deps.gate.On("CanBook", ctx, userID).Return(true, nil).Once()
	deps.seats.On("GetSeat", ctx, seat.ID.String()).Return(seat, nil).Once()
	deps.seats.On("GetClassroomByID", ctx, seat.ClassroomID.String()).Return(openClassroom(seat.ClassroomID), nil).Once()
	deps.repo.On("CountLiveForUserOnDay", ctx, userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()
	deps.repo.On("HasLiveUserOverlap", ctx, userID, mock.AnythingOfType("bookings.TimeWindow")).Return(false, nil).Once()
	deps.occupancy.On("IsClassroomBlocked", ctx, seat.ClassroomID, req.StartTime, req.EndTime).Return(false, nil).Once()
	deps.repo.On("Create", ctx, mock.AnythingOfType("*bookings.Reservation")).Return(nil).Once()

	reservation, err := svc.CreateBooking(ctx, userID.String(), req)

	assert.NoError(t, err)
	assert.NotNil(t, reservation)
	assert.Equal(t, StatusPending, reservation.Status)
	assert.Equal(t, userID, reservation.UserID)
	assert.Equal(t, seat.ID, reservation.SeatID)
	assert.Equal(t, seat.ClassroomID, reservation.ClassroomID)

	// The seat window is now held in the ledger
	assert.Equal(t, 1, svc.ledger.LiveCount(seat.ID))
	assert.Equal(t, []notifications.EventType{notifications.EventReservationCreated}, deps.publisher.published())

	deps.repo.AssertExpectations(t)
	deps.gate.AssertExpectations(t)
	deps.seats.AssertExpectations(t)
	deps.occupancy.AssertExpectations(t)
}

func TestService_CreateBooking_Blacklisted(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	deps.gate.On("CanBook", ctx, userID).Return(false, nil).Once()

	reservation, err := svc.CreateBooking(ctx, userID.String(), CreateBookingRequest{
		SeatID:    uuid.New().String(),
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrBlacklisted)
	assert.Nil(t, reservation)

	deps.gate.AssertExpectations(t)
	deps.seats.AssertNotCalled(t, "GetSeat")
	deps.repo.AssertNotCalled(t, "Create")
}

func TestService_CreateBooking_SeatNotReservable(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	seat := availableSeat()
	seat.Status = catalog.SeatDisabled

	deps.gate.On("CanBook", ctx, userID).Return(true, nil).Once()
	deps.seats.On("GetSeat", ctx, seat.ID.String()).Return(seat, nil).Once()

	_, err := svc.CreateBooking(ctx, userID.String(), CreateBookingRequest{
		SeatID:    seat.ID.String(),
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrSeatUnavailable)
	deps.repo.AssertNotCalled(t, "Create")
}

func TestService_CreateBooking_UnknownSeat(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	seatID := uuid.New().String()

	deps.gate.On("CanBook", ctx, userID).Return(true, nil).Once()
	deps.seats.On("GetSeat", ctx, seatID).Return(nil, catalog.ErrNotFound).Once()

	_, err := svc.CreateBooking(ctx, userID.String(), CreateBookingRequest{
		SeatID:    seatID,
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateBooking_ClassroomClosed(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	seat := availableSeat()
	classroom := openClassroom(seat.ClassroomID)
	classroom.Status = catalog.ClassroomClosed

	deps.gate.On("CanBook", ctx, userID).Return(true, nil).Once()
	deps.seats.On("GetSeat", ctx, seat.ID.String()).Return(seat, nil).Once()
	deps.seats.On("GetClassroomByID", ctx, seat.ClassroomID.String()).Return(classroom, nil).Once()

	_, err := svc.CreateBooking(ctx, userID.String(), CreateBookingRequest{
		SeatID:    seat.ID.String(),
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrClassroomClosed)
	deps.repo.AssertNotCalled(t, "Create")
}

func TestService_CreateBooking_WindowValidation(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	seat := availableSeat()

	deps.gate.On("CanBook", ctx, userID).Return(true, nil)
	deps.seats.On("GetSeat", ctx, seat.ID.String()).Return(seat, nil)
	deps.seats.On("GetClassroomByID", ctx, seat.ClassroomID.String()).Return(openClassroom(seat.ClassroomID), nil)

	testCases := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"end before start", now.Add(2 * time.Hour), now.Add(time.Hour)},
		{"zero duration", now.Add(time.Hour), now.Add(time.Hour)},
		{"start in the past", now.Add(-time.Hour), now.Add(time.Hour)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateBooking(ctx, userID.String(), CreateBookingRequest{
				SeatID:    seat.ID.String(),
				StartTime: tc.start,
				EndTime:   tc.end,
			})
			assert.ErrorIs(t, err, ErrInvalidWindow)
		})
	}

	deps.repo.AssertNotCalled(t, "Create")
}

func TestService_CreateBooking_DailyLimit(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	seat := availableSeat()

	deps.gate.On("CanBook", ctx, userID).Return(true, nil).Once()
	deps.seats.On("GetSeat", ctx, seat.ID.String()).Return(seat, nil).Once()
	deps.seats.On("GetClassroomByID", ctx, seat.ClassroomID.String()).Return(openClassroom(seat.ClassroomID), nil).Once()
	deps.repo.On("CountLiveForUserOnDay", ctx, userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(int64(1), nil).Once()

	_, err := svc.CreateBooking(ctx, userID.String(), CreateBookingRequest{
		SeatID:    seat.ID.String(),
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrDailyLimit)
	deps.repo.AssertNotCalled(t, "HasLiveUserOverlap")
	deps.repo.AssertNotCalled(t, "Create")
}

func TestService_CreateBooking_UserTimeConflict(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	seat := availableSeat()

	deps.gate.On("CanBook", ctx, userID).Return(true, nil).Once()
	deps.seats.On("GetSeat", ctx, seat.ID.String()).Return(seat, nil).Once()
	deps.seats.On("GetClassroomByID", ctx, seat.ClassroomID.String()).Return(openClassroom(seat.ClassroomID), nil).Once()
	deps.repo.On("CountLiveForUserOnDay", ctx, userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()
	deps.repo.On("HasLiveUserOverlap", ctx, userID, mock.AnythingOfType("bookings.TimeWindow")).Return(true, nil).Once()

	_, err := svc.CreateBooking(ctx, userID.String(), CreateBookingRequest{
		SeatID:    seat.ID.String(),
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrUserTimeConflict)
	deps.occupancy.AssertNotCalled(t, "IsClassroomBlocked")
}

func TestService_CreateBooking_ClassroomOccupied(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	seat := availableSeat()

	deps.gate.On("CanBook", ctx, userID).Return(true, nil).Once()
	deps.seats.On("GetSeat", ctx, seat.ID.String()).Return(seat, nil).Once()
	deps.seats.On("GetClassroomByID", ctx, seat.ClassroomID.String()).Return(openClassroom(seat.ClassroomID), nil).Once()
	deps.repo.On("CountLiveForUserOnDay", ctx, userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()
	deps.repo.On("HasLiveUserOverlap", ctx, userID, mock.AnythingOfType("bookings.TimeWindow")).Return(false, nil).Once()
	deps.occupancy.On("IsClassroomBlocked", ctx, seat.ClassroomID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(true, nil).Once()

	_, err := svc.CreateBooking(ctx, userID.String(), CreateBookingRequest{
		SeatID:    seat.ID.String(),
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrClassroomOccupied)
	assert.Equal(t, 0, svc.ledger.LiveCount(seat.ID))
	deps.repo.AssertNotCalled(t, "Create")
}

func TestService_CreateBooking_SeatWindowConflict(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	seat := availableSeat()
	window := mustWindow(t, now.Add(time.Hour), now.Add(3*time.Hour))

	// Another reservation already holds an overlapping window on the seat
	assert.NoError(t, svc.ledger.Reserve(seat.ID, window, uuid.New()))

	deps.gate.On("CanBook", ctx, userID).Return(true, nil).Once()
	deps.seats.On("GetSeat", ctx, seat.ID.String()).Return(seat, nil).Once()
	deps.seats.On("GetClassroomByID", ctx, seat.ClassroomID.String()).Return(openClassroom(seat.ClassroomID), nil).Once()
	deps.repo.On("CountLiveForUserOnDay", ctx, userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()
	deps.repo.On("HasLiveUserOverlap", ctx, userID, mock.AnythingOfType("bookings.TimeWindow")).Return(false, nil).Once()
	deps.occupancy.On("IsClassroomBlocked", ctx, seat.ClassroomID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(false, nil).Once()

	_, err := svc.CreateBooking(ctx, userID.String(), CreateBookingRequest{
		SeatID:    seat.ID.String(),
		StartTime: now.Add(2 * time.Hour),
		EndTime:   now.Add(4 * time.Hour),
	})

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, svc.ledger.LiveCount(seat.ID))
	deps.repo.AssertNotCalled(t, "Create")
}

func TestService_CreateBooking_PersistFailureReleasesHold(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	seat := availableSeat()

	deps.gate.On("CanBook", ctx, userID).Return(true, nil).Once()
	deps.seats.On("GetSeat", ctx, seat.ID.String()).Return(seat, nil).Once()
	deps.seats.On("GetClassroomByID", ctx, seat.ClassroomID.String()).Return(openClassroom(seat.ClassroomID), nil).Once()
	deps.repo.On("CountLiveForUserOnDay", ctx, userID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(int64(0), nil).Once()
	deps.repo.On("HasLiveUserOverlap", ctx, userID, mock.AnythingOfType("bookings.TimeWindow")).Return(false, nil).Once()
	deps.occupancy.On("IsClassroomBlocked", ctx, seat.ClassroomID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).Return(false, nil).Once()
	deps.repo.On("Create", ctx, mock.Anything).Return(errors.New("database error")).Once()

	_, err := svc.CreateBooking(ctx, userID.String(), CreateBookingRequest{
		SeatID:    seat.ID.String(),
		StartTime: now.Add(time.Hour),
		EndTime:   now.Add(2 * time.Hour),
	})

	assert.Error(t, err)
	// The in-memory hold must not survive a failed insert
	assert.Equal(t, 0, svc.ledger.LiveCount(seat.ID))
	assert.Empty(t, deps.publisher.published())
}

// CheckIn

func pendingReservation(userID uuid.UUID, start time.Time) *Reservation {
	return &Reservation{
		ID:          uuid.New(),
		UserID:      userID,
		SeatID:      uuid.New(),
		ClassroomID: uuid.New(),
		StartTime:   start,
		EndTime:     start.Add(2 * time.Hour),
		Status:      StatusPending,
	}
}

func TestService_CheckIn_AtWindowBounds(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	testCases := []struct {
		name string
		now  time.Time
	}{
		{"earliest instant, start minus lead", start.Add(-30 * time.Minute)},
		{"exactly at start", start},
		{"latest instant, start plus grace", start.Add(15 * time.Minute)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, deps := newTestService(tc.now)
			ctx := context.Background()

			userID := uuid.New()
			reservation := pendingReservation(userID, start)

			deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()
			deps.repo.On("Transition", ctx, reservation.ID, []Status{StatusPending}, StatusActive,
				map[string]interface{}{"check_in_time": tc.now}).Return(int64(1), nil).Once()

			result, err := svc.CheckIn(ctx, reservation.ID.String(), userID.String())

			assert.NoError(t, err)
			assert.Equal(t, StatusActive, result.Status)
			assert.NotNil(t, result.CheckInTime)
			assert.Equal(t, tc.now, *result.CheckInTime)
			deps.repo.AssertExpectations(t)
		})
	}
}

func TestService_CheckIn_TooEarly(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(-30*time.Minute - time.Second)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	reservation := pendingReservation(userID, start)
	deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()

	_, err := svc.CheckIn(ctx, reservation.ID.String(), userID.String())

	assert.ErrorIs(t, err, ErrTooEarly)
	deps.repo.AssertNotCalled(t, "Transition")
	deps.gate.AssertNotCalled(t, "RecordViolation")
}

func TestService_CheckIn_LateAttemptViolates(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(15*time.Minute + time.Second)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	reservation := pendingReservation(userID, start)
	window := reservation.Window()
	assert.NoError(t, svc.ledger.Reserve(reservation.SeatID, window, reservation.ID))

	deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()
	deps.repo.On("Transition", ctx, reservation.ID, []Status{StatusPending}, StatusViolated,
		mock.Anything).Return(int64(1), nil).Once()
	deps.gate.On("RecordViolation", ctx, userID).Return(nil).Once()

	_, err := svc.CheckIn(ctx, reservation.ID.String(), userID.String())

	assert.ErrorIs(t, err, ErrCheckInWindowClosed)
	// The seat window is freed and the violation counted exactly once
	assert.Equal(t, 0, svc.ledger.LiveCount(reservation.SeatID))
	assert.Equal(t, []notifications.EventType{notifications.EventReservationViolated}, deps.publisher.published())
	deps.gate.AssertNumberOfCalls(t, "RecordViolation", 1)
	deps.repo.AssertExpectations(t)
}

func TestService_CheckIn_LateAttemptLosesRace(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	reservation := pendingReservation(userID, start)

	deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()
	// The sweep already moved the row; the guarded update touches nothing
	deps.repo.On("Transition", ctx, reservation.ID, []Status{StatusPending}, StatusViolated,
		mock.Anything).Return(int64(0), nil).Once()

	_, err := svc.CheckIn(ctx, reservation.ID.String(), userID.String())

	assert.ErrorIs(t, err, ErrInvalidTransition)
	// The loser must not count the violation a second time
	deps.gate.AssertNotCalled(t, "RecordViolation")
	assert.Empty(t, deps.publisher.published())
}

func TestService_CheckIn_LostRaceAgainstCancel(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	svc, deps := newTestService(start)
	ctx := context.Background()

	userID := uuid.New()
	reservation := pendingReservation(userID, start)

	deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()
	deps.repo.On("Transition", ctx, reservation.ID, []Status{StatusPending}, StatusActive,
		mock.Anything).Return(int64(0), nil).Once()

	_, err := svc.CheckIn(ctx, reservation.ID.String(), userID.String())

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestService_CheckIn_WrongOwner(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	svc, deps := newTestService(start)
	ctx := context.Background()

	reservation := pendingReservation(uuid.New(), start)
	deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()

	_, err := svc.CheckIn(ctx, reservation.ID.String(), uuid.New().String())

	assert.ErrorIs(t, err, ErrForbidden)
	deps.repo.AssertNotCalled(t, "Transition")
}

func TestService_CheckIn_NotPending(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	svc, deps := newTestService(start)
	ctx := context.Background()

	userID := uuid.New()

	for _, status := range []Status{StatusActive, StatusCancelled, StatusCompleted, StatusViolated, StatusTimeout} {
		reservation := pendingReservation(userID, start)
		reservation.Status = status
		deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()

		_, err := svc.CheckIn(ctx, reservation.ID.String(), userID.String())
		assert.ErrorIs(t, err, ErrInvalidTransition, "status %s", status)
	}

	deps.repo.AssertNotCalled(t, "Transition")
}

// CheckOut

func TestService_CheckOut_Success(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	reservation := pendingReservation(userID, start)
	reservation.Status = StatusActive
	assert.NoError(t, svc.ledger.Reserve(reservation.SeatID, reservation.Window(), reservation.ID))

	deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()
	deps.repo.On("Transition", ctx, reservation.ID, []Status{StatusActive}, StatusCompleted,
		map[string]interface{}{"check_out_time": now}).Return(int64(1), nil).Once()

	result, err := svc.CheckOut(ctx, reservation.ID.String(), userID.String())

	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, result.Status)
	assert.NotNil(t, result.CheckOutTime)
	// Early check-out frees the remaining window
	assert.Equal(t, 0, svc.ledger.LiveCount(reservation.SeatID))
	assert.Equal(t, []notifications.EventType{notifications.EventReservationCheckedOut}, deps.publisher.published())
}

func TestService_CheckOut_NotActive(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	svc, deps := newTestService(start)
	ctx := context.Background()

	userID := uuid.New()
	reservation := pendingReservation(userID, start)

	deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()

	_, err := svc.CheckOut(ctx, reservation.ID.String(), userID.String())

	assert.ErrorIs(t, err, ErrInvalidTransition)
	deps.repo.AssertNotCalled(t, "Transition")
}

// Cancel

func TestService_Cancel_FreesWindowForRebooking(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	now := start.Add(-2 * time.Hour)
	svc, deps := newTestService(now)
	ctx := context.Background()

	userID := uuid.New()
	reservation := pendingReservation(userID, start)
	window := reservation.Window()
	assert.NoError(t, svc.ledger.Reserve(reservation.SeatID, window, reservation.ID))

	deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()
	deps.repo.On("Transition", ctx, reservation.ID, LiveStatuses, StatusCancelled,
		mock.Anything).Return(int64(1), nil).Once()

	err := svc.Cancel(ctx, reservation.ID.String(), userID.String())

	assert.NoError(t, err)
	// Another user can now take the exact same window
	assert.NoError(t, svc.ledger.Reserve(reservation.SeatID, window, uuid.New()))
	assert.Equal(t, []notifications.EventType{notifications.EventReservationCancelled}, deps.publisher.published())
}

func TestService_Cancel_TerminalStatus(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	svc, deps := newTestService(start)
	ctx := context.Background()

	userID := uuid.New()
	reservation := pendingReservation(userID, start)
	reservation.Status = StatusCompleted

	deps.repo.On("GetByID", ctx, reservation.ID).Return(reservation, nil).Once()

	err := svc.Cancel(ctx, reservation.ID.String(), userID.String())

	assert.ErrorIs(t, err, ErrInvalidTransition)
	deps.repo.AssertNotCalled(t, "Transition")
}

// Sweeps

func TestService_SweepTimeouts(t *testing.T) {
	now := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	winner := *pendingReservation(uuid.New(), now.Add(-time.Hour))
	loser := *pendingReservation(uuid.New(), now.Add(-time.Hour))
	assert.NoError(t, svc.ledger.Reserve(winner.SeatID, winner.Window(), winner.ID))

	deadline := now.Add(-testPolicy.CheckInGrace)
	deps.repo.On("ListPendingExpired", ctx, deadline).Return([]Reservation{winner, loser}, nil).Once()
	deps.repo.On("Transition", ctx, winner.ID, []Status{StatusPending}, StatusTimeout,
		mock.Anything).Return(int64(1), nil).Once()
	// The second row was grabbed by a concurrent check-in first
	deps.repo.On("Transition", ctx, loser.ID, []Status{StatusPending}, StatusTimeout,
		mock.Anything).Return(int64(0), nil).Once()
	deps.gate.On("RecordViolation", ctx, winner.UserID).Return(nil).Once()

	swept, err := svc.SweepTimeouts(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.Equal(t, 0, svc.ledger.LiveCount(winner.SeatID))
	assert.Equal(t, []notifications.EventType{notifications.EventReservationTimeout}, deps.publisher.published())
	deps.gate.AssertNumberOfCalls(t, "RecordViolation", 1)
}

func TestService_SweepCompletions(t *testing.T) {
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	ended := *pendingReservation(uuid.New(), now.Add(-3*time.Hour))
	ended.Status = StatusActive
	assert.NoError(t, svc.ledger.Reserve(ended.SeatID, ended.Window(), ended.ID))

	deps.repo.On("ListActiveEnded", ctx, now).Return([]Reservation{ended}, nil).Once()
	deps.repo.On("Transition", ctx, ended.ID, []Status{StatusActive}, StatusCompleted,
		mock.Anything).Return(int64(1), nil).Once()

	swept, err := svc.SweepCompletions(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, swept)
	assert.Equal(t, 0, svc.ledger.LiveCount(ended.SeatID))
	// Completion is the normal outcome; no violation is recorded
	deps.gate.AssertNotCalled(t, "RecordViolation")
	assert.Equal(t, []notifications.EventType{notifications.EventReservationCompleted}, deps.publisher.published())
}

// Ledger rebuild

func TestService_RebuildLedger(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	live := *pendingReservation(uuid.New(), now.Add(time.Hour))
	deps.repo.On("ListLive", ctx).Return([]Reservation{live}, nil).Once()

	assert.NoError(t, svc.RebuildLedger(ctx))

	// The reloaded hold blocks an overlapping reserve
	err := svc.ledger.Reserve(live.SeatID, live.Window(), uuid.New())
	assert.ErrorIs(t, err, ErrConflict)
}

// Seat map projection

func TestService_GetSeatMap(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	classroomID := uuid.New()
	window := mustWindow(t, now.Add(time.Hour), now.Add(3*time.Hour))

	free := catalog.Seat{ID: uuid.New(), ClassroomID: classroomID, SeatNumber: "A01", Row: 1, Column: 1, Status: catalog.SeatAvailable}
	taken := catalog.Seat{ID: uuid.New(), ClassroomID: classroomID, SeatNumber: "A02", Row: 1, Column: 2, Status: catalog.SeatAvailable}
	disabled := catalog.Seat{ID: uuid.New(), ClassroomID: classroomID, SeatNumber: "A03", Row: 1, Column: 3, Status: catalog.SeatDisabled}

	occupying := Reservation{
		ID:          uuid.New(),
		SeatID:      taken.ID,
		ClassroomID: classroomID,
		StartTime:   window.Start,
		EndTime:     window.End,
		Status:      StatusPending,
	}

	deps.seats.On("GetSeatsByClassroom", ctx, classroomID.String()).Return([]catalog.Seat{free, taken, disabled}, nil).Once()
	deps.occupancy.On("IsClassroomBlocked", ctx, classroomID, window.Start, window.End).Return(false, nil).Once()
	deps.repo.On("ListLiveByClassroomAndRange", ctx, classroomID, window.Start, window.End).Return([]Reservation{occupying}, nil).Once()

	seatMap, err := svc.GetSeatMap(ctx, classroomID.String(), window)

	assert.NoError(t, err)
	assert.Len(t, seatMap.Seats, 3)

	byNumber := make(map[string]SeatMapEntry, len(seatMap.Seats))
	for _, entry := range seatMap.Seats {
		byNumber[entry.SeatNumber] = entry
	}
	assert.Equal(t, "AVAILABLE", byNumber["A01"].Status)
	assert.Equal(t, "RESERVED", byNumber["A02"].Status)
	assert.Equal(t, "DISABLED", byNumber["A03"].Status)
}

func TestService_GetSeatMap_ClassroomBlocked(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, deps := newTestService(now)
	ctx := context.Background()

	classroomID := uuid.New()
	window := mustWindow(t, now.Add(time.Hour), now.Add(3*time.Hour))

	free := catalog.Seat{ID: uuid.New(), ClassroomID: classroomID, SeatNumber: "A01", Row: 1, Column: 1, Status: catalog.SeatAvailable}
	disabled := catalog.Seat{ID: uuid.New(), ClassroomID: classroomID, SeatNumber: "A02", Row: 1, Column: 2, Status: catalog.SeatDisabled}

	deps.seats.On("GetSeatsByClassroom", ctx, classroomID.String()).Return([]catalog.Seat{free, disabled}, nil).Once()
	deps.occupancy.On("IsClassroomBlocked", ctx, classroomID, window.Start, window.End).Return(true, nil).Once()
	deps.repo.On("ListLiveByClassroomAndRange", ctx, classroomID, window.Start, window.End).Return([]Reservation{}, nil).Once()

	seatMap, err := svc.GetSeatMap(ctx, classroomID.String(), window)

	assert.NoError(t, err)
	assert.Len(t, seatMap.Seats, 2)

	byNumber := make(map[string]SeatMapEntry, len(seatMap.Seats))
	for _, entry := range seatMap.Seats {
		byNumber[entry.SeatNumber] = entry
	}
	// Every reservable seat reads occupied for a blocked classroom
	assert.Equal(t, "OCCUPIED", byNumber["A01"].Status)
	assert.Equal(t, "DISABLED", byNumber["A02"].Status)
	deps.occupancy.AssertExpectations(t)
}

func TestService_GetSeatMap_InvalidWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(now)

	_, err := svc.GetSeatMap(context.Background(), uuid.New().String(), TimeWindow{Start: now, End: now})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
