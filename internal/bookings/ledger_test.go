package bookings

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSeatLedger_ReserveAndConflict(t *testing.T) {
	ledger := NewSeatLedger()
	seatID := uuid.New()
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	first := uuid.New()
	err := ledger.Reserve(seatID, mustWindow(t, base, base.Add(2*time.Hour)), first)
	assert.NoError(t, err)
	assert.Equal(t, 1, ledger.LiveCount(seatID))

	// Overlapping window on same seat is rejected
	err = ledger.Reserve(seatID, mustWindow(t, base.Add(time.Hour), base.Add(3*time.Hour)), uuid.New())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 1, ledger.LiveCount(seatID))

	// Back-to-back window is accepted: [16:00, 17:00) after [14:00, 16:00)
	err = ledger.Reserve(seatID, mustWindow(t, base.Add(2*time.Hour), base.Add(3*time.Hour)), uuid.New())
	assert.NoError(t, err)
	assert.Equal(t, 2, ledger.LiveCount(seatID))

	// Same window on a different seat is fine
	err = ledger.Reserve(uuid.New(), mustWindow(t, base, base.Add(2*time.Hour)), uuid.New())
	assert.NoError(t, err)
}

func TestSeatLedger_ReserveInvalidWindow(t *testing.T) {
	ledger := NewSeatLedger()
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	err := ledger.Reserve(uuid.New(), TimeWindow{Start: base, End: base}, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestSeatLedger_ReleaseIsIdempotent(t *testing.T) {
	ledger := NewSeatLedger()
	seatID := uuid.New()
	reservationID := uuid.New()
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	window := mustWindow(t, base, base.Add(time.Hour))

	assert.NoError(t, ledger.Reserve(seatID, window, reservationID))
	assert.False(t, ledger.IsFree(seatID, window))

	ledger.Release(seatID, reservationID)
	assert.True(t, ledger.IsFree(seatID, window))
	assert.Equal(t, 0, ledger.LiveCount(seatID))

	// Releasing again, or releasing an unknown reservation, is a no-op
	ledger.Release(seatID, reservationID)
	ledger.Release(seatID, uuid.New())
	assert.Equal(t, 0, ledger.LiveCount(seatID))

	// The window is reusable after release
	assert.NoError(t, ledger.Reserve(seatID, window, uuid.New()))
}

func TestSeatLedger_Rebuild(t *testing.T) {
	ledger := NewSeatLedger()
	seatA := uuid.New()
	seatB := uuid.New()
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	// Pre-existing entry must be discarded by the rebuild
	assert.NoError(t, ledger.Reserve(uuid.New(), mustWindow(t, base, base.Add(time.Hour)), uuid.New()))

	reservations := []Reservation{
		{ID: uuid.New(), SeatID: seatA, StartTime: base, EndTime: base.Add(time.Hour), Status: StatusPending},
		{ID: uuid.New(), SeatID: seatA, StartTime: base.Add(2 * time.Hour), EndTime: base.Add(3 * time.Hour), Status: StatusActive},
		{ID: uuid.New(), SeatID: seatB, StartTime: base, EndTime: base.Add(time.Hour), Status: StatusActive},
		// Terminal reservations no longer occupy their windows
		{ID: uuid.New(), SeatID: seatB, StartTime: base.Add(2 * time.Hour), EndTime: base.Add(3 * time.Hour), Status: StatusCancelled},
		{ID: uuid.New(), SeatID: seatB, StartTime: base.Add(4 * time.Hour), EndTime: base.Add(5 * time.Hour), Status: StatusTimeout},
	}

	ledger.Rebuild(reservations)

	assert.Equal(t, 2, ledger.LiveCount(seatA))
	assert.Equal(t, 1, ledger.LiveCount(seatB))

	assert.False(t, ledger.IsFree(seatA, mustWindow(t, base, base.Add(time.Hour))))
	assert.True(t, ledger.IsFree(seatB, mustWindow(t, base.Add(2*time.Hour), base.Add(3*time.Hour))))
}

func TestSeatLedger_ConcurrentReserveSingleWinner(t *testing.T) {
	ledger := NewSeatLedger()
	seatID := uuid.New()
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	window := mustWindow(t, base, base.Add(2*time.Hour))

	const attempts = 50
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ledger.Reserve(seatID, window, uuid.New())
		}()
	}
	wg.Wait()
	close(results)

	won, lost := 0, 0
	for err := range results {
		if err == nil {
			won++
		} else {
			assert.ErrorIs(t, err, ErrConflict)
			lost++
		}
	}

	assert.Equal(t, 1, won, "exactly one concurrent reserve must win")
	assert.Equal(t, attempts-1, lost)
	assert.Equal(t, 1, ledger.LiveCount(seatID))
}

func TestSeatLedger_ConcurrentDisjointWindows(t *testing.T) {
	ledger := NewSeatLedger()
	seatID := uuid.New()
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

	// Disjoint hourly slots must all succeed under concurrency
	const slots = 10
	var wg sync.WaitGroup
	errs := make([]error, slots)

	for i := 0; i < slots; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			start := base.Add(time.Duration(i) * time.Hour)
			errs[i] = ledger.Reserve(seatID, mustWindow(t, start, start.Add(time.Hour)), uuid.New())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "slot %d", i)
	}
	assert.Equal(t, slots, ledger.LiveCount(seatID))
}
