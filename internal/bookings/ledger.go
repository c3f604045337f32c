package bookings

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// ledgerEntry is one occupying window on a seat.
type ledgerEntry struct {
	ReservationID uuid.UUID
	Window        TimeWindow
}

// seatState holds the live windows for one seat. Entries stay sorted by
// window start so overlap scans terminate early.
type seatState struct {
	mu      sync.Mutex
	entries []ledgerEntry
}

// SeatLedger is the in-memory index of PENDING/ACTIVE reservation windows,
// keyed by seat. It is derived state: the reservations table is the source
// of truth and the ledger is rebuilt from it at startup. Check-then-insert
// is atomic per seat, which is what prevents double booking under
// concurrent create requests.
type SeatLedger struct {
	mu    sync.RWMutex
	seats map[uuid.UUID]*seatState
}

func NewSeatLedger() *SeatLedger {
	return &SeatLedger{
		seats: make(map[uuid.UUID]*seatState),
	}
}

func (l *SeatLedger) seat(seatID uuid.UUID) *seatState {
	l.mu.RLock()
	s, ok := l.seats[seatID]
	l.mu.RUnlock()
	if ok {
		return s
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok = l.seats[seatID]; ok {
		return s
	}
	s = &seatState{}
	l.seats[seatID] = s
	return s
}

// IsFree reports whether no live window on the seat overlaps w.
func (l *SeatLedger) IsFree(seatID uuid.UUID, w TimeWindow) bool {
	s := l.seat(seatID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isFreeLocked(w)
}

// Reserve atomically checks for overlap and inserts the window, failing
// with ErrConflict if any live window on the seat intersects it.
func (l *SeatLedger) Reserve(seatID uuid.UUID, w TimeWindow, reservationID uuid.UUID) error {
	if !w.Valid() {
		return ErrInvalidWindow
	}

	s := l.seat(seatID)
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isFreeLocked(w) {
		return ErrConflict
	}

	s.entries = append(s.entries, ledgerEntry{ReservationID: reservationID, Window: w})
	sort.Slice(s.entries, func(i, j int) bool {
		return s.entries[i].Window.Start.Before(s.entries[j].Window.Start)
	})
	return nil
}

// Release removes the reservation's window from the seat. Idempotent:
// releasing an absent reservation is a no-op.
func (l *SeatLedger) Release(seatID, reservationID uuid.UUID) {
	s := l.seat(seatID)
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.ReservationID == reservationID {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Rebuild replaces the entire index from persisted live reservations.
// Called once at startup before the server accepts requests.
func (l *SeatLedger) Rebuild(reservations []Reservation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seats = make(map[uuid.UUID]*seatState)
	for _, r := range reservations {
		if !r.Status.IsLive() {
			continue
		}
		s, ok := l.seats[r.SeatID]
		if !ok {
			s = &seatState{}
			l.seats[r.SeatID] = s
		}
		s.entries = append(s.entries, ledgerEntry{ReservationID: r.ID, Window: r.Window()})
	}

	for _, s := range l.seats {
		sort.Slice(s.entries, func(i, j int) bool {
			return s.entries[i].Window.Start.Before(s.entries[j].Window.Start)
		})
	}
}

// LiveCount returns the number of live windows currently held for a seat.
func (l *SeatLedger) LiveCount(seatID uuid.UUID) int {
	s := l.seat(seatID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *seatState) isFreeLocked(w TimeWindow) bool {
	for _, e := range s.entries {
		if !e.Window.Start.Before(w.End) {
			// Entries are sorted by start; nothing later can overlap
			break
		}
		if e.Window.Overlaps(w) {
			return false
		}
	}
	return true
}
