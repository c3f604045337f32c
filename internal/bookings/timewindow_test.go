package bookings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustWindow(t *testing.T, start, end time.Time) TimeWindow {
	t.Helper()
	w, err := NewTimeWindow(start, end)
	assert.NoError(t, err)
	return w
}

func TestNewTimeWindow_Validation(t *testing.T) {
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

	_, err := NewTimeWindow(base, base.Add(2*time.Hour))
	assert.NoError(t, err)

	// Zero-length window is invalid
	_, err = NewTimeWindow(base, base)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	// Inverted window is invalid
	_, err = NewTimeWindow(base.Add(time.Hour), base)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestTimeWindow_Overlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	w := mustWindow(t, base, base.Add(2*time.Hour)) // [14:00, 16:00)

	testCases := []struct {
		name     string
		other    TimeWindow
		overlaps bool
	}{
		{
			name:     "identical window",
			other:    mustWindow(t, base, base.Add(2*time.Hour)),
			overlaps: true,
		},
		{
			name:     "fully inside",
			other:    mustWindow(t, base.Add(30*time.Minute), base.Add(time.Hour)),
			overlaps: true,
		},
		{
			name:     "partial overlap at the end",
			other:    mustWindow(t, base.Add(90*time.Minute), base.Add(3*time.Hour)),
			overlaps: true,
		},
		{
			name:     "partial overlap at the start",
			other:    mustWindow(t, base.Add(-time.Hour), base.Add(time.Minute)),
			overlaps: true,
		},
		{
			name:     "containing window",
			other:    mustWindow(t, base.Add(-time.Hour), base.Add(3*time.Hour)),
			overlaps: true,
		},
		{
			name: "back-to-back after: start touches end",
			// [16:00, 17:00) does not overlap [14:00, 16:00)
			other:    mustWindow(t, base.Add(2*time.Hour), base.Add(3*time.Hour)),
			overlaps: false,
		},
		{
			name:     "back-to-back before: end touches start",
			other:    mustWindow(t, base.Add(-time.Hour), base),
			overlaps: false,
		},
		{
			name:     "disjoint after",
			other:    mustWindow(t, base.Add(3*time.Hour), base.Add(4*time.Hour)),
			overlaps: false,
		},
		{
			name:     "disjoint before",
			other:    mustWindow(t, base.Add(-2*time.Hour), base.Add(-time.Hour)),
			overlaps: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlaps, w.Overlaps(tc.other))
			// Overlap is symmetric
			assert.Equal(t, tc.overlaps, tc.other.Overlaps(w))
		})
	}
}

func TestTimeWindow_Contains(t *testing.T) {
	base := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	w := mustWindow(t, base, base.Add(time.Hour))

	assert.True(t, w.Contains(base), "start boundary is inside")
	assert.True(t, w.Contains(base.Add(30*time.Minute)))
	assert.False(t, w.Contains(base.Add(time.Hour)), "end boundary is outside")
	assert.False(t, w.Contains(base.Add(-time.Second)))
}

func TestTimeWindow_CheckInWindowBounds(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	w := mustWindow(t, start, start.Add(2*time.Hour))

	lead := 30 * time.Minute
	grace := 15 * time.Minute

	assert.Equal(t, start.Add(-30*time.Minute), w.CheckInOpensAt(lead))
	assert.Equal(t, start.Add(15*time.Minute), w.CheckInDeadline(grace))

	// Both bounds are inclusive
	assert.True(t, w.InCheckInWindow(start.Add(-30*time.Minute), lead, grace))
	assert.True(t, w.InCheckInWindow(start.Add(15*time.Minute), lead, grace))
	assert.True(t, w.InCheckInWindow(start, lead, grace))

	// One second outside either bound is rejected
	assert.False(t, w.InCheckInWindow(start.Add(-30*time.Minute-time.Second), lead, grace))
	assert.False(t, w.InCheckInWindow(start.Add(15*time.Minute+time.Second), lead, grace))
}

func TestStatus_Classification(t *testing.T) {
	assert.True(t, StatusPending.IsLive())
	assert.True(t, StatusActive.IsLive())
	assert.False(t, StatusCancelled.IsLive())
	assert.False(t, StatusCompleted.IsLive())
	assert.False(t, StatusViolated.IsLive())
	assert.False(t, StatusTimeout.IsLive())

	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusViolated.IsTerminal())
	assert.True(t, StatusTimeout.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())

	assert.True(t, StatusViolated.CountsAsViolation())
	assert.True(t, StatusTimeout.CountsAsViolation())
	assert.False(t, StatusCancelled.CountsAsViolation())
	assert.False(t, StatusCompleted.CountsAsViolation())
}
