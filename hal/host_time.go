package hal

import "time"

type hostTime struct {
	now func() time.Time

	last    time.Time
	elapsed time.Duration
}

func newHostTime() *hostTime {
	return newHostTimeWithClock(time.Now)
}

func newHostTimeWithClock(now func() time.Time) *hostTime {
	return &hostTime{now: now}
}

func (t *hostTime) Elapsed() time.Duration { return t.elapsed }

// step advances by wall-clock time since the previous step. The first step
// only starts the clock.
func (t *hostTime) step() {
	now := t.now()
	if t.last.IsZero() {
		t.last = now
		return
	}
	t.elapsed += now.Sub(t.last)
	t.last = now
}

// advance adds a fixed duration (one headless tick).
func (t *hostTime) advance(d time.Duration) {
	t.elapsed += d
}
