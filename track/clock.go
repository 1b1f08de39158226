package track

import "time"

// monotonicClock reports milliseconds elapsed since its origin, using the
// runtime's monotonic reading so wall-clock adjustments never move it.
type monotonicClock struct {
	origin time.Time
}

func newMonotonicClock() *monotonicClock {
	return &monotonicClock{origin: time.Now()}
}

func (c *monotonicClock) Millis() uint32 {
	return uint32(time.Since(c.origin).Milliseconds())
}
