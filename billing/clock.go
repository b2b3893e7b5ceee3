package billing

import "time"

// =============================================================================
// CLOCK - Injectable time source
// =============================================================================

// Clock supplies "now" to every decision point in the billing lifecycle.
// The issuance gate and the overdue monitor must never read the system
// clock directly: tests drive them with fixed instants.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always reports the same instant. For tests and for
// as-of evaluation of past or future dates.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }
