package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// Monotonic keeps the monotonic reading of time.Now, so comparisons between
// two values are immune to wall-clock jumps.
type Monotonic struct{}

func (Monotonic) Now() time.Time {
	return time.Now()
}
