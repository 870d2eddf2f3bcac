package util

import "time"

// Clock returns the current time. Swap it in tests to control expiry.
type Clock func() time.Time

// NowUTC is the default Clock.
func NowUTC() time.Time {
	return time.Now().UTC()
}
