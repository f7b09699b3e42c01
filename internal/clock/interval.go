package clock

import "time"

// UntilNextInterval returns how long to wait from now until the next multiple of interval since the epoch.
func UntilNextInterval(now time.Time, interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	elapsed := time.Duration(now.UnixNano()) % interval
	return interval - elapsed
}
