package helpers

import (
	"time"

	"github.com/rs/zerolog/log"
)

// TurkeyTZ is the fixed UTC+3 offset every timestamp in the system is expressed in.
// Turkey does not observe DST, so a fixed offset is sufficient.
var TurkeyTZ = time.FixedZone("UTC+3", 3*60*60)

// TurkeyNow returns the current time in the fixed UTC+3 offset.
func TurkeyNow() time.Time {
	return time.Now().In(TurkeyTZ)
}

// DayStart returns midnight of the given time's calendar day in UTC+3.
func DayStart(t time.Time) time.Time {
	t = t.In(TurkeyTZ)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, TurkeyTZ)
}

// DayEnd returns the last representable instant of the given time's calendar day in UTC+3.
func DayEnd(t time.Time) time.Time {
	t = t.In(TurkeyTZ)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), TurkeyTZ)
}

// ParseDate parses a calendar date in either 2006-01-02 or 02.01.2006 form,
// interpreted in UTC+3.
func ParseDate(value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", value, TurkeyTZ); err == nil {
		return t, nil
	}
	return time.ParseInLocation("02.01.2006", value, TurkeyTZ)
}

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}
