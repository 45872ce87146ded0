package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayStartAndEnd(t *testing.T) {
	utc := time.Date(2026, 4, 11, 22, 30, 0, 0, time.UTC)

	start := DayStart(utc)
	end := DayEnd(utc)

	// 22:30 UTC is 01:30 the next day in UTC+3
	assert.Equal(t, time.Date(2026, 4, 12, 0, 0, 0, 0, TurkeyTZ), start)
	assert.Equal(t, 12, end.Day())
	assert.Equal(t, 23, end.Hour())
	assert.True(t, end.After(start))
}

func TestParseDateBothFormats(t *testing.T) {
	iso, err := ParseDate("2026-04-11")
	require.NoError(t, err)

	dotted, err := ParseDate("11.04.2026")
	require.NoError(t, err)

	assert.True(t, iso.Equal(dotted))
	assert.Equal(t, TurkeyTZ, iso.Location())
}

func TestParseDateRejectsGarbage(t *testing.T) {
	_, err := ParseDate("not-a-date")
	assert.Error(t, err)
}

func TestParseDurationFallsBackToDefault(t *testing.T) {
	assert.Equal(t, 5*time.Minute, ParseDuration("banana", 5*time.Minute))
	assert.Equal(t, 90*time.Second, ParseDuration("90s", 5*time.Minute))
}
