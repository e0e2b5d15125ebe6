package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("3d")
	require.NoError(t, err)
	assert.Equal(t, 72*time.Hour, d)

	d, err = ParseDuration("90s")
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	_, err = ParseDuration("xd")
	assert.Error(t, err)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2026-03-01 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("01/03/2026")
	assert.Error(t, err)
}

func TestFormatHoursMinutes(t *testing.T) {
	assert.Equal(t, "1h 30m", FormatHoursMinutes(90*time.Minute))
	assert.Equal(t, "0h 0m", FormatHoursMinutes(59*time.Second))
	assert.Equal(t, "26h 5m", FormatHoursMinutes(26*time.Hour+5*time.Minute+30*time.Second))
	assert.Equal(t, "0h 0m", FormatHoursMinutes(-time.Minute))
}
