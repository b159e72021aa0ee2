package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Date
	}{
		{"date only", "2025-06-06", "2025-06-06"},
		{"timestamp", "2025-12-30T18:00:00.000Z", "2025-12-30"},
		{"padded", "  2025-06-06  ", "2025-06-06"},
		{"empty", "", ""},
		{"too short", "2025-6-6", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeDate(tt.input))
		})
	}
}

func TestDate_AddDays(t *testing.T) {
	assert.Equal(t, Date("2025-01-22"), Date("2025-01-01").AddDays(21))
	assert.Equal(t, Date("2025-03-01"), Date("2025-02-22").AddDays(7))
	assert.Equal(t, Date("2024-12-25"), Date("2025-01-01").AddDays(-7))
	assert.Equal(t, Date(""), Date("").AddDays(7))
	assert.Equal(t, Date(""), Date("not-a-date").AddDays(7))
}

func TestMaxDate(t *testing.T) {
	assert.Equal(t, Date("2025-03-01"), MaxDate("2025-01-01", "2025-03-01", "2025-02-01"))
	assert.Equal(t, Date("2025-01-01"), MaxDate("", "2025-01-01", ""))
	assert.Equal(t, Date(""), MaxDate("", ""))
	assert.Equal(t, Date(""), MaxDate())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-06-06")
	require.NoError(t, err)
	assert.Equal(t, Date("2025-06-06"), d)

	_, err = ParseDate("06/06/2025")
	assert.Error(t, err)
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("CDT", -5*60*60)

	// 02:00 UTC on Saturday is still Friday evening in Chicago
	instant := time.Date(2025, 6, 7, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, Date("2025-06-07"), DateOf(instant))
	assert.Equal(t, Date("2025-06-06"), DateOf(instant.In(loc)))
}
