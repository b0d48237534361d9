package streaks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) DayKey {
	return DayKey{Year: y, Month: m, Day: d}
}

func TestNewDayKey(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	tests := []struct {
		name     string
		ts       time.Time
		loc      *time.Location
		expected DayKey
	}{
		{
			name:     "UTC midday",
			ts:       time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
			loc:      time.UTC,
			expected: day(2024, 3, 10),
		},
		{
			name:     "late UTC evening is already tomorrow in UTC+ zones",
			ts:       time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC),
			loc:      ny,
			expected: day(2024, 3, 9),
		},
		{
			name:     "two timestamps same local day normalize equal",
			ts:       time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC),
			loc:      time.UTC,
			expected: day(2024, 3, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewDayKey(tt.ts, tt.loc))
		})
	}
}

func TestDayKeyAddDays(t *testing.T) {
	assert.Equal(t, day(2024, 3, 1), day(2024, 2, 29).AddDays(1), "leap day rollover")
	assert.Equal(t, day(2023, 12, 31), day(2024, 1, 1).AddDays(-1), "year boundary")
	assert.Equal(t, day(2024, 5, 10), day(2024, 5, 3).AddDays(7))
}

func TestCurrentStreak(t *testing.T) {
	today := day(2024, 5, 10)

	tests := []struct {
		name     string
		days     []DayKey
		expected int
	}{
		{
			name:     "empty history",
			days:     nil,
			expected: 0,
		},
		{
			name:     "single completion today",
			days:     []DayKey{today},
			expected: 1,
		},
		{
			name:     "single completion yesterday still counts",
			days:     []DayKey{today.AddDays(-1)},
			expected: 1,
		},
		{
			name:     "single completion two days ago is broken",
			days:     []DayKey{today.AddDays(-2)},
			expected: 0,
		},
		{
			name:     "three consecutive days ending today",
			days:     []DayKey{today.AddDays(-2), today.AddDays(-1), today},
			expected: 3,
		},
		{
			name:     "gap before today restarts the run",
			days:     []DayKey{today.AddDays(-5), today.AddDays(-4), today},
			expected: 1,
		},
		{
			name:     "long run ended last week",
			days:     []DayKey{today.AddDays(-9), today.AddDays(-8), today.AddDays(-7)},
			expected: 0,
		},
		{
			name:     "duplicate days count once",
			days:     []DayKey{today, today, today.AddDays(-1)},
			expected: 2,
		},
		{
			name:     "unsorted input",
			days:     []DayKey{today, today.AddDays(-2), today.AddDays(-1)},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Current(tt.days, today))
		})
	}
}

func TestLongestStreak(t *testing.T) {
	today := day(2024, 5, 10)

	tests := []struct {
		name     string
		days     []DayKey
		expected int
	}{
		{
			name:     "empty history",
			days:     nil,
			expected: 0,
		},
		{
			name:     "single completion",
			days:     []DayKey{today.AddDays(-30)},
			expected: 1,
		},
		{
			name:     "gap of three days keeps earlier pair as longest",
			days:     []DayKey{today.AddDays(-5), today.AddDays(-4), today},
			expected: 2,
		},
		{
			name:     "old run longer than current",
			days:     []DayKey{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3), day(2024, 1, 4), today.AddDays(-1), today},
			expected: 4,
		},
		{
			name:     "run across month boundary",
			days:     []DayKey{day(2024, 2, 28), day(2024, 2, 29), day(2024, 3, 1)},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Longest(tt.days))
		})
	}
}

func TestLongestNeverBelowCurrent(t *testing.T) {
	today := day(2024, 5, 10)

	histories := [][]DayKey{
		nil,
		{today},
		{today.AddDays(-1), today},
		{today.AddDays(-5), today.AddDays(-4), today},
		{today.AddDays(-9), today.AddDays(-8), today.AddDays(-7)},
		{day(2024, 1, 1), day(2024, 1, 2), today.AddDays(-2), today.AddDays(-1), today},
	}

	for _, h := range histories {
		assert.GreaterOrEqual(t, Longest(h), Current(h, today))
	}
}
