package streaks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	today := DayKey{Year: 2024, Month: time.May, Day: 10}

	tests := []struct {
		name     string
		records  []Record
		expected Summary
	}{
		{
			name:     "empty collection",
			records:  nil,
			expected: Summary{},
		},
		{
			name: "archived entities are ignored",
			records: []Record{
				{Archived: true, Streak: 50, Days: []DayKey{today}},
			},
			expected: Summary{},
		},
		{
			name: "mixed collection",
			records: []Record{
				{Streak: 3, Days: []DayKey{today.AddDays(-2), today.AddDays(-1), today}},
				{Streak: 12, Days: []DayKey{today.AddDays(-1)}},
				{Streak: 0, Days: nil},
				{Archived: true, Streak: 99, Days: []DayKey{today}},
			},
			expected: Summary{CompletedToday: 1, TotalActive: 3, BestStreak: 12, CompletionRate: 1.0 / 3.0},
		},
		{
			name: "duplicate same-day records count an entity once",
			records: []Record{
				{Streak: 1, Days: []DayKey{today, today}},
			},
			expected: Summary{CompletedToday: 1, TotalActive: 1, BestStreak: 1, CompletionRate: 1},
		},
		{
			name: "nothing completed today keeps the rate at zero",
			records: []Record{
				{Streak: 2, Days: []DayKey{today.AddDays(-1)}},
				{Streak: 0, Days: nil},
			},
			expected: Summary{TotalActive: 2, BestStreak: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Aggregate(tt.records, today))
		})
	}
}
