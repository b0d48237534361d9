package streaks

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		streak   int
		expected Milestone
	}{
		{0, MilestoneNone},
		{1, MilestoneFirstDay},
		{2, MilestoneNone},
		{3, MilestoneMomentum},
		{7, MilestoneWeek},
		{14, MilestoneFortnight},
		{20, MilestoneTenMultiple},
		{30, MilestoneMonth},
		{40, MilestoneTenMultiple},
		{42, MilestoneNone},
		{100, MilestoneCentury},
		{110, MilestoneTenMultiple},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.streak), "streak %d", tt.streak)
	}
}

func TestMilestoneMessages(t *testing.T) {
	assert.Empty(t, MilestoneNone.Message())
	assert.False(t, MilestoneNone.Celebrated())

	for _, m := range []Milestone{
		MilestoneFirstDay, MilestoneMomentum, MilestoneWeek, MilestoneFortnight,
		MilestoneMonth, MilestoneCentury, MilestoneTenMultiple,
	} {
		assert.NotEmpty(t, m.Message(), "tier %s", m)
		assert.True(t, m.Celebrated(), "tier %s", m)
	}
}
