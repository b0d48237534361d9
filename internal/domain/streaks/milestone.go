package streaks

// Milestone is the celebratory tier a streak value belongs to.
type Milestone string

const (
	MilestoneNone        Milestone = "none"
	MilestoneFirstDay    Milestone = "first_day"
	MilestoneMomentum    Milestone = "momentum"
	MilestoneWeek        Milestone = "week"
	MilestoneFortnight   Milestone = "fortnight"
	MilestoneMonth       Milestone = "month"
	MilestoneCentury     Milestone = "century"
	MilestoneTenMultiple Milestone = "ten_multiple"
)

// Classify maps a streak value to its tier. Named tiers win over the
// generic multiple-of-ten bucket, so 100 is a century and 30 a month.
// Every non-negative value maps to exactly one tier.
func Classify(streak int) Milestone {
	switch streak {
	case 1:
		return MilestoneFirstDay
	case 3:
		return MilestoneMomentum
	case 7:
		return MilestoneWeek
	case 14:
		return MilestoneFortnight
	case 30:
		return MilestoneMonth
	case 100:
		return MilestoneCentury
	}
	if streak > 0 && streak%10 == 0 {
		return MilestoneTenMultiple
	}
	return MilestoneNone
}

// Message returns the celebration copy shown to the user, empty for the
// default tier.
func (m Milestone) Message() string {
	switch m {
	case MilestoneFirstDay:
		return "Great start! Day one of your new streak."
	case MilestoneMomentum:
		return "3 days in a row. You're building momentum!"
	case MilestoneWeek:
		return "A full week! Keep it going."
	case MilestoneFortnight:
		return "Two weeks strong!"
	case MilestoneMonth:
		return "A whole month. Incredible consistency!"
	case MilestoneCentury:
		return "100 days! Welcome to the century club."
	case MilestoneTenMultiple:
		return "Another milestone reached. Keep the fire going!"
	}
	return ""
}

// Celebrated reports whether the tier should trigger a notification.
func (m Milestone) Celebrated() bool {
	return m != MilestoneNone && m != ""
}
