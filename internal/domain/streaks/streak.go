package streaks

import "sort"

// dedupeSorted returns the distinct day keys in ascending order without
// mutating the input.
func dedupeSorted(days []DayKey) []DayKey {
	if len(days) == 0 {
		return nil
	}
	sorted := make([]DayKey, len(days))
	copy(sorted, days)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	out := sorted[:1]
	for _, d := range sorted[1:] {
		if d != out[len(out)-1] {
			out = append(out, d)
		}
	}
	return out
}

// Current derives the current streak from a completion history. The walk
// starts at the most recent completion and counts backward while each day
// is exactly one calendar day before the previous one. A most recent
// completion older than yesterday means the run is broken and the streak
// is 0; completing today is not required to keep yesterday's run alive.
func Current(days []DayKey, today DayKey) int {
	distinct := dedupeSorted(days)
	if len(distinct) == 0 {
		return 0
	}

	latest := distinct[len(distinct)-1]
	if latest != today && latest != today.AddDays(-1) {
		return 0
	}

	streak := 1
	for i := len(distinct) - 1; i > 0; i-- {
		if distinct[i-1] != distinct[i].AddDays(-1) {
			break
		}
		streak++
	}
	return streak
}

// Longest scans the full history and returns the longest run of
// consecutive calendar days ever achieved. It is recomputed on read
// rather than persisted, so it can never drift from the history.
func Longest(days []DayKey) int {
	distinct := dedupeSorted(days)
	if len(distinct) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(distinct); i++ {
		if distinct[i] == distinct[i-1].AddDays(1) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
