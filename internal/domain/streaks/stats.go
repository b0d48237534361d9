package streaks

// Record is the per-entity view the aggregator needs: whether the entity
// is still active, its cached streak counter and its completion days.
type Record struct {
	Archived bool
	Streak   int
	Days     []DayKey
}

// Summary is the dashboard roll-up across a user's trackable entities.
// CompletionRate is CompletedToday over TotalActive, zero when there is
// nothing active.
type Summary struct {
	CompletedToday int     `json:"completed_today"`
	TotalActive    int     `json:"total_active"`
	BestStreak     int     `json:"best_streak"`
	CompletionRate float64 `json:"completion_rate"`
}

// Aggregate folds a collection of records into dashboard counters as of
// the given day. Archived entities are excluded. An empty collection
// yields an all-zero summary.
func Aggregate(records []Record, asOf DayKey) Summary {
	var s Summary
	for _, r := range records {
		if r.Archived {
			continue
		}
		s.TotalActive++
		if r.Streak > s.BestStreak {
			s.BestStreak = r.Streak
		}
		for _, d := range r.Days {
			if d == asOf {
				s.CompletedToday++
				break
			}
		}
	}
	if s.TotalActive > 0 {
		s.CompletionRate = float64(s.CompletedToday) / float64(s.TotalActive)
	}
	return s
}
