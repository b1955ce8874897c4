package usecase

import (
	"time"

	"zenmindful/internal/domain"
)

// streaks derives the current and longest runs of consecutive days from
// distinct dates sorted ascending. A run is current while its last day is
// today or yesterday. A last day up to maxDaysAhead after today still counts,
// since callers stamp days in their own calendar; anything later does not.
func streaks(dates []string, today time.Time) (current, longest int) {
	var (
		prev time.Time
		run  int
	)
	for _, d := range dates {
		t, err := time.Parse(domain.DateLayout, d)
		if err != nil {
			continue
		}
		if run > 0 && daysBetween(prev, t) == 1 {
			run++
		} else if run == 0 || daysBetween(prev, t) != 0 {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = t
	}

	if run == 0 {
		return 0, longest
	}
	day, _ := time.Parse(domain.DateLayout, today.Format(domain.DateLayout))
	if diff := daysBetween(prev, day); diff >= -maxDaysAhead && diff <= 1 {
		current = run
	}
	return current, longest
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
