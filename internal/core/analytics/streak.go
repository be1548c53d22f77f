// Package analytics is the progress & analytics engine: pure functions that
// turn sparse, day-keyed completion and entry maps into streaks, progress
// percentages, rolling-window aggregates, and achievement badges. Nothing in
// this package performs I/O or reads clocks; "today" is always a parameter,
// so every computation is deterministic given the same inputs and safe to
// re-run from any number of goroutines.
package analytics

import (
	"sort"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

// Streaks computes the current and longest streak from one item's completion
// map. The current streak walks backward from today; if today is not yet
// marked, the walk starts from yesterday instead, so a streak survives until
// the user has had a chance to log today but never counts today before it is
// actually marked. Days marked false behave exactly like missing days.
func Streaks(completions domain.CompletionMap, today domain.DayKey) domain.StreakResult {
	done := make(map[domain.DayKey]bool, len(completions))
	days := make([]domain.DayKey, 0, len(completions))
	for d, ok := range completions {
		if ok {
			done[d] = true
			days = append(days, d)
		}
	}

	if len(days) == 0 {
		return domain.StreakResult{}
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	current := 0
	cursor := today
	if !done[cursor] {
		// One day of grace.
		cursor = cursor.AddDays(-1)
	}
	for done[cursor] {
		current++
		cursor = cursor.AddDays(-1)
	}

	longest := 0
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i].Diff(days[i-1]) == 1 {
			run++
		} else {
			if run > longest {
				longest = run
			}
			run = 1
		}
	}
	if run > longest {
		longest = run
	}

	// A still-running streak is itself a candidate for longest.
	if current > longest {
		longest = current
	}

	return domain.StreakResult{Current: current, Longest: longest}
}
