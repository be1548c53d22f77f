package analytics

import (
	"github.com/zron-max/momentum-gird/internal/core/domain"
)

// Resolve reduces a day's completed sub-item count against the item's defined
// total into one status plus a fractional score. A zero-subtask item resolves
// incomplete rather than faulting on the division.
func Resolve(completed, total int) domain.DayCompletion {
	if total <= 0 || completed <= 0 {
		return domain.DayCompletion{Status: domain.StatusIncomplete}
	}
	if completed > total {
		completed = total
	}

	fraction := float64(completed) / float64(total)
	status := domain.StatusPartial
	if completed == total {
		status = domain.StatusComplete
	}

	return domain.DayCompletion{Status: status, Fraction: fraction}
}

// ResolveParts counts only identifiers belonging to the defined set, so stale
// part IDs left behind by a later edit of the item cannot inflate the score.
func ResolveParts(completed map[string]bool, defined []string) domain.DayCompletion {
	count := 0
	for _, id := range defined {
		if completed[id] {
			count++
		}
	}
	return Resolve(count, len(defined))
}

// CompletionMapFor reduces one tracker's records to the boolean day map its
// kind streaks over. Habits are already boolean; routines require every
// subtask, meal days every required slot; learning goals count any day with
// real activity. Projects are milestone-based, not streak-bearing, and
// return nil.
func CompletionMapFor(tracker *domain.Tracker, records []*domain.TrackerRecord) domain.CompletionMap {
	switch tracker.Kind {
	case domain.KindHabit:
		return domain.BuildCompletionMap(records)
	case domain.KindRoutine:
		return ReduceToCompletion(domain.BuildPartsMap(records), tracker.SubtaskIDs())
	case domain.KindMeal:
		return ReduceToCompletion(domain.BuildPartsMap(records), domain.RequiredMealSlots())
	case domain.KindLearning:
		return LoggedDays(domain.BuildEntryMap(records))
	}
	return nil
}

// ReduceToCompletion collapses a composite item's per-day part sets into the
// boolean map the streak calculator consumes: a day is true iff it resolves
// fully complete. Routines and meal days get their streaks through this
// reduction rather than through kind-specific streak code.
func ReduceToCompletion(parts domain.PartsMap, defined []string) domain.CompletionMap {
	m := make(domain.CompletionMap, len(parts))
	for day, completed := range parts {
		m[day] = ResolveParts(completed, defined).Status == domain.StatusComplete
	}
	return m
}
