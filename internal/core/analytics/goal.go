package analytics

import (
	"math"
	"strings"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

// GoalProgress sums every entry value and expresses the total as a clamped
// percentage of the target. A non-positive target yields 0% rather than a
// division fault or a spuriously complete goal; a non-finite target is the
// one malformed input rejected outright, so a corrupt goal cannot poison
// the aggregate.
func GoalProgress(entries domain.EntryMap, target float64) (domain.GoalProgress, error) {
	if math.IsNaN(target) || math.IsInf(target, 0) {
		return domain.GoalProgress{}, domain.ErrTargetNotFinite
	}

	var total float64
	for _, e := range entries {
		total += e.Value
	}

	progress := domain.GoalProgress{Total: total}
	if target > 0 {
		pct := int(math.Round(total / target * 100))
		if pct > 100 {
			pct = 100
		}
		if pct < 0 {
			pct = 0
		}
		progress.Percentage = pct
	}

	return progress, nil
}

// Logged reports whether an entry counts as user activity. Corrections (a
// non-positive value with no notes) still contribute to the total but are
// invisible to "did the user log that day" checks.
func Logged(e domain.Entry) bool {
	return e.Value > 0 || strings.TrimSpace(e.Notes) != ""
}

// LoggedDays derives the activity map a goal contributes to streak-style
// views, using the Logged predicate per day.
func LoggedDays(entries domain.EntryMap) domain.CompletionMap {
	m := make(domain.CompletionMap, len(entries))
	for day, e := range entries {
		m[day] = Logged(e)
	}
	return m
}
