package analytics

import (
	"math"
	"sort"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

const DefaultWindowDays = 7

// NoDataCategory is the neutral placeholder tally emitted when no meal slot
// in the window carries a category.
const NoDataCategory = "No data"

// Snapshot is the fully-fetched input for one analytics pass. The caller
// assembles it after every required map has been retrieved; the engine never
// fetches anything itself and must not be fed partial snapshots, because
// streak and window math needs the complete set of relevant day keys.
type Snapshot struct {
	Habits   []HabitItem
	Routines []RoutineItem
	Goals    []GoalItem
	Projects []ProjectItem
	Meals    []MealItem
}

type HabitItem struct {
	ID          string
	Completions domain.CompletionMap
}

type RoutineItem struct {
	ID         string
	SubtaskIDs []string
	Parts      domain.PartsMap
}

type GoalItem struct {
	ID      string
	Target  float64
	Entries domain.EntryMap
}

type ProjectItem struct {
	ID         string
	Milestones []domain.Milestone
}

type MealItem struct {
	ID   string
	Logs domain.MealLogMap
}

// Report computes one completion percentage per category over the trailing
// window of `window` calendar days ending at today, plus the meal-category
// tally for breakdown display. Categories appear in fixed order: habits,
// learning, projects, routines, meals. Empty input for any category yields 0,
// never NaN or a panic.
func Report(snap Snapshot, today domain.DayKey, window int) ([]domain.CategoryAggregate, []domain.CategoryTally) {
	if window <= 0 {
		window = DefaultWindowDays
	}

	aggregates := []domain.CategoryAggregate{
		{CategoryID: domain.CategoryHabits, CompletionPercentage: habitsRate(snap.Habits, today, window), SampleSize: len(snap.Habits)},
		{CategoryID: domain.CategoryLearning, CompletionPercentage: learningRate(snap.Goals), SampleSize: len(snap.Goals)},
		{CategoryID: domain.CategoryProjects, CompletionPercentage: projectsRate(snap.Projects), SampleSize: len(snap.Projects)},
		{CategoryID: domain.CategoryRoutines, CompletionPercentage: routinesRate(snap.Routines, today, window), SampleSize: len(snap.Routines)},
		{CategoryID: domain.CategoryMeals, CompletionPercentage: mealsRate(snap.Meals, today, window), SampleSize: len(snap.Meals)},
	}

	return aggregates, mealTally(snap.Meals, today, window)
}

// windowDays enumerates [today-window+1, today] ascending.
func windowDays(today domain.DayKey, window int) []domain.DayKey {
	days := make([]domain.DayKey, 0, window)
	for i := window - 1; i >= 0; i-- {
		days = append(days, today.AddDays(-i))
	}
	return days
}

func roundPct(v float64) int {
	pct := int(math.Round(v))
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return pct
}

// habitsRate: completed indicators across all habits and all window days over
// the full item x day grid.
func habitsRate(habits []HabitItem, today domain.DayKey, window int) int {
	possible := len(habits) * window
	if possible == 0 {
		return 0
	}

	completed := 0
	for _, day := range windowDays(today, window) {
		for _, h := range habits {
			if h.Completions[day] {
				completed++
			}
		}
	}

	return roundPct(float64(completed) / float64(possible) * 100)
}

// learningRate: mean of per-goal percentages, each goal weighted equally
// regardless of target size. Goals with corrupt targets contribute 0.
func learningRate(goals []GoalItem) int {
	if len(goals) == 0 {
		return 0
	}

	sum := 0
	for _, g := range goals {
		progress, err := GoalProgress(g.Entries, g.Target)
		if err != nil {
			continue
		}
		sum += progress.Percentage
	}

	return roundPct(float64(sum) / float64(len(goals)))
}

// projectsRate: mean, across projects, of each project's fraction of
// completed milestones. Projects are milestone-based, not day-based, so no
// window applies.
func projectsRate(projects []ProjectItem) int {
	if len(projects) == 0 {
		return 0
	}

	var sum float64
	for _, p := range projects {
		if len(p.Milestones) == 0 {
			continue
		}
		completed := 0
		for _, m := range p.Milestones {
			if m.Status == domain.MilestoneCompleted {
				completed++
			}
		}
		sum += float64(completed) / float64(len(p.Milestones)) * 100
	}

	return roundPct(sum / float64(len(projects)))
}

// routinesRate: per window day, the share of routines whose day resolves
// fully complete; the category value is the mean of the per-day shares.
func routinesRate(routines []RoutineItem, today domain.DayKey, window int) int {
	if len(routines) == 0 {
		return 0
	}

	var daySum float64
	for _, day := range windowDays(today, window) {
		completed := 0
		for _, r := range routines {
			if ResolveParts(r.Parts[day], r.SubtaskIDs).Status == domain.StatusComplete {
				completed++
			}
		}
		daySum += float64(completed) / float64(len(routines)) * 100
	}

	return roundPct(daySum / float64(window))
}

// mealsRate: a recorded day counts as complete iff every required slot is
// logged (snack excluded); the rate is complete days over days with any
// record in the window, so unrecorded days do not drag the average down.
func mealsRate(meals []MealItem, today domain.DayKey, window int) int {
	recorded := 0
	complete := 0

	for _, day := range windowDays(today, window) {
		for _, item := range meals {
			slots, ok := item.Logs[day]
			if !ok || len(slots) == 0 {
				continue
			}
			recorded++
			if mealDayComplete(slots) {
				complete++
			}
		}
	}

	if recorded == 0 {
		return 0
	}
	return roundPct(float64(complete) / float64(recorded) * 100)
}

func mealDayComplete(slots map[string]domain.MealSlotLog) bool {
	for _, required := range domain.RequiredMealSlots() {
		if !slots[required].Logged {
			return false
		}
	}
	return true
}

// mealTally counts logged slot categories across the window for the
// breakdown display. A frequency count, not a percentage; empty input yields
// the single neutral placeholder.
func mealTally(meals []MealItem, today domain.DayKey, window int) []domain.CategoryTally {
	counts := make(map[string]int)
	for _, day := range windowDays(today, window) {
		for _, item := range meals {
			for _, slot := range item.Logs[day] {
				if slot.Logged && slot.Category != "" {
					counts[slot.Category]++
				}
			}
		}
	}

	if len(counts) == 0 {
		return []domain.CategoryTally{{Name: NoDataCategory, Count: 0}}
	}

	tally := make([]domain.CategoryTally, 0, len(counts))
	for name, count := range counts {
		tally = append(tally, domain.CategoryTally{Name: name, Count: count})
	}
	sort.Slice(tally, func(i, j int) bool {
		if tally[i].Count != tally[j].Count {
			return tally[i].Count > tally[j].Count
		}
		return tally[i].Name < tally[j].Name
	})

	return tally
}
