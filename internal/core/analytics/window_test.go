package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

const testToday = domain.DayKey("2024-06-07")

func findAggregate(t *testing.T, aggregates []domain.CategoryAggregate, category string) domain.CategoryAggregate {
	t.Helper()
	for _, a := range aggregates {
		if a.CategoryID == category {
			return a
		}
	}
	t.Fatalf("category %s missing from report", category)
	return domain.CategoryAggregate{}
}

func TestReport_EmptySnapshot(t *testing.T) {
	aggregates, tally := Report(Snapshot{}, testToday, DefaultWindowDays)

	require.Len(t, aggregates, 5)
	for _, a := range aggregates {
		assert.Zero(t, a.CompletionPercentage, "category %s", a.CategoryID)
		assert.Zero(t, a.SampleSize)
	}

	require.Len(t, tally, 1)
	assert.Equal(t, NoDataCategory, tally[0].Name)
	assert.Zero(t, tally[0].Count)
}

func TestReport_CategoryOrder(t *testing.T) {
	aggregates, _ := Report(Snapshot{}, testToday, DefaultWindowDays)

	order := make([]string, 0, len(aggregates))
	for _, a := range aggregates {
		order = append(order, a.CategoryID)
	}
	assert.Equal(t, []string{
		domain.CategoryHabits,
		domain.CategoryLearning,
		domain.CategoryProjects,
		domain.CategoryRoutines,
		domain.CategoryMeals,
	}, order)
}

func TestReport_Habits(t *testing.T) {
	snap := Snapshot{
		Habits: []HabitItem{
			{ID: "h1", Completions: domain.CompletionMap{
				"2024-06-05": true,
				"2024-06-06": true,
				"2024-06-07": true,
				"2024-05-01": true, // outside the window, ignored
			}},
			{ID: "h2", Completions: domain.CompletionMap{
				"2024-06-07": true,
				"2024-06-06": false,
			}},
		},
	}

	aggregates, _ := Report(snap, testToday, 7)
	habits := findAggregate(t, aggregates, domain.CategoryHabits)

	// 4 completions over a 2x7 grid.
	assert.Equal(t, 29, habits.CompletionPercentage)
	assert.Equal(t, 2, habits.SampleSize)
}

func TestReport_Learning(t *testing.T) {
	snap := Snapshot{
		Goals: []GoalItem{
			{ID: "g1", Target: 100, Entries: domain.EntryMap{"2024-06-01": {Value: 50}}},
			{ID: "g2", Target: 100, Entries: domain.EntryMap{"2024-06-01": {Value: 200}}},
		},
	}

	aggregates, _ := Report(snap, testToday, 7)
	learning := findAggregate(t, aggregates, domain.CategoryLearning)

	// 50% and a clamped 100% average to 75; each goal weighs equally.
	assert.Equal(t, 75, learning.CompletionPercentage)
}

func TestReport_Projects(t *testing.T) {
	snap := Snapshot{
		Projects: []ProjectItem{
			{ID: "p1", Milestones: []domain.Milestone{
				{Status: domain.MilestoneCompleted},
				{Status: domain.MilestoneCompleted},
				{Status: domain.MilestoneInProgress},
				{Status: domain.MilestoneToDo},
			}},
			{ID: "p2"}, // no milestones contributes 0
		},
	}

	aggregates, _ := Report(snap, testToday, 7)
	projects := findAggregate(t, aggregates, domain.CategoryProjects)

	// (50 + 0) / 2
	assert.Equal(t, 25, projects.CompletionPercentage)
	assert.Equal(t, 2, projects.SampleSize)
}

func TestReport_Routines(t *testing.T) {
	subtasks := []string{"a", "b"}
	snap := Snapshot{
		Routines: []RoutineItem{
			{ID: "r1", SubtaskIDs: subtasks, Parts: domain.PartsMap{
				"2024-06-06": {"a": true, "b": true},
				"2024-06-07": {"a": true, "b": true},
				"2024-06-05": {"a": true}, // partial day does not count
			}},
		},
	}

	aggregates, _ := Report(snap, testToday, 7)
	routines := findAggregate(t, aggregates, domain.CategoryRoutines)

	// 2 fully-complete days of 7 -> mean of per-day shares.
	assert.Equal(t, 29, routines.CompletionPercentage)
}

func TestReport_Meals(t *testing.T) {
	logged := domain.MealSlotLog{Logged: true}
	snap := Snapshot{
		Meals: []MealItem{
			{ID: "m1", Logs: domain.MealLogMap{
				"2024-06-07": {
					domain.SlotBreakfast: {Logged: true, Category: "Healthy"},
					domain.SlotLunch:     {Logged: true, Category: "Healthy"},
					domain.SlotDinner:    {Logged: true, Category: "Restaurant"},
					// snack unlogged: excluded from the required set
				},
				"2024-06-06": {
					domain.SlotBreakfast: logged,
					domain.SlotLunch:     logged,
				},
				"2024-06-05": {
					domain.SlotBreakfast: logged,
					domain.SlotLunch:     logged,
					domain.SlotDinner:    logged,
					domain.SlotSnack:     {Logged: true, Category: "Cheat Meal"},
				},
			}},
		},
	}

	aggregates, tally := Report(snap, testToday, 7)
	meals := findAggregate(t, aggregates, domain.CategoryMeals)

	// 2 complete days out of 3 recorded; empty days are not in the
	// denominator.
	assert.Equal(t, 67, meals.CompletionPercentage)

	require.NotEmpty(t, tally)
	assert.Equal(t, domain.CategoryTally{Name: "Healthy", Count: 2}, tally[0])
	assert.Contains(t, tally, domain.CategoryTally{Name: "Restaurant", Count: 1})
	assert.Contains(t, tally, domain.CategoryTally{Name: "Cheat Meal", Count: 1})
}

func TestReport_WindowExcludesOldMealRecords(t *testing.T) {
	logged := domain.MealSlotLog{Logged: true, Category: "Healthy"}
	snap := Snapshot{
		Meals: []MealItem{
			{ID: "m1", Logs: domain.MealLogMap{
				"2024-01-01": {
					domain.SlotBreakfast: logged,
					domain.SlotLunch:     logged,
					domain.SlotDinner:    logged,
				},
			}},
		},
	}

	aggregates, tally := Report(snap, testToday, 7)
	meals := findAggregate(t, aggregates, domain.CategoryMeals)

	assert.Zero(t, meals.CompletionPercentage)
	require.Len(t, tally, 1)
	assert.Equal(t, NoDataCategory, tally[0].Name)
}

func TestReport_DefaultsWindow(t *testing.T) {
	aggregates, _ := Report(Snapshot{
		Habits: []HabitItem{{ID: "h1", Completions: domain.CompletionMap{testToday: true}}},
	}, testToday, 0)

	habits := findAggregate(t, aggregates, domain.CategoryHabits)
	// 1 of 7 under the default window.
	assert.Equal(t, 14, habits.CompletionPercentage)
}
