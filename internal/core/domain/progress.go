package domain

// Computed values produced by the analytics engine. Everything here is a
// read-only view recomputed on demand; nothing is persisted.

type StreakResult struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

type CompletionStatus string

const (
	StatusComplete   CompletionStatus = "complete"
	StatusPartial    CompletionStatus = "partial"
	StatusIncomplete CompletionStatus = "incomplete"
)

// DayCompletion is one composite item's resolved state for one day.
type DayCompletion struct {
	Status   CompletionStatus `json:"status"`
	Fraction float64          `json:"fraction"`
}

type GoalProgress struct {
	Total      float64 `json:"total"`
	Percentage int     `json:"percentage"`
}

// Category identifiers for the rolling-window report, in report order.
const (
	CategoryHabits   = "habits"
	CategoryLearning = "learning"
	CategoryProjects = "projects"
	CategoryRoutines = "routines"
	CategoryMeals    = "meals"
)

// CategoryAggregate is the single normalized completion percentage for one
// tracked-item kind over the trailing window. SampleSize is the number of
// trackers that contributed.
type CategoryAggregate struct {
	CategoryID           string `json:"category_id"`
	CompletionPercentage int    `json:"completion_percentage"`
	SampleSize           int    `json:"sample_size"`
}

// CategoryTally is one meal-category frequency for the breakdown display.
type CategoryTally struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Achievement struct {
	Title        string `json:"title"`
	Subtitle     string `json:"subtitle,omitempty"`
	ThresholdMet string `json:"threshold_met,omitempty"`
}

// TrackerStreak pairs a tracker with its computed streaks for list views.
type TrackerStreak struct {
	TrackerID string       `json:"tracker_id"`
	Name      string       `json:"name"`
	Kind      string       `json:"kind"`
	Streak    StreakResult `json:"streak"`
}

// Overview is the full analytics payload the dashboard reads.
type Overview struct {
	WindowDays    int                 `json:"window_days"`
	Today         DayKey              `json:"today"`
	Categories    []CategoryAggregate `json:"categories"`
	Achievements  []Achievement       `json:"achievements"`
	MealBreakdown []CategoryTally     `json:"meal_breakdown"`
	Streaks       []TrackerStreak     `json:"streaks"`
}
