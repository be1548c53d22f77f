package domain

import (
	"errors"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTrackerNameEmpty     = errors.New("tracker name cannot be empty")
	ErrTrackerNameTooLong   = errors.New("tracker name is too long (max 100 chars)")
	ErrTrackerInvalidUserID = errors.New("invalid user id")
	ErrInvalidTrackerKind   = errors.New("invalid tracker kind (must be habit, routine, learning, project, or meal)")
	ErrInvalidColor         = errors.New("invalid color format (must be #RRGGBB)")
	ErrTargetNotFinite      = errors.New("target amount must be a finite number")
	ErrSubtaskNameEmpty     = errors.New("subtask name cannot be empty")
	ErrMilestoneNameEmpty   = errors.New("milestone name cannot be empty")
	ErrInvalidMilestone     = errors.New("invalid milestone status")
	ErrTrackerArchived      = errors.New("cannot update an archived tracker")
	ErrTrackerNotFound      = errors.New("tracker not found")
	ErrTrackerConflict      = errors.New("tracker version conflict")
	ErrUnauthorized         = errors.New("operation not permitted for this user")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// Tracker kinds. One entity covers all five tracked-item shapes; the Kind tag
// decides which optional fields are meaningful and how the analytics engine
// reduces the tracker's records.
const (
	KindHabit    = "habit"
	KindRoutine  = "routine"
	KindLearning = "learning"
	KindProject  = "project"
	KindMeal     = "meal"

	MaxNameLen = 100
)

// Milestone statuses for project trackers.
const (
	MilestoneToDo       = "todo"
	MilestoneInProgress = "in_progress"
	MilestoneCompleted  = "completed"
	MilestoneDelayed    = "delayed"
)

type Subtask struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Milestone struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	DueDate DayKey `json:"due_date,omitempty"`
	Status  string `json:"status"`
}

type Tracker struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Color  string `json:"color,omitempty"`
	Icon   string `json:"icon,omitempty"`

	// Routine only.
	Subtasks []Subtask `json:"subtasks,omitempty"`

	// Learning only.
	TargetAmount float64 `json:"target_amount,omitempty"`
	Unit         string  `json:"unit,omitempty"`

	// Project only.
	Milestones []Milestone `json:"milestones,omitempty"`

	// Denormalized streak counters, maintained by the streak worker.
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`

	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}

func validKind(kind string) bool {
	switch kind {
	case KindHabit, KindRoutine, KindLearning, KindProject, KindMeal:
		return true
	}
	return false
}

func validMilestoneStatus(status string) bool {
	switch status {
	case MilestoneToDo, MilestoneInProgress, MilestoneCompleted, MilestoneDelayed:
		return true
	}
	return false
}

func validateTracker(kind, name, color string, target float64, subtasks []Subtask, milestones []Milestone) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrTrackerNameEmpty
	}
	if len(trimmed) > MaxNameLen {
		return ErrTrackerNameTooLong
	}

	if !validKind(kind) {
		return ErrInvalidTrackerKind
	}

	if color != "" && !colorRegex.MatchString(color) {
		return ErrInvalidColor
	}

	if math.IsNaN(target) || math.IsInf(target, 0) {
		return ErrTargetNotFinite
	}

	for _, st := range subtasks {
		if strings.TrimSpace(st.Name) == "" {
			return ErrSubtaskNameEmpty
		}
	}

	for _, m := range milestones {
		if strings.TrimSpace(m.Name) == "" {
			return ErrMilestoneNameEmpty
		}
		if m.Status != "" && !validMilestoneStatus(m.Status) {
			return ErrInvalidMilestone
		}
	}

	return nil
}

func normalizeSubtasks(subtasks []Subtask) []Subtask {
	if len(subtasks) == 0 {
		return nil
	}
	out := make([]Subtask, 0, len(subtasks))
	for _, st := range subtasks {
		if st.ID == "" {
			st.ID = uuid.NewString()
		}
		st.Name = strings.TrimSpace(st.Name)
		out = append(out, st)
	}
	return out
}

func normalizeMilestones(milestones []Milestone) []Milestone {
	if len(milestones) == 0 {
		return nil
	}
	out := make([]Milestone, 0, len(milestones))
	for _, m := range milestones {
		if m.ID == "" {
			m.ID = uuid.NewString()
		}
		if m.Status == "" {
			m.Status = MilestoneToDo
		}
		m.Name = strings.TrimSpace(m.Name)
		out = append(out, m)
	}
	return out
}

func NewTracker(userID, kind, name, color, icon, unit string, target float64, subtasks []Subtask, milestones []Milestone) (*Tracker, error) {
	if userID == "" {
		return nil, ErrTrackerInvalidUserID
	}

	if err := validateTracker(kind, name, color, target, subtasks, milestones); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	t := &Tracker{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Name:      strings.TrimSpace(name),
		Color:     color,
		Icon:      icon,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	switch kind {
	case KindRoutine:
		t.Subtasks = normalizeSubtasks(subtasks)
	case KindLearning:
		t.TargetAmount = target
		t.Unit = unit
	case KindProject:
		t.Milestones = normalizeMilestones(milestones)
	}

	return t, nil
}

// Update modifies mutable fields. The kind is fixed at creation: records
// already logged against a tracker only make sense under one reduction.
func (t *Tracker) Update(name, color, icon, unit string, target float64, subtasks []Subtask, milestones []Milestone) error {
	if t.ArchivedAt != nil {
		return ErrTrackerArchived
	}

	if err := validateTracker(t.Kind, name, color, target, subtasks, milestones); err != nil {
		return err
	}

	t.Name = strings.TrimSpace(name)
	t.Color = color
	t.Icon = icon

	switch t.Kind {
	case KindRoutine:
		t.Subtasks = normalizeSubtasks(subtasks)
	case KindLearning:
		t.TargetAmount = target
		t.Unit = unit
	case KindProject:
		t.Milestones = normalizeMilestones(milestones)
	}

	t.UpdatedAt = time.Now().UTC()
	return nil
}

func (t *Tracker) UpdateStreak(current, longest int) {
	t.CurrentStreak = current
	t.LongestStreak = longest
	t.UpdatedAt = time.Now().UTC()
}

func (t *Tracker) Archive() {
	if t.ArchivedAt != nil {
		return
	}
	now := time.Now().UTC()
	t.ArchivedAt = &now
	t.UpdatedAt = now
}

func (t *Tracker) Restore() {
	if t.ArchivedAt == nil {
		return
	}
	t.ArchivedAt = nil
	t.UpdatedAt = time.Now().UTC()
}

// SubtaskIDs returns the full set of subtask identifiers, the denominator for
// routine completion.
func (t *Tracker) SubtaskIDs() []string {
	ids := make([]string, 0, len(t.Subtasks))
	for _, st := range t.Subtasks {
		ids = append(ids, st.ID)
	}
	return ids
}
