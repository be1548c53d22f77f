package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrTimeBlockNotFound  = errors.New("time block not found")
	ErrTimeBlockNameEmpty = errors.New("time block task name cannot be empty")
	ErrInvalidClock       = errors.New("invalid time format (must be HH:MM 24h)")
	ErrInvalidBlockDay    = errors.New("invalid weekday (must be 0-6)")
	ErrInvalidPriority    = errors.New("invalid priority (must be low, medium, or high)")
	ErrBlockTimeOrder     = errors.New("end time must be after start time")
)

var clockRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// TimeBlock is a fixed-weekday schedule slot. A block may be linked to a
// learning tracker; completing a linked block feeds the goal's entry map via
// the analytics sync helper.
type TimeBlock struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Weekday   int    `json:"weekday"` // 0=Sunday .. 6=Saturday
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	TaskName  string `json:"task_name"`
	Color     string `json:"color,omitempty"`
	Priority  string `json:"priority"`

	Completed    bool   `json:"completed"`
	LinkedGoalID string `json:"linked_goal_id,omitempty"`

	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func validateTimeBlock(weekday int, start, end, taskName, priority string) error {
	if strings.TrimSpace(taskName) == "" {
		return ErrTimeBlockNameEmpty
	}
	if weekday < 0 || weekday > 6 {
		return ErrInvalidBlockDay
	}
	if !clockRegex.MatchString(start) || !clockRegex.MatchString(end) {
		return ErrInvalidClock
	}
	if end <= start {
		return ErrBlockTimeOrder
	}
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
	default:
		return ErrInvalidPriority
	}
	return nil
}

func NewTimeBlock(userID string, weekday int, start, end, taskName, color, priority, linkedGoalID string) (*TimeBlock, error) {
	if userID == "" {
		return nil, ErrTrackerInvalidUserID
	}

	if priority == "" {
		priority = PriorityMedium
	}

	if err := validateTimeBlock(weekday, start, end, taskName, priority); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &TimeBlock{
		ID:           uuid.NewString(),
		UserID:       userID,
		Weekday:      weekday,
		StartTime:    start,
		EndTime:      end,
		TaskName:     strings.TrimSpace(taskName),
		Color:        color,
		Priority:     priority,
		LinkedGoalID: linkedGoalID,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (b *TimeBlock) Update(weekday int, start, end, taskName, color, priority, linkedGoalID string) error {
	if priority == "" {
		priority = b.Priority
	}

	if err := validateTimeBlock(weekday, start, end, taskName, priority); err != nil {
		return err
	}

	b.Weekday = weekday
	b.StartTime = start
	b.EndTime = end
	b.TaskName = strings.TrimSpace(taskName)
	b.Color = color
	b.Priority = priority
	b.LinkedGoalID = linkedGoalID
	b.UpdatedAt = time.Now().UTC()
	return nil
}

func (b *TimeBlock) MarkCompleted(done bool) {
	if b.Completed == done {
		return
	}
	b.Completed = done
	b.UpdatedAt = time.Now().UTC()
}
