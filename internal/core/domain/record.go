package domain

import (
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrRecordNotFound = errors.New("tracker record not found")
	ErrRecordConflict = errors.New("tracker record version conflict")
	ErrInvalidRecord  = errors.New("invalid tracker record data")
)

// Meal slots. The three main slots are required for a day to count as
// complete; snack is optional.
const (
	SlotBreakfast = "breakfast"
	SlotLunch     = "lunch"
	SlotDinner    = "dinner"
	SlotSnack     = "snack"
)

func MealSlots() []string {
	return []string{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}
}

func RequiredMealSlots() []string {
	return []string{SlotBreakfast, SlotLunch, SlotDinner}
}

// TrackerRecord is one tracker's state for one calendar day. Which fields are
// meaningful follows the owning tracker's kind: Completed for habits, Value
// and Notes for learning goals, Parts for routine subtasks and meal slots,
// SlotCategories for meal slots. Records are sparse; a day without a record
// is simply absent.
type TrackerRecord struct {
	ID        string `json:"id" db:"id"`
	TrackerID string `json:"tracker_id" db:"tracker_id"`
	UserID    string `json:"user_id" db:"user_id"`

	Day       DayKey  `json:"day" db:"day"`
	Completed bool    `json:"completed" db:"completed"`
	Value     float64 `json:"value" db:"value"`
	Notes     string  `json:"notes" db:"notes"`

	Parts          []string          `json:"parts,omitempty"`
	SlotCategories map[string]string `json:"slot_categories,omitempty"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

func NewTrackerRecord(trackerID, userID string, day DayKey) *TrackerRecord {
	now := time.Now().UTC()

	return &TrackerRecord{
		TrackerID: trackerID,
		UserID:    userID,
		Day:       day,

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (r *TrackerRecord) Validate() error {
	if strings.TrimSpace(r.TrackerID) == "" {
		return errors.New("tracker_id is required")
	}
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("user_id is required")
	}
	if _, err := ParseDayKey(string(r.Day)); err != nil {
		return err
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return ErrInvalidRecord
	}
	return nil
}

// Engine input shapes. The analytics engine never sees records directly; the
// calling layer reduces them to these day-keyed maps first. Maps are sparse:
// a missing day means nothing was logged.

type Entry struct {
	Value float64 `json:"value"`
	Notes string  `json:"notes,omitempty"`
}

type CompletionMap map[DayKey]bool

type PartsMap map[DayKey]map[string]bool

type EntryMap map[DayKey]Entry

type MealSlotLog struct {
	Logged   bool   `json:"logged"`
	Category string `json:"category,omitempty"`
}

type MealLogMap map[DayKey]map[string]MealSlotLog

// BuildCompletionMap reduces habit records to a day->completed map.
// Later records for the same day win; the repos return ascending day order so
// this is deterministic either way.
func BuildCompletionMap(records []*TrackerRecord) CompletionMap {
	m := make(CompletionMap, len(records))
	for _, r := range records {
		m[r.Day] = r.Completed
	}
	return m
}

// BuildPartsMap reduces routine or meal records to day->completed-part sets.
func BuildPartsMap(records []*TrackerRecord) PartsMap {
	m := make(PartsMap, len(records))
	for _, r := range records {
		set := make(map[string]bool, len(r.Parts))
		for _, p := range r.Parts {
			set[p] = true
		}
		m[r.Day] = set
	}
	return m
}

// BuildEntryMap reduces learning records to a day->entry map, accumulating
// multiple records on the same day additively.
func BuildEntryMap(records []*TrackerRecord) EntryMap {
	m := make(EntryMap, len(records))
	for _, r := range records {
		e := m[r.Day]
		e.Value += r.Value
		if r.Notes != "" {
			if e.Notes != "" {
				e.Notes += "\n"
			}
			e.Notes += r.Notes
		}
		m[r.Day] = e
	}
	return m
}

// BuildMealLogMap reduces meal records to day->slot logs.
func BuildMealLogMap(records []*TrackerRecord) MealLogMap {
	m := make(MealLogMap, len(records))
	for _, r := range records {
		slots := make(map[string]MealSlotLog, len(r.Parts))
		for _, slot := range r.Parts {
			slots[slot] = MealSlotLog{
				Logged:   true,
				Category: r.SlotCategories[slot],
			}
		}
		m[r.Day] = slots
	}
	return m
}
