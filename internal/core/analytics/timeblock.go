package analytics

import (
	"fmt"
	"strings"
	"time"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

var timeBasedUnits = []string{"minute", "hour"}

// TimeBasedUnit reports whether a learning goal is measured in time, i.e.
// whether completing a linked schedule block should log progress against it.
func TimeBasedUnit(unit string) bool {
	unit = strings.ToLower(unit)
	for _, u := range timeBasedUnits {
		if strings.Contains(unit, u) {
			return true
		}
	}
	return false
}

// BlockDuration parses an HH:MM clock pair and returns the whole-minute
// duration. The end must be strictly after the start; schedule blocks never
// span midnight.
func BlockDuration(start, end string) (int, error) {
	s, err := time.Parse("15:04", start)
	if err != nil {
		return 0, domain.ErrInvalidClock
	}
	e, err := time.Parse("15:04", end)
	if err != nil {
		return 0, domain.ErrInvalidClock
	}

	minutes := int(e.Sub(s) / time.Minute)
	if minutes <= 0 {
		return 0, domain.ErrBlockTimeOrder
	}
	return minutes, nil
}

// SyncedEntry is the entry SyncBlockEntry computes for the caller to merge
// into the linked goal's entry map.
type SyncedEntry struct {
	Day   domain.DayKey
	Entry domain.Entry
}

// SyncBlockEntry converts a completed schedule block into a synthetic goal
// entry: the block's duration in minutes, dated to the block's weekday within
// the week containing now, added on top of whatever the goal already has for
// that day. The second return is false when the block and goal are not a
// syncable pair (no link, wrong kind, or a goal not measured in time); the
// engine computes the entry but never merges or persists it.
func SyncBlockEntry(block *domain.TimeBlock, goal *domain.Tracker, entries domain.EntryMap, weekStart int, now time.Time) (SyncedEntry, bool, error) {
	if block == nil || goal == nil {
		return SyncedEntry{}, false, nil
	}
	if block.LinkedGoalID == "" || block.LinkedGoalID != goal.ID {
		return SyncedEntry{}, false, nil
	}
	if goal.Kind != domain.KindLearning || !TimeBasedUnit(goal.Unit) {
		return SyncedEntry{}, false, nil
	}

	minutes, err := BlockDuration(block.StartTime, block.EndTime)
	if err != nil {
		return SyncedEntry{}, false, err
	}

	day := domain.ResolveDateForWeekday(block.Weekday, weekStart, now)

	existing := entries[day]
	note := fmt.Sprintf("+%dmin from time block: %s", minutes, block.TaskName)
	if existing.Notes != "" {
		note = existing.Notes + "\n" + note
	}

	return SyncedEntry{
		Day: day,
		Entry: domain.Entry{
			Value: existing.Value + float64(minutes),
			Notes: note,
		},
	}, true, nil
}
