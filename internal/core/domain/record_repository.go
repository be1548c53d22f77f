package domain

import (
	"context"
	"time"
)

type TrackerRecordRepository interface {
	// Create persists a new day record.
	Create(ctx context.Context, record *TrackerRecord) error

	// Upsert creates the record for (tracker, day) or replaces the mutable
	// fields of the existing one. Day records are idempotent per calendar
	// day, so toggling from the UI routes through here.
	Upsert(ctx context.Context, record *TrackerRecord) error

	// Update modifies an existing record. Implementations must handle
	// optimistic locking (version check) to prevent data races.
	Update(ctx context.Context, record *TrackerRecord) error

	// Delete performs a soft delete. It requires userID to ensure the user
	// actually owns the record being deleted.
	Delete(ctx context.Context, id string, userID string) error

	// GetByID retrieves a single active (non-deleted) record by its ID.
	GetByID(ctx context.Context, id string) (*TrackerRecord, error)

	// ListByTrackerID retrieves all active records for one tracker in
	// ascending day order. Streak math needs the full history.
	ListByTrackerID(ctx context.Context, trackerID string) ([]*TrackerRecord, error)

	// ListByTrackerIDAndDayRange retrieves one tracker's records inside a
	// day window, inclusive on both ends.
	ListByTrackerIDAndDayRange(ctx context.Context, trackerID string, from, to DayKey) ([]*TrackerRecord, error)

	// ListByUserID retrieves every active record a user owns, the snapshot
	// input for a full analytics pass.
	ListByUserID(ctx context.Context, userID string) ([]*TrackerRecord, error)

	// GetChanges returns all changes (creations, updates, soft deletes)
	// after the 'since' timestamp, for offline-first synchronization.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*TrackerRecord, error)
}
