package domain

import (
	"context"
	"time"
)

type TrackerRepository interface {
	// Create persists a new tracker definition.
	Create(ctx context.Context, tracker *Tracker) error

	// GetByID retrieves a tracker by its unique identifier.
	GetByID(ctx context.Context, id string) (*Tracker, error)

	// ListByUserID retrieves all active trackers owned by a user.
	ListByUserID(ctx context.Context, userID string) ([]*Tracker, error)

	// ListByUserIDAndKind retrieves one category's trackers, the unit the
	// rolling-window aggregator works over.
	ListByUserIDAndKind(ctx context.Context, userID, kind string) ([]*Tracker, error)

	// Update modifies an existing tracker. Implementations must enforce
	// optimistic locking on the version column.
	Update(ctx context.Context, tracker *Tracker) error

	// Delete soft-deletes the tracker.
	Delete(ctx context.Context, id string) error

	// GetChanges returns the deltas occurring after a specific instant, for
	// offline-first client sync.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Tracker, error)

	// UpdateStreaks persists worker-computed streak counters without bumping
	// the tracker version.
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type TimeBlockRepository interface {
	Create(ctx context.Context, block *TimeBlock) error
	GetByID(ctx context.Context, id string) (*TimeBlock, error)
	ListByUserID(ctx context.Context, userID string) ([]*TimeBlock, error)
	Update(ctx context.Context, block *TimeBlock) error
	Delete(ctx context.Context, id string) error
}
