package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

// InMemoryTrackerRepository backs local development and tests that do not
// need Postgres.
type InMemoryTrackerRepository struct {
	store map[string]*domain.Tracker

	mu sync.RWMutex
}

func NewInMemoryTrackerRepository() *InMemoryTrackerRepository {
	return &InMemoryTrackerRepository{
		store: make(map[string]*domain.Tracker),
	}
}

func (r *InMemoryTrackerRepository) Create(ctx context.Context, tracker *domain.Tracker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[tracker.ID] = tracker
	return nil
}

func (r *InMemoryTrackerRepository) GetByID(ctx context.Context, id string) (*domain.Tracker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tracker, ok := r.store[id]
	if !ok || tracker.DeletedAt != nil {
		return nil, domain.ErrTrackerNotFound
	}
	return tracker, nil
}

func (r *InMemoryTrackerRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Tracker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var trackers []*domain.Tracker
	for _, t := range r.store {
		if t.UserID == userID && t.DeletedAt == nil {
			trackers = append(trackers, t)
		}
	}

	sort.Slice(trackers, func(i, j int) bool {
		return trackers[i].CreatedAt.Before(trackers[j].CreatedAt)
	})

	return trackers, nil
}

func (r *InMemoryTrackerRepository) ListByUserIDAndKind(ctx context.Context, userID, kind string) ([]*domain.Tracker, error) {
	all, err := r.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	var trackers []*domain.Tracker
	for _, t := range all {
		if t.Kind == kind {
			trackers = append(trackers, t)
		}
	}
	return trackers, nil
}

func (r *InMemoryTrackerRepository) Update(ctx context.Context, tracker *domain.Tracker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[tracker.ID]; !ok {
		return domain.ErrTrackerNotFound
	}

	r.store[tracker.ID] = tracker
	return nil
}

func (r *InMemoryTrackerRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.store[id]
	if !ok || t.DeletedAt != nil {
		return domain.ErrTrackerNotFound
	}

	now := time.Now().UTC()
	t.DeletedAt = &now
	t.UpdatedAt = now
	return nil
}

func (r *InMemoryTrackerRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Tracker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var changes []*domain.Tracker
	for _, t := range r.store {
		if t.UserID == userID && t.UpdatedAt.After(since) {
			changes = append(changes, t)
		}
	}
	return changes, nil
}

func (r *InMemoryTrackerRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.store[id]
	if !ok || t.DeletedAt != nil {
		return domain.ErrTrackerNotFound
	}

	t.CurrentStreak = current
	t.LongestStreak = longest
	t.UpdatedAt = time.Now().UTC()
	return nil
}
