package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

var _ domain.TrackerRepository = (*CachedTrackerRepository)(nil)

// CachedTrackerRepository caches the per-user tracker list, the read every
// dashboard render hits. All writes invalidate; everything else passes
// through.
type CachedTrackerRepository struct {
	next  domain.TrackerRepository
	cache *redis.Client
}

func NewCachedTrackerRepository(next domain.TrackerRepository, cache *redis.Client) *CachedTrackerRepository {
	return &CachedTrackerRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedTrackerRepository) cacheKey(userID string) string {
	return fmt.Sprintf("trackers:%s", userID)
}

func (r *CachedTrackerRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for user %s: %v", userID, err)
	}
}

func (r *CachedTrackerRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Tracker, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var trackers []*domain.Tracker
		if err := json.Unmarshal([]byte(val), &trackers); err == nil {
			return trackers, nil
		}

		log.Printf("[CACHE] Corrupted data for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	trackers, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(trackers); err == nil {
		if setErr := r.cache.Set(ctx, key, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return trackers, nil
}

func (r *CachedTrackerRepository) ListByUserIDAndKind(ctx context.Context, userID, kind string) ([]*domain.Tracker, error) {
	return r.next.ListByUserIDAndKind(ctx, userID, kind)
}

func (r *CachedTrackerRepository) GetByID(ctx context.Context, id string) (*domain.Tracker, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedTrackerRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Tracker, error) {
	return r.next.GetChanges(ctx, userID, since)
}

func (r *CachedTrackerRepository) Create(ctx context.Context, tracker *domain.Tracker) error {
	if err := r.next.Create(ctx, tracker); err != nil {
		return err
	}
	r.invalidate(ctx, tracker.UserID)
	return nil
}

func (r *CachedTrackerRepository) Update(ctx context.Context, tracker *domain.Tracker) error {
	if err := r.next.Update(ctx, tracker); err != nil {
		return err
	}
	r.invalidate(ctx, tracker.UserID)
	return nil
}

func (r *CachedTrackerRepository) Delete(ctx context.Context, id string) error {
	tracker, err := r.next.GetByID(ctx, id)
	if err == nil && tracker != nil {
		defer r.invalidate(ctx, tracker.UserID)
	}

	return r.next.Delete(ctx, id)
}

func (r *CachedTrackerRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	tracker, err := r.next.GetByID(ctx, id)
	if err == nil && tracker != nil {
		defer r.invalidate(ctx, tracker.UserID)
	}

	return r.next.UpdateStreaks(ctx, id, current, longest)
}
