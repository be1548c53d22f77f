package http_test

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	adapterHTTP "github.com/zron-max/momentum-gird/internal/adapters/handler/http"
	"github.com/zron-max/momentum-gird/internal/adapters/handler/http/middleware"
	"github.com/zron-max/momentum-gird/internal/adapters/repository"
	"github.com/zron-max/momentum-gird/internal/core/domain"
	"github.com/zron-max/momentum-gird/internal/core/services"
	"github.com/zron-max/momentum-gird/internal/core/workers"
)

// In-memory record store for handler tests. Tracker storage reuses
// repository.InMemoryTrackerRepository.
type memRecordRepo struct {
	store map[string]*domain.TrackerRecord
}

func newMemRecordRepo() *memRecordRepo {
	return &memRecordRepo{store: make(map[string]*domain.TrackerRecord)}
}

func (m *memRecordRepo) Create(ctx context.Context, r *domain.TrackerRecord) error {
	m.store[r.ID] = r
	return nil
}

func (m *memRecordRepo) Upsert(ctx context.Context, r *domain.TrackerRecord) error {
	for _, existing := range m.store {
		if existing.TrackerID == r.TrackerID && existing.Day == r.Day && existing.DeletedAt == nil {
			r.ID = existing.ID
			r.Version = existing.Version + 1
			r.CreatedAt = existing.CreatedAt
			m.store[r.ID] = r
			return nil
		}
	}
	m.store[r.ID] = r
	return nil
}

func (m *memRecordRepo) Update(ctx context.Context, r *domain.TrackerRecord) error {
	if _, ok := m.store[r.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	m.store[r.ID] = r
	return nil
}

func (m *memRecordRepo) Delete(ctx context.Context, id string, userID string) error {
	r, ok := m.store[id]
	if !ok || r.UserID != userID {
		return domain.ErrRecordNotFound
	}
	now := time.Now().UTC()
	r.DeletedAt = &now
	return nil
}

func (m *memRecordRepo) GetByID(ctx context.Context, id string) (*domain.TrackerRecord, error) {
	r, ok := m.store[id]
	if !ok || r.DeletedAt != nil {
		return nil, domain.ErrRecordNotFound
	}
	return r, nil
}

func (m *memRecordRepo) ListByTrackerID(ctx context.Context, trackerID string) ([]*domain.TrackerRecord, error) {
	var list []*domain.TrackerRecord
	for _, r := range m.store {
		if r.TrackerID == trackerID && r.DeletedAt == nil {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *memRecordRepo) ListByTrackerIDAndDayRange(ctx context.Context, trackerID string, from, to domain.DayKey) ([]*domain.TrackerRecord, error) {
	var list []*domain.TrackerRecord
	for _, r := range m.store {
		if r.TrackerID == trackerID && r.DeletedAt == nil && !r.Day.Before(from) && !to.Before(r.Day) {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *memRecordRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.TrackerRecord, error) {
	var list []*domain.TrackerRecord
	for _, r := range m.store {
		if r.UserID == userID && r.DeletedAt == nil {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *memRecordRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.TrackerRecord, error) {
	var list []*domain.TrackerRecord
	for _, r := range m.store {
		if r.UserID == userID && r.UpdatedAt.After(since) {
			list = append(list, r)
		}
	}
	return list, nil
}

type memTimeBlockRepo struct {
	store map[string]*domain.TimeBlock
}

func newMemTimeBlockRepo() *memTimeBlockRepo {
	return &memTimeBlockRepo{store: make(map[string]*domain.TimeBlock)}
}

func (m *memTimeBlockRepo) Create(ctx context.Context, b *domain.TimeBlock) error {
	m.store[b.ID] = b
	return nil
}

func (m *memTimeBlockRepo) GetByID(ctx context.Context, id string) (*domain.TimeBlock, error) {
	b, ok := m.store[id]
	if !ok {
		return nil, domain.ErrTimeBlockNotFound
	}
	return b, nil
}

func (m *memTimeBlockRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.TimeBlock, error) {
	var list []*domain.TimeBlock
	for _, b := range m.store {
		if b.UserID == userID {
			list = append(list, b)
		}
	}
	return list, nil
}

func (m *memTimeBlockRepo) Update(ctx context.Context, b *domain.TimeBlock) error {
	if _, ok := m.store[b.ID]; !ok {
		return domain.ErrTimeBlockNotFound
	}
	m.store[b.ID] = b
	return nil
}

func (m *memTimeBlockRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.store[id]; !ok {
		return domain.ErrTimeBlockNotFound
	}
	delete(m.store, id)
	return nil
}

type testEnv struct {
	router      *gin.Engine
	trackerRepo *repository.InMemoryTrackerRepository
	recordRepo  *memRecordRepo
	blockRepo   *memTimeBlockRepo
}

// setupEnv wires the full handler stack over in-memory storage. The identity
// shim replaces the JWT middleware so requests authenticate with a plain
// X-User-ID header.
func setupEnv() testEnv {
	gin.SetMode(gin.TestMode)

	trackerRepo := repository.NewInMemoryTrackerRepository()
	recordRepo := newMemRecordRepo()
	blockRepo := newMemTimeBlockRepo()
	worker := workers.NewStreakWorker(trackerRepo, recordRepo)

	trackerHandler := adapterHTTP.NewTrackerHandler(services.NewTrackerService(trackerRepo))
	recordHandler := adapterHTTP.NewRecordHandler(services.NewRecordService(recordRepo, trackerRepo, worker))
	analyticsHandler := adapterHTTP.NewAnalyticsHandler(services.NewAnalyticsService(trackerRepo, recordRepo))
	scheduleHandler := adapterHTTP.NewScheduleHandler(services.NewScheduleService(blockRepo, trackerRepo, recordRepo, worker, domain.WeekStartMonday))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-User-ID"); id != "" {
			c.Set(middleware.ContextUserIDKey, id)
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	trackerHandler.RegisterRoutes(api)
	recordHandler.RegisterRoutes(api)
	analyticsHandler.RegisterRoutes(api)
	scheduleHandler.RegisterRoutes(api)

	return testEnv{
		router:      r,
		trackerRepo: trackerRepo,
		recordRepo:  recordRepo,
		blockRepo:   blockRepo,
	}
}
