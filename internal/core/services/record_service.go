package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zron-max/momentum-gird/internal/core/domain"
	"github.com/zron-max/momentum-gird/internal/core/workers"
)

type RecordService struct {
	repo        domain.TrackerRecordRepository
	trackerRepo domain.TrackerRepository
	worker      *workers.StreakWorker
}

func NewRecordService(repo domain.TrackerRecordRepository, trackerRepo domain.TrackerRepository, worker *workers.StreakWorker) *RecordService {
	return &RecordService{
		repo:        repo,
		trackerRepo: trackerRepo,
		worker:      worker,
	}
}

type LogRecordInput struct {
	TrackerID      string
	UserID         string
	Day            string
	Completed      bool
	Value          float64
	Notes          string
	Parts          []string
	SlotCategories map[string]string
}

type UpdateRecordInput struct {
	ID             string
	UserID         string
	Completed      bool
	Value          float64
	Notes          string
	Parts          []string
	SlotCategories map[string]string
	Version        int
}

// Log upserts the day record for (tracker, day). Logging the same day twice
// replaces the mutable fields instead of stacking a second row, which is what
// toggling a habit cell or checking off a routine subtask needs.
func (s *RecordService) Log(ctx context.Context, input LogRecordInput) (*domain.TrackerRecord, error) {
	tracker, err := s.trackerRepo.GetByID(ctx, input.TrackerID)
	if err != nil {
		return nil, err
	}
	if tracker.UserID != input.UserID {
		return nil, domain.ErrUnauthorized
	}
	if tracker.ArchivedAt != nil {
		return nil, domain.ErrTrackerArchived
	}

	record := domain.NewTrackerRecord(input.TrackerID, input.UserID, domain.DayKey(input.Day))
	record.ID = uuid.NewString()
	record.Completed = input.Completed
	record.Value = input.Value
	record.Notes = input.Notes
	record.Parts = input.Parts
	record.SlotCategories = input.SlotCategories

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}

	s.worker.Enqueue(record.TrackerID)

	return record, nil
}

func (s *RecordService) Update(ctx context.Context, input UpdateRecordInput) (*domain.TrackerRecord, error) {
	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrRecordConflict, input.Version, existing.Version)
	}

	existing.Completed = input.Completed
	existing.Value = input.Value
	existing.Notes = input.Notes
	existing.Parts = input.Parts
	existing.SlotCategories = input.SlotCategories

	if err := existing.Validate(); err != nil {
		return nil, err
	}

	existing.Version++
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.worker.Enqueue(existing.TrackerID)

	return existing, nil
}

func (s *RecordService) GetByID(ctx context.Context, id string, userID string) (*domain.TrackerRecord, error) {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, domain.ErrUnauthorized
	}
	return record, nil
}

func (s *RecordService) ListByTrackerID(ctx context.Context, trackerID string, userID string, from, to domain.DayKey) ([]*domain.TrackerRecord, error) {
	tracker, err := s.trackerRepo.GetByID(ctx, trackerID)
	if err != nil {
		return nil, err
	}
	if tracker.UserID != userID {
		return nil, domain.ErrUnauthorized
	}

	if from.IsZero() && to.IsZero() {
		return s.repo.ListByTrackerID(ctx, trackerID)
	}
	return s.repo.ListByTrackerIDAndDayRange(ctx, trackerID, from, to)
}

func (s *RecordService) Delete(ctx context.Context, id string, userID string) error {
	record, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if record.UserID != userID {
		return domain.ErrUnauthorized
	}

	trackerID := record.TrackerID

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.worker.Enqueue(trackerID)

	return nil
}

func (s *RecordService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.TrackerRecord, error) {
	return s.repo.GetChanges(ctx, userID, since)
}
