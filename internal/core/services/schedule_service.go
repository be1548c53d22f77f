package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/zron-max/momentum-gird/internal/core/analytics"
	"github.com/zron-max/momentum-gird/internal/core/domain"
	"github.com/zron-max/momentum-gird/internal/core/workers"
)

type ScheduleService struct {
	repo        domain.TimeBlockRepository
	trackerRepo domain.TrackerRepository
	recordRepo  domain.TrackerRecordRepository
	worker      *workers.StreakWorker
	weekStart   int
}

func NewScheduleService(repo domain.TimeBlockRepository, trackerRepo domain.TrackerRepository, recordRepo domain.TrackerRecordRepository, worker *workers.StreakWorker, weekStart int) *ScheduleService {
	return &ScheduleService{
		repo:        repo,
		trackerRepo: trackerRepo,
		recordRepo:  recordRepo,
		worker:      worker,
		weekStart:   weekStart,
	}
}

type BlockInput struct {
	Weekday      int
	StartTime    string
	EndTime      string
	TaskName     string
	Color        string
	Priority     string
	LinkedGoalID string
}

func (s *ScheduleService) Create(ctx context.Context, userID string, input BlockInput) (*domain.TimeBlock, error) {
	if input.LinkedGoalID != "" {
		if err := s.checkLinkedGoal(ctx, input.LinkedGoalID, userID); err != nil {
			return nil, err
		}
	}

	block, err := domain.NewTimeBlock(userID, input.Weekday, input.StartTime, input.EndTime, input.TaskName, input.Color, input.Priority, input.LinkedGoalID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *ScheduleService) GetByID(ctx context.Context, id, userID string) (*domain.TimeBlock, error) {
	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if block.UserID != userID {
		return nil, domain.ErrTimeBlockNotFound
	}
	return block, nil
}

func (s *ScheduleService) ListByUserID(ctx context.Context, userID string) ([]*domain.TimeBlock, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *ScheduleService) Update(ctx context.Context, id, userID string, input BlockInput, version int) (*domain.TimeBlock, error) {
	block, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if version > 0 && block.Version != version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrTrackerConflict, version, block.Version)
	}

	if input.LinkedGoalID != "" && input.LinkedGoalID != block.LinkedGoalID {
		if err := s.checkLinkedGoal(ctx, input.LinkedGoalID, userID); err != nil {
			return nil, err
		}
	}

	if err := block.Update(input.Weekday, input.StartTime, input.EndTime, input.TaskName, input.Color, input.Priority, input.LinkedGoalID); err != nil {
		return nil, err
	}
	block.Version++

	if err := s.repo.Update(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *ScheduleService) Delete(ctx context.Context, id, userID string) error {
	if _, err := s.GetByID(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Complete toggles a block's done state. Marking a block done that is linked
// to a time-measured learning goal also logs the block's duration against the
// goal for the block's weekday in the current week; unmarking does not claw
// the minutes back.
func (s *ScheduleService) Complete(ctx context.Context, id, userID string, done bool) (*domain.TimeBlock, error) {
	block, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	wasCompleted := block.Completed
	block.MarkCompleted(done)
	block.Version++

	if err := s.repo.Update(ctx, block); err != nil {
		return nil, err
	}

	if done && !wasCompleted && block.LinkedGoalID != "" {
		if err := s.syncLinkedGoal(ctx, block, userID); err != nil {
			return nil, err
		}
	}

	return block, nil
}

func (s *ScheduleService) checkLinkedGoal(ctx context.Context, goalID, userID string) error {
	goal, err := s.trackerRepo.GetByID(ctx, goalID)
	if err != nil {
		return err
	}
	if goal.UserID != userID {
		return domain.ErrTrackerNotFound
	}
	if goal.Kind != domain.KindLearning {
		return domain.ErrInvalidTrackerKind
	}
	return nil
}

func (s *ScheduleService) syncLinkedGoal(ctx context.Context, block *domain.TimeBlock, userID string) error {
	goal, err := s.trackerRepo.GetByID(ctx, block.LinkedGoalID)
	if err != nil {
		if errors.Is(err, domain.ErrTrackerNotFound) {
			return nil
		}
		return err
	}

	records, err := s.recordRepo.ListByTrackerID(ctx, goal.ID)
	if err != nil {
		return err
	}

	synced, ok, err := analytics.SyncBlockEntry(block, goal, domain.BuildEntryMap(records), s.weekStart, time.Now())
	if err != nil || !ok {
		return err
	}

	record := domain.NewTrackerRecord(goal.ID, userID, synced.Day)
	record.ID = uuid.NewString()
	record.Value = synced.Entry.Value
	record.Notes = synced.Entry.Notes

	if err := s.recordRepo.Upsert(ctx, record); err != nil {
		return err
	}

	s.worker.Enqueue(goal.ID)

	return nil
}
