package services

import (
	"context"
	"fmt"
	"time"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

type TrackerService struct {
	repo domain.TrackerRepository
}

func NewTrackerService(repo domain.TrackerRepository) *TrackerService {
	return &TrackerService{
		repo: repo,
	}
}

type CreateTrackerInput struct {
	UserID       string
	Kind         string
	Name         string
	Color        string
	Icon         string
	Unit         string
	TargetAmount float64
	Subtasks     []domain.Subtask
	Milestones   []domain.Milestone
}

type UpdateTrackerInput struct {
	ID           string
	UserID       string
	Name         string
	Color        string
	Icon         string
	Unit         string
	TargetAmount float64
	Subtasks     []domain.Subtask
	Milestones   []domain.Milestone
	Version      int
}

func (s *TrackerService) Create(ctx context.Context, input CreateTrackerInput) (*domain.Tracker, error) {
	tracker, err := domain.NewTracker(
		input.UserID,
		input.Kind,
		input.Name,
		input.Color,
		input.Icon,
		input.Unit,
		input.TargetAmount,
		input.Subtasks,
		input.Milestones,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, tracker); err != nil {
		return nil, err
	}

	return tracker, nil
}

func (s *TrackerService) GetByID(ctx context.Context, id, userID string) (*domain.Tracker, error) {
	tracker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tracker.UserID != userID {
		return nil, domain.ErrTrackerNotFound
	}
	return tracker, nil
}

func (s *TrackerService) ListByUserID(ctx context.Context, userID string) ([]*domain.Tracker, error) {
	return s.repo.ListByUserID(ctx, userID)
}

func (s *TrackerService) ListByKind(ctx context.Context, userID, kind string) ([]*domain.Tracker, error) {
	return s.repo.ListByUserIDAndKind(ctx, userID, kind)
}

func (s *TrackerService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Tracker, error) {
	return s.repo.GetChanges(ctx, userID, lastSync)
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *TrackerService) Update(ctx context.Context, input UpdateTrackerInput) error {
	tracker, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return err
	}

	if tracker.UserID != input.UserID {
		return domain.ErrTrackerNotFound
	}

	if input.Version > 0 && tracker.Version != input.Version {
		return fmt.Errorf("%w: client v%d vs server v%d", domain.ErrTrackerConflict, input.Version, tracker.Version)
	}

	name := mergeString(input.Name, tracker.Name)
	color := mergeString(input.Color, tracker.Color)
	icon := mergeString(input.Icon, tracker.Icon)
	unit := mergeString(input.Unit, tracker.Unit)

	target := tracker.TargetAmount
	if input.TargetAmount != 0 {
		target = input.TargetAmount
	}

	subtasks := tracker.Subtasks
	if input.Subtasks != nil {
		subtasks = input.Subtasks
	}

	milestones := tracker.Milestones
	if input.Milestones != nil {
		milestones = input.Milestones
	}

	if err := tracker.Update(name, color, icon, unit, target, subtasks, milestones); err != nil {
		return err
	}
	tracker.Version++

	return s.repo.Update(ctx, tracker)
}

func (s *TrackerService) Delete(ctx context.Context, id string, userID string) error {
	tracker, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if tracker.UserID != userID {
		return domain.ErrTrackerNotFound
	}

	return s.repo.Delete(ctx, id)
}
