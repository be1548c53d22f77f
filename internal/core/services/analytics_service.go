package services

import (
	"context"

	"github.com/zron-max/momentum-gird/internal/core/analytics"
	"github.com/zron-max/momentum-gird/internal/core/domain"
)

type AnalyticsService struct {
	trackerRepo domain.TrackerRepository
	recordRepo  domain.TrackerRecordRepository
	rules       []analytics.Rule
}

func NewAnalyticsService(trackerRepo domain.TrackerRepository, recordRepo domain.TrackerRecordRepository) *AnalyticsService {
	return &AnalyticsService{
		trackerRepo: trackerRepo,
		recordRepo:  recordRepo,
		rules:       analytics.DefaultRules(),
	}
}

// Overview runs one full analytics pass for a user: every active tracker and
// every record is fetched up front, reduced to the engine's day-keyed maps,
// and handed to the pure computation layer. Window of 0 means the default.
func (s *AnalyticsService) Overview(ctx context.Context, userID string, window int) (*domain.Overview, error) {
	trackers, err := s.trackerRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	records, err := s.recordRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	byTracker := make(map[string][]*domain.TrackerRecord)
	for _, r := range records {
		byTracker[r.TrackerID] = append(byTracker[r.TrackerID], r)
	}

	today := domain.Today()
	snap := buildSnapshot(trackers, byTracker)

	if window <= 0 {
		window = analytics.DefaultWindowDays
	}

	aggregates, tally := analytics.Report(snap, today, window)
	achievements := analytics.DeriveAchievements(aggregates, s.rules)

	streaks := make([]domain.TrackerStreak, 0, len(trackers))
	for _, t := range trackers {
		if t.Kind == domain.KindProject {
			continue
		}
		result := analytics.Streaks(analytics.CompletionMapFor(t, byTracker[t.ID]), today)
		streaks = append(streaks, domain.TrackerStreak{
			TrackerID: t.ID,
			Name:      t.Name,
			Kind:      t.Kind,
			Streak:    result,
		})
	}

	return &domain.Overview{
		WindowDays:    window,
		Today:         today,
		Categories:    aggregates,
		Achievements:  achievements,
		MealBreakdown: tally,
		Streaks:       streaks,
	}, nil
}

// TrackerStreak recomputes one tracker's streaks on demand, bypassing the
// denormalized counters the worker maintains.
func (s *AnalyticsService) TrackerStreak(ctx context.Context, trackerID, userID string) (*domain.TrackerStreak, error) {
	tracker, err := s.trackerRepo.GetByID(ctx, trackerID)
	if err != nil {
		return nil, err
	}
	if tracker.UserID != userID {
		return nil, domain.ErrTrackerNotFound
	}

	records, err := s.recordRepo.ListByTrackerID(ctx, trackerID)
	if err != nil {
		return nil, err
	}

	result := analytics.Streaks(analytics.CompletionMapFor(tracker, records), domain.Today())

	return &domain.TrackerStreak{
		TrackerID: tracker.ID,
		Name:      tracker.Name,
		Kind:      tracker.Kind,
		Streak:    result,
	}, nil
}

// GoalProgress reports one learning goal's cumulative total against its
// target amount.
func (s *AnalyticsService) GoalProgress(ctx context.Context, trackerID, userID string) (*domain.GoalProgress, error) {
	tracker, err := s.trackerRepo.GetByID(ctx, trackerID)
	if err != nil {
		return nil, err
	}
	if tracker.UserID != userID {
		return nil, domain.ErrTrackerNotFound
	}
	if tracker.Kind != domain.KindLearning {
		return nil, domain.ErrInvalidTrackerKind
	}

	records, err := s.recordRepo.ListByTrackerID(ctx, trackerID)
	if err != nil {
		return nil, err
	}

	progress, err := analytics.GoalProgress(domain.BuildEntryMap(records), tracker.TargetAmount)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func buildSnapshot(trackers []*domain.Tracker, byTracker map[string][]*domain.TrackerRecord) analytics.Snapshot {
	var snap analytics.Snapshot

	for _, t := range trackers {
		records := byTracker[t.ID]
		switch t.Kind {
		case domain.KindHabit:
			snap.Habits = append(snap.Habits, analytics.HabitItem{
				ID:          t.ID,
				Completions: domain.BuildCompletionMap(records),
			})
		case domain.KindRoutine:
			snap.Routines = append(snap.Routines, analytics.RoutineItem{
				ID:         t.ID,
				SubtaskIDs: t.SubtaskIDs(),
				Parts:      domain.BuildPartsMap(records),
			})
		case domain.KindLearning:
			snap.Goals = append(snap.Goals, analytics.GoalItem{
				ID:      t.ID,
				Target:  t.TargetAmount,
				Entries: domain.BuildEntryMap(records),
			})
		case domain.KindProject:
			snap.Projects = append(snap.Projects, analytics.ProjectItem{
				ID:         t.ID,
				Milestones: t.Milestones,
			})
		case domain.KindMeal:
			snap.Meals = append(snap.Meals, analytics.MealItem{
				ID:   t.ID,
				Logs: domain.BuildMealLogMap(records),
			})
		}
	}

	return snap
}
