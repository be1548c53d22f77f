package workers

import (
	"context"
	"log"

	"github.com/zron-max/momentum-gird/internal/core/analytics"
	"github.com/zron-max/momentum-gird/internal/core/domain"
)

type TrackerRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Tracker, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type RecordRepository interface {
	ListByTrackerID(ctx context.Context, trackerID string) ([]*domain.TrackerRecord, error)
}

type StreakJob struct {
	TrackerID string
}

// StreakWorker recomputes a tracker's denormalized streak counters whenever
// one of its day records changes. Streaks are derived data; keeping them on
// the tracker row lets list views render without pulling record history.
type StreakWorker struct {
	trackerRepo TrackerRepository
	recordRepo  RecordRepository
	jobs        chan StreakJob
}

func NewStreakWorker(tRepo TrackerRepository, rRepo RecordRepository) *StreakWorker {
	return &StreakWorker{
		trackerRepo: tRepo,
		recordRepo:  rRepo,
		jobs:        make(chan StreakJob, 100),
	}
}

func (w *StreakWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Streak Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Streak Worker shutting down...")
				return
			}
		}
	}()
}

func (w *StreakWorker) Enqueue(trackerID string) {
	select {
	case w.jobs <- StreakJob{TrackerID: trackerID}:
	default:
		log.Printf("Streak Worker queue full! Dropping job for tracker %s", trackerID)
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	tracker, err := w.trackerRepo.GetByID(ctx, job.TrackerID)
	if err != nil {
		log.Printf("Worker Error fetching tracker %s: %v", job.TrackerID, err)
		return
	}

	if tracker.Kind == domain.KindProject {
		// Projects advance by milestones, not consecutive days.
		return
	}

	records, err := w.recordRepo.ListByTrackerID(ctx, job.TrackerID)
	if err != nil {
		log.Printf("Worker Error fetching records for %s: %v", job.TrackerID, err)
		return
	}

	completions := analytics.CompletionMapFor(tracker, records)
	result := analytics.Streaks(completions, domain.Today())

	if tracker.CurrentStreak != result.Current || tracker.LongestStreak != result.Longest {
		if err := w.trackerRepo.UpdateStreaks(ctx, tracker.ID, result.Current, result.Longest); err != nil {
			log.Printf("Worker Failed to update streak for %s: %v", tracker.ID, err)
		} else {
			log.Printf("Streak updated for %s: Current=%d, Longest=%d", tracker.Name, result.Current, result.Longest)
		}
	}
}
