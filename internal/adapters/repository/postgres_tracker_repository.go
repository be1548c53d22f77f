package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/zron-max/momentum-gird/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresTrackerRepository struct {
	db *sqlx.DB
}

func NewPostgresTrackerRepository(db *sqlx.DB) *PostgresTrackerRepository {
	return &PostgresTrackerRepository{db: db}
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresTrackerRepository) scanRow(row scannable) (*domain.Tracker, error) {
	var t domain.Tracker
	var subtasksJSON, milestonesJSON []byte

	err := row.Scan(
		&t.ID, &t.UserID, &t.Kind, &t.Name, &t.Color, &t.Icon,
		&subtasksJSON, &t.TargetAmount, &t.Unit, &milestonesJSON,
		&t.CurrentStreak, &t.LongestStreak,
		&t.ArchivedAt, &t.Version, &t.DeletedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(subtasksJSON) > 0 {
		if err := json.Unmarshal(subtasksJSON, &t.Subtasks); err != nil {
			return nil, fmt.Errorf("failed to unmarshal subtasks: %w", err)
		}
	}
	if len(milestonesJSON) > 0 {
		if err := json.Unmarshal(milestonesJSON, &t.Milestones); err != nil {
			return nil, fmt.Errorf("failed to unmarshal milestones: %w", err)
		}
	}

	return &t, nil
}

func marshalTrackerFields(t *domain.Tracker) ([]byte, []byte, error) {
	subtasksJSON, err := json.Marshal(t.Subtasks)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal subtasks: %w", err)
	}
	milestonesJSON, err := json.Marshal(t.Milestones)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal milestones: %w", err)
	}
	return subtasksJSON, milestonesJSON, nil
}

func (r *PostgresTrackerRepository) Create(ctx context.Context, t *domain.Tracker) error {
	subtasksJSON, milestonesJSON, err := marshalTrackerFields(t)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO trackers (
            id, user_id, kind, name, color, icon,
            subtasks, target_amount, unit, milestones,
            current_streak, longest_streak,
            archived_at, version, deleted_at, created_at, updated_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6,
            $7, $8, $9, $10,
            0, 0,
            $11, 1, NULL, $12, $13
        )`

	_, err = r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Kind, t.Name, t.Color, t.Icon,
		subtasksJSON, t.TargetAmount, t.Unit, milestonesJSON,
		t.ArchivedAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tracker: %w", err)
	}

	t.Version = 1
	return nil
}

func (r *PostgresTrackerRepository) GetByID(ctx context.Context, id string) (*domain.Tracker, error) {
	query := `SELECT * FROM trackers WHERE id = $1 AND deleted_at IS NULL`

	row := r.db.QueryRowContext(ctx, query, id)

	t, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTrackerNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return t, nil
}

func (r *PostgresTrackerRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Tracker, error) {
	query := `
        SELECT * FROM trackers
        WHERE user_id = $1 AND deleted_at IS NULL
        ORDER BY created_at ASC`

	return r.list(ctx, query, userID)
}

func (r *PostgresTrackerRepository) ListByUserIDAndKind(ctx context.Context, userID, kind string) ([]*domain.Tracker, error) {
	query := `
        SELECT * FROM trackers
        WHERE user_id = $1 AND kind = $2 AND deleted_at IS NULL
        ORDER BY created_at ASC`

	return r.list(ctx, query, userID, kind)
}

func (r *PostgresTrackerRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Tracker, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var trackers []*domain.Tracker
	for rows.Next() {
		t, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		trackers = append(trackers, t)
	}

	return trackers, nil
}

func (r *PostgresTrackerRepository) Update(ctx context.Context, t *domain.Tracker) error {
	subtasksJSON, milestonesJSON, err := marshalTrackerFields(t)
	if err != nil {
		return err
	}

	// The caller already bumped t.Version; match against the previous one.
	query := `
        UPDATE trackers SET
            name=$1, color=$2, icon=$3,
            subtasks=$4, target_amount=$5, unit=$6, milestones=$7,
            archived_at=$8,
            updated_at=NOW(), version=$9
        WHERE id=$10 AND version=$11 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		t.Name, t.Color, t.Icon,
		subtasksJSON, t.TargetAmount, t.Unit, milestonesJSON,
		t.ArchivedAt,
		t.Version, t.ID, t.Version-1,
	)

	var newVersion int
	var newUpdatedAt time.Time

	if err := row.Scan(&newVersion, &newUpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var count int
			if checkErr := r.db.QueryRowContext(ctx, `SELECT count(*) FROM trackers WHERE id = $1`, t.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}
			if count == 0 {
				return domain.ErrTrackerNotFound
			}
			return domain.ErrTrackerConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	t.Version = newVersion
	t.UpdatedAt = newUpdatedAt

	return nil
}

func (r *PostgresTrackerRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE trackers
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTrackerNotFound
	}

	return nil
}

func (r *PostgresTrackerRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Tracker, error) {
	query := `
        SELECT * FROM trackers
        WHERE user_id = $1 AND updated_at > $2
        ORDER BY updated_at ASC`

	return r.list(ctx, query, userID, since)
}

// UpdateStreaks leaves the version alone so worker writes never collide with
// client edits under optimistic locking.
func (r *PostgresTrackerRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	query := `
        UPDATE trackers
        SET current_streak = $1, longest_streak = $2, updated_at = NOW()
        WHERE id = $3 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, current, longest, id)
	if err != nil {
		return fmt.Errorf("streak update failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTrackerNotFound
	}

	return nil
}
