package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

type PostgresTimeBlockRepository struct {
	db *sqlx.DB
}

func NewPostgresTimeBlockRepository(db *sqlx.DB) *PostgresTimeBlockRepository {
	return &PostgresTimeBlockRepository{db: db}
}

func (r *PostgresTimeBlockRepository) scanRow(row scannable) (*domain.TimeBlock, error) {
	var b domain.TimeBlock
	err := row.Scan(
		&b.ID, &b.UserID, &b.Weekday, &b.StartTime, &b.EndTime,
		&b.TaskName, &b.Color, &b.Priority, &b.Completed, &b.LinkedGoalID,
		&b.Version, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PostgresTimeBlockRepository) Create(ctx context.Context, b *domain.TimeBlock) error {
	query := `
		INSERT INTO time_blocks (
			id, user_id, weekday, start_time, end_time,
			task_name, color, priority, completed, linked_goal_id,
			version, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			1, $11, $12
		)`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.UserID, b.Weekday, b.StartTime, b.EndTime,
		b.TaskName, b.Color, b.Priority, b.Completed, b.LinkedGoalID,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert time block: %w", err)
	}

	b.Version = 1
	return nil
}

func (r *PostgresTimeBlockRepository) GetByID(ctx context.Context, id string) (*domain.TimeBlock, error) {
	query := `SELECT * FROM time_blocks WHERE id = $1`

	b, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTimeBlockNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return b, nil
}

func (r *PostgresTimeBlockRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.TimeBlock, error) {
	query := `
		SELECT * FROM time_blocks
		WHERE user_id = $1
		ORDER BY weekday ASC, start_time ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var blocks []*domain.TimeBlock
	for rows.Next() {
		b, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		blocks = append(blocks, b)
	}

	return blocks, nil
}

func (r *PostgresTimeBlockRepository) Update(ctx context.Context, b *domain.TimeBlock) error {
	// The caller already bumped b.Version; match against the previous one.
	query := `
		UPDATE time_blocks SET
			weekday=$1, start_time=$2, end_time=$3,
			task_name=$4, color=$5, priority=$6,
			completed=$7, linked_goal_id=$8,
			version=$9, updated_at=NOW()
		WHERE id=$10 AND version=$11`

	res, err := r.db.ExecContext(ctx, query,
		b.Weekday, b.StartTime, b.EndTime,
		b.TaskName, b.Color, b.Priority,
		b.Completed, b.LinkedGoalID,
		b.Version, b.ID, b.Version-1,
	)
	if err != nil {
		return fmt.Errorf("update query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTimeBlockNotFound
	}

	return nil
}

func (r *PostgresTimeBlockRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM time_blocks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTimeBlockNotFound
	}

	return nil
}
