package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/zron-max/momentum-gird/internal/core/domain"
)

type PostgresRecordRepository struct {
	db *sqlx.DB
}

func NewPostgresRecordRepository(db *sqlx.DB) *PostgresRecordRepository {
	return &PostgresRecordRepository{db: db}
}

func (r *PostgresRecordRepository) scanRow(row scannable) (*domain.TrackerRecord, error) {
	var rec domain.TrackerRecord
	var partsJSON, slotsJSON []byte

	err := row.Scan(
		&rec.ID, &rec.TrackerID, &rec.UserID,
		&rec.Day, &rec.Completed, &rec.Value, &rec.Notes,
		&partsJSON, &slotsJSON,
		&rec.Version, &rec.DeletedAt, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(partsJSON) > 0 {
		if err := json.Unmarshal(partsJSON, &rec.Parts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal parts: %w", err)
		}
	}
	if len(slotsJSON) > 0 {
		if err := json.Unmarshal(slotsJSON, &rec.SlotCategories); err != nil {
			return nil, fmt.Errorf("failed to unmarshal slot categories: %w", err)
		}
	}

	return &rec, nil
}

func marshalRecordFields(rec *domain.TrackerRecord) ([]byte, []byte, error) {
	partsJSON, err := json.Marshal(rec.Parts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal parts: %w", err)
	}
	slotsJSON, err := json.Marshal(rec.SlotCategories)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal slot categories: %w", err)
	}
	return partsJSON, slotsJSON, nil
}

func (r *PostgresRecordRepository) Create(ctx context.Context, rec *domain.TrackerRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	partsJSON, slotsJSON, err := marshalRecordFields(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tracker_records (
			id, tracker_id, user_id,
			day, completed, value, notes,
			parts, slot_categories,
			version, deleted_at, created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9,
			$10, NULL, $11, $12
		)`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.TrackerID, rec.UserID,
		rec.Day, rec.Completed, rec.Value, rec.Notes,
		partsJSON, slotsJSON,
		rec.Version, rec.CreatedAt, rec.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code == "23503" {
				return errors.New("referenced tracker or user does not exist")
			}
			if pqErr.Code == "23505" {
				return domain.ErrRecordConflict
			}
		}
		return err
	}
	return nil
}

// Upsert keys on (tracker_id, day): logging the same day again replaces the
// mutable fields and revives a soft-deleted row instead of inserting a twin.
func (r *PostgresRecordRepository) Upsert(ctx context.Context, rec *domain.TrackerRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	partsJSON, slotsJSON, err := marshalRecordFields(rec)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tracker_records (
			id, tracker_id, user_id,
			day, completed, value, notes,
			parts, slot_categories,
			version, deleted_at, created_at, updated_at
		) VALUES (
			$1, $2, $3,
			$4, $5, $6, $7,
			$8, $9,
			1, NULL, $10, $11
		)
		ON CONFLICT (tracker_id, day) DO UPDATE SET
			completed = EXCLUDED.completed,
			value = EXCLUDED.value,
			notes = EXCLUDED.notes,
			parts = EXCLUDED.parts,
			slot_categories = EXCLUDED.slot_categories,
			version = tracker_records.version + 1,
			deleted_at = NULL,
			updated_at = NOW()
		RETURNING id, version, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.TrackerID, rec.UserID,
		rec.Day, rec.Completed, rec.Value, rec.Notes,
		partsJSON, slotsJSON,
		rec.CreatedAt, rec.UpdatedAt,
	)

	if err := row.Scan(&rec.ID, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return errors.New("referenced tracker or user does not exist")
		}
		return fmt.Errorf("upsert failed: %w", err)
	}
	return nil
}

func (r *PostgresRecordRepository) Update(ctx context.Context, rec *domain.TrackerRecord) error {
	partsJSON, slotsJSON, err := marshalRecordFields(rec)
	if err != nil {
		return err
	}

	// The caller already bumped rec.Version; match against the previous one.
	query := `
		UPDATE tracker_records
		SET completed = $1,
		    value = $2,
		    notes = $3,
		    parts = $4,
		    slot_categories = $5,
		    version = $6,
		    updated_at = $7
		WHERE id = $8
		  AND version = $9
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query,
		rec.Completed, rec.Value, rec.Notes,
		partsJSON, slotsJSON,
		rec.Version, rec.UpdatedAt,
		rec.ID, rec.Version-1,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		exists, _ := r.exists(ctx, rec.ID)
		if !exists {
			return domain.ErrRecordNotFound
		}
		return domain.ErrRecordConflict
	}

	return nil
}

func (r *PostgresRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	now := time.Now().UTC()

	query := `
		UPDATE tracker_records
		SET deleted_at = $1,
		    updated_at = $1,
		    version = version + 1
		WHERE id = $2
		  AND user_id = $3
		  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (r *PostgresRecordRepository) GetByID(ctx context.Context, id string) (*domain.TrackerRecord, error) {
	query := `SELECT * FROM tracker_records WHERE id = $1 AND deleted_at IS NULL`

	rec, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (r *PostgresRecordRepository) ListByTrackerID(ctx context.Context, trackerID string) ([]*domain.TrackerRecord, error) {
	query := `
		SELECT * FROM tracker_records
		WHERE tracker_id = $1 AND deleted_at IS NULL
		ORDER BY day ASC`

	return r.list(ctx, query, trackerID)
}

func (r *PostgresRecordRepository) ListByTrackerIDAndDayRange(ctx context.Context, trackerID string, from, to domain.DayKey) ([]*domain.TrackerRecord, error) {
	query := `
		SELECT * FROM tracker_records
		WHERE tracker_id = $1
		  AND day >= $2
		  AND day <= $3
		  AND deleted_at IS NULL
		ORDER BY day ASC`

	return r.list(ctx, query, trackerID, from, to)
}

func (r *PostgresRecordRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.TrackerRecord, error) {
	query := `
		SELECT * FROM tracker_records
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY day ASC`

	return r.list(ctx, query, userID)
}

func (r *PostgresRecordRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.TrackerRecord, error) {
	query := `
		SELECT * FROM tracker_records
		WHERE user_id = $1
		  AND updated_at > $2
		ORDER BY updated_at ASC`

	return r.list(ctx, query, userID, since)
}

func (r *PostgresRecordRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.TrackerRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var records []*domain.TrackerRecord
	for rows.Next() {
		rec, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func (r *PostgresRecordRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM tracker_records WHERE id = $1", id)
	return count > 0, err
}
