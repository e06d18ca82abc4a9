package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/kvist-io/settingstore/internal/db"
	"github.com/kvist-io/settingstore/internal/models"
	"github.com/kvist-io/settingstore/internal/pagination"
	"github.com/kvist-io/settingstore/pkg/debug"
)

// SettingRepository handles database operations for settings.
type SettingRepository struct {
	db *db.DB
}

// NewSettingRepository creates a new instance of SettingRepository.
func NewSettingRepository(database *db.DB) *SettingRepository {
	return &SettingRepository{db: database}
}

// Create inserts a new setting with a freshly generated identifier. The
// timestamps come back from the database defaults.
func (r *SettingRepository) Create(ctx context.Context, data json.RawMessage) (*models.Setting, error) {
	query := `
		INSERT INTO settings (id, data)
		VALUES ($1, $2)
		RETURNING created_at, updated_at
	`

	setting := models.Setting{
		ID:   uuid.New(),
		Data: data,
	}

	row := r.db.QueryRowContext(ctx, query, setting.ID, []byte(data))
	if err := row.Scan(&setting.CreatedAt, &setting.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create setting: %w", err)
	}

	return &setting, nil
}

// GetByID retrieves a setting by its identifier.
func (r *SettingRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Setting, error) {
	query := `
		SELECT id, data, created_at, updated_at
		FROM settings
		WHERE id = $1
	`

	var setting models.Setting
	var data []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&setting.ID,
		&data,
		&setting.CreatedAt,
		&setting.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("setting %s not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get setting %s: %w", id, err)
	}
	setting.Data = json.RawMessage(data)

	return &setting, nil
}

// Replace overwrites the payload of an existing setting. The identifier and
// created_at are untouched; updated_at advances to the statement time.
func (r *SettingRepository) Replace(ctx context.Context, id uuid.UUID, data json.RawMessage) (*models.Setting, error) {
	query := `
		UPDATE settings
		SET data = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING created_at, updated_at
	`

	setting := models.Setting{
		ID:   id,
		Data: data,
	}

	row := r.db.QueryRowContext(ctx, query, []byte(data), id)
	if err := row.Scan(&setting.CreatedAt, &setting.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("setting %s not found for replace: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to replace setting %s: %w", id, err)
	}

	return &setting, nil
}

// Delete removes a setting. It is idempotent: deleting an identifier that
// does not exist is not an error. The returned bool reports whether a row was
// actually removed.
func (r *SettingRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `DELETE FROM settings WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete setting %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		debug.Warning("Could not get rows affected after deleting setting %s: %v", id, err)
		return false, nil
	}

	return rowsAffected > 0, nil
}

// List retrieves a page of settings ordered by creation time descending,
// along with the total count. The count and data queries run back to back
// without a shared snapshot, so a concurrent write may skew the total by one
// relative to the returned page.
func (r *SettingRepository) List(ctx context.Context, params pagination.Params) ([]models.Setting, int, error) {
	countQuery := `SELECT COUNT(id) FROM settings`

	var totalCount int
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count settings: %w", err)
	}

	if totalCount == 0 {
		return []models.Setting{}, 0, nil
	}

	query := `
		SELECT id, data, created_at, updated_at
		FROM settings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := []models.Setting{}
	for rows.Next() {
		var setting models.Setting
		var data []byte
		if err := rows.Scan(
			&setting.ID,
			&data,
			&setting.CreatedAt,
			&setting.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan setting row: %w", err)
		}
		setting.Data = json.RawMessage(data)
		settings = append(settings, setting)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating setting rows: %w", err)
	}

	debug.Debug("Listed %d settings (total %d, limit %d, offset %d)",
		len(settings), totalCount, params.Limit, params.Offset)

	return settings, totalCount, nil
}
