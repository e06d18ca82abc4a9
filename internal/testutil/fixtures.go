package testutil

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/kvist-io/settingstore/internal/db"
	"github.com/kvist-io/settingstore/internal/models"
)

// CreateTestSetting inserts a setting with the given payload and returns it.
// Inserts directly rather than through the repository so repository tests can
// use it without an import cycle.
func CreateTestSetting(t *testing.T, database *db.DB, payload string) *models.Setting {
	t.Helper()

	setting := models.Setting{
		ID:   uuid.New(),
		Data: json.RawMessage(payload),
	}

	row := database.QueryRowContext(context.Background(),
		`INSERT INTO settings (id, data) VALUES ($1, $2) RETURNING created_at, updated_at`,
		setting.ID, []byte(payload))
	if err := row.Scan(&setting.CreatedAt, &setting.UpdatedAt); err != nil {
		t.Fatalf("Failed to create test setting: %v", err)
	}

	return &setting
}
