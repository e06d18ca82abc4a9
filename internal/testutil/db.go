package testutil

import (
	"database/sql"
	"os"
	"testing"

	"github.com/kvist-io/settingstore/internal/db"
	_ "github.com/lib/pq"
)

// SetupTestDB connects to the test database named by TEST_DATABASE_URL and
// registers cleanup that truncates the settings table. Tests that call it are
// skipped when no test database is configured, so the DB-less suites still
// run everywhere.
func SetupTestDB(t *testing.T) *db.DB {
	t.Helper()

	testDBURL := os.Getenv("TEST_DATABASE_URL")
	if testDBURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	rawDB, err := sql.Open("postgres", testDBURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	testDB := db.NewDB(rawDB)

	if err := testDB.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	t.Cleanup(func() {
		if _, err := testDB.Exec("TRUNCATE TABLE settings"); err != nil {
			t.Logf("Warning: Failed to truncate settings: %v", err)
		}
		testDB.Close()
	})

	return testDB
}
