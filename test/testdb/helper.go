package testdb

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/selivandex/pulsebrief/internal/adapters/database"
)

// Tables truncated between tests
var Tables = []string{"daily_briefs", "market_pulse_updates", "scheduler_runs"}

// TestDB wraps a migrated test database
type TestDB struct {
	DB *database.DB
}

// Setup connects to TEST_DATABASE_URL, applies migrations and empties the
// content tables. Tests are skipped when the variable is unset.
func Setup(t *testing.T) *TestDB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}

	conn, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	db := database.Wrap(conn)
	if err := database.RunMigrations(db.Conn(), MigrationsPath()); err != nil {
		_ = db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	testDB := &TestDB{DB: db}
	testDB.Truncate(t)

	t.Cleanup(func() {
		testDB.Teardown(t)
	})

	return testDB
}

// MigrationsPath returns the repository migrations directory
func MigrationsPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// Truncate removes all rows from content tables
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()

	for _, table := range Tables {
		if _, err := tdb.DB.DB().ExecContext(context.Background(), "TRUNCATE "+table+" RESTART IDENTITY"); err != nil {
			t.Fatalf("failed to truncate %s: %v", table, err)
		}
	}
}

// Teardown empties tables and closes connection
func (tdb *TestDB) Teardown(t *testing.T) {
	t.Helper()

	if tdb.DB == nil {
		return
	}

	tdb.Truncate(t)
	if err := tdb.DB.Close(); err != nil {
		t.Logf("warning: failed to close database: %v", err)
	}
}

// Exec executes SQL against the test database
func (tdb *TestDB) Exec(t *testing.T, query string, args ...interface{}) {
	t.Helper()

	if _, err := tdb.DB.DB().Exec(query, args...); err != nil {
		t.Fatalf("failed to execute query: %v\nQuery: %s", err, query)
	}
}

// AssertCount checks row count of table
func (tdb *TestDB) AssertCount(t *testing.T, table string, expected int) {
	t.Helper()

	var count int
	if err := tdb.DB.DB().Get(&count, "SELECT COUNT(*) FROM "+table); err != nil {
		t.Fatalf("failed to count %s: %v", table, err)
	}

	if count != expected {
		t.Errorf("expected %d rows in %s, got %d", expected, table, count)
	}
}
