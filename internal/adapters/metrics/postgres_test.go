package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/selivandex/pulsebrief/pkg/metrics"
	"github.com/selivandex/pulsebrief/test/testdb"
)

func TestPostgresRepository_InsertBatch(t *testing.T) {
	tdb := testdb.Setup(t)

	w := NewWriter(NewPostgresRepository(tdb.DB.DB()))
	now := time.Now().UTC()
	batch := []metrics.Metric{
		&metrics.SchedulerRun{Timestamp: now, Worker: "daily_brief", Outcome: "created", DurationMs: 4},
		&metrics.SchedulerRun{Timestamp: now, Worker: "market_pulse", Outcome: "failed", DurationMs: 9, Error: "connection refused"},
	}

	if err := w.Write(context.Background(), metrics.SchedulerRunsTable, batch); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	tdb.AssertCount(t, metrics.SchedulerRunsTable, 2)
}
