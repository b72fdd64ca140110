package metrics

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/selivandex/pulsebrief/pkg/metrics"
)

type fakeRepository struct {
	table string
	rows  [][]interface{}
	err   error
}

func (r *fakeRepository) InsertBatch(ctx context.Context, tableName string, values [][]interface{}) error {
	r.table = tableName
	r.rows = append(r.rows, values...)
	return r.err
}

func (r *fakeRepository) Close() error { return nil }

func TestBuildInsert(t *testing.T) {
	values := [][]interface{}{{1, "a"}, {2, "b"}}

	query, args, err := buildInsert("scheduler_runs", values, func(n int) string { return "$" + strconv.Itoa(n) })
	if err != nil {
		t.Fatalf("buildInsert() error = %v", err)
	}
	if want := "INSERT INTO scheduler_runs VALUES ($1, $2), ($3, $4)"; query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(args) != 4 || args[2] != 2 {
		t.Errorf("args = %v", args)
	}

	query, _, _ = buildInsert("scheduler_runs", values, func(int) string { return "?" })
	if want := "INSERT INTO scheduler_runs VALUES (?, ?), (?, ?)"; query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
}

func TestBuildInsert_Errors(t *testing.T) {
	mark := func(int) string { return "?" }

	if q, _, err := buildInsert("t", nil, mark); q != "" || err != nil {
		t.Errorf("empty batch = %q, %v", q, err)
	}
	if _, _, err := buildInsert("t", [][]interface{}{{}}, mark); err == nil {
		t.Error("expected error for rows without columns")
	}
	if _, _, err := buildInsert("t", [][]interface{}{{1, 2}, {1}}, mark); err == nil {
		t.Error("expected error for ragged rows")
	}
}

func TestWriter_Write(t *testing.T) {
	repo := &fakeRepository{}
	w := NewWriter(repo)

	run := &metrics.SchedulerRun{Timestamp: time.Now(), Worker: "daily_brief", Outcome: "created", DurationMs: 12}
	if err := w.Write(context.Background(), run.TableName(), []metrics.Metric{run}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if repo.table != metrics.SchedulerRunsTable || len(repo.rows) != 1 || len(repo.rows[0]) != 5 {
		t.Errorf("inserted %s %v", repo.table, repo.rows)
	}

	repo.err = errors.New("connection refused")
	if err := w.Write(context.Background(), run.TableName(), []metrics.Metric{run}); err == nil {
		t.Error("expected repository error")
	}
}

func TestWriter_RejectsForeignTable(t *testing.T) {
	repo := &fakeRepository{}
	w := NewWriter(repo)

	run := &metrics.SchedulerRun{Timestamp: time.Now(), Worker: "market_pulse", Outcome: "created"}
	if err := w.Write(context.Background(), "other_table", []metrics.Metric{run}); err == nil {
		t.Fatal("expected error for row from another table")
	}
	if len(repo.rows) != 0 {
		t.Errorf("rows inserted despite mismatch: %v", repo.rows)
	}
}
