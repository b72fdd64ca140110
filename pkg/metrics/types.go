package metrics

import "time"

// SchedulerRunsTable stores one row per scheduler check
const SchedulerRunsTable = "scheduler_runs"

// SchedulerRun records the outcome of one scheduler check
type SchedulerRun struct {
	Timestamp  time.Time
	Worker     string
	Outcome    string
	DurationMs int64
	Error      string
}

func (m *SchedulerRun) TableName() string {
	return SchedulerRunsTable
}

// Values follows the column order (timestamp, worker, outcome, duration_ms, error)
func (m *SchedulerRun) Values() []interface{} {
	return []interface{}{
		m.Timestamp,
		m.Worker,
		m.Outcome,
		m.DurationMs,
		m.Error,
	}
}
