package workers

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/selivandex/pulsebrief/pkg/logger"
)

// DailySchedule fires a callback on a cron spec evaluated in the session
// time zone. It re-activates the brief worker at local midnight so a new day
// does not wait for the next periodic tick.
type DailySchedule struct {
	cron  *cron.Cron
	spec  string
	fire  func()
	entry cron.EntryID
	loc   *time.Location
	mu    sync.Mutex
}

// NewDailySchedule creates stopped schedule for a standard five-field spec
func NewDailySchedule(spec string, fire func()) *DailySchedule {
	return &DailySchedule{
		cron: cron.New(),
		spec: spec,
		fire: fire,
	}
}

// Reschedule replaces the cron entry so that spec is evaluated in loc
func (d *DailySchedule) Reschedule(loc *time.Location) error {
	if loc == nil {
		loc = time.Local
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.entry != 0 && d.loc != nil && d.loc.String() == loc.String() {
		return nil
	}

	id, err := d.cron.AddFunc(fmt.Sprintf("CRON_TZ=%s %s", loc, d.spec), d.fire)
	if err != nil {
		return fmt.Errorf("failed to add daily schedule %q: %w", d.spec, err)
	}

	if d.entry != 0 {
		d.cron.Remove(d.entry)
	}
	d.entry = id
	d.loc = loc

	logger.Info("daily schedule set",
		zap.String("spec", d.spec),
		zap.String("time_zone", loc.String()),
	)
	return nil
}

// Next returns the next firing time after t, or zero before Reschedule
func (d *DailySchedule) Next(t time.Time) time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.entry == 0 {
		return time.Time{}
	}
	return d.cron.Entry(d.entry).Schedule.Next(t)
}

// Start runs the schedule in its own goroutine
func (d *DailySchedule) Start() {
	d.cron.Start()
}

// Stop halts the schedule and waits for a running callback
func (d *DailySchedule) Stop() {
	<-d.cron.Stop().Done()
}
