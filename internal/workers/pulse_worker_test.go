package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/selivandex/pulsebrief/internal/pulse"
	"github.com/selivandex/pulsebrief/pkg/metrics"
)

var pulseStart = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPulseWorker(repo pulse.Repository, clock *testClock, publishers ...PulsePublisher) *PulseWorker {
	w := NewPulseWorker(repo, signedInSession(), nil, DefaultPulseConfig(), publishers...)
	w.now = clock.Now
	return w
}

func TestPulseWorker_CreatesFirstUpdate(t *testing.T) {
	clock := newTestClock(pulseStart)
	repo := pulse.NewMemoryRepository(clock.Now)
	w := newTestPulseWorker(repo, clock)

	outcome, err := w.Check(context.Background())
	if err != nil || outcome != OutcomeCreated {
		t.Fatalf("check = %v, %v; want created", outcome, err)
	}

	records, _ := repo.ListMarketPulseUpdates(context.Background())
	if len(records) != 1 {
		t.Fatalf("expected 1 update, got %d", len(records))
	}
	if want := pulse.Format(pulse.Generate(pulseStart, nil)); records[0].UpdateText != want {
		t.Errorf("unexpected first update text %q", records[0].UpdateText)
	}
}

func TestPulseWorker_Cooldown(t *testing.T) {
	clock := newTestClock(pulseStart)
	repo := pulse.NewMemoryRepository(clock.Now)
	w := newTestPulseWorker(repo, clock)
	ctx := context.Background()

	if outcome, _ := w.Check(ctx); outcome != OutcomeCreated {
		t.Fatalf("first check = %v", outcome)
	}

	clock.Advance(30 * time.Second)
	if outcome, _ := w.Check(ctx); outcome != OutcomeCooldown {
		t.Fatalf("check within cooldown = %v, want cooldown", outcome)
	}

	clock.Advance(31 * time.Second)
	if outcome, _ := w.Check(ctx); outcome != OutcomeNotDue {
		t.Fatalf("check after cooldown = %v, want not_due", outcome)
	}
}

func TestPulseWorker_DueAfterUpdateInterval(t *testing.T) {
	tests := []struct {
		name string
		age  time.Duration
		want Outcome
	}{
		{"fresh", time.Hour, OutcomeNotDue},
		{"past min spacing only", 3*time.Hour + 59*time.Minute, OutcomeNotDue},
		{"exactly due", 4 * time.Hour, OutcomeCreated},
		{"stale", 30 * time.Hour, OutcomeCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newTestClock(pulseStart)
			repo := pulse.NewMemoryRepository(clock.Now)
			prevAt := pulseStart.Add(-tt.age)
			prevText := pulse.Format(pulse.Generate(prevAt, nil))
			repo.Seed(pulse.Record{UpdateText: prevText, Timestamp: prevAt})

			w := newTestPulseWorker(repo, clock)
			outcome, err := w.Check(context.Background())
			if err != nil || outcome != tt.want {
				t.Fatalf("check = %v, %v; want %v", outcome, err, tt.want)
			}

			if tt.want != OutcomeCreated {
				return
			}
			records, _ := repo.ListMarketPulseUpdates(context.Background())
			prev, _ := pulse.Parse(prevText)
			if want := pulse.Format(pulse.Generate(pulseStart, &prev)); records[0].UpdateText != want {
				t.Errorf("new update not generated against the previous one")
			}
		})
	}
}

func TestPulseWorker_SkipsIdenticalText(t *testing.T) {
	clock := newTestClock(pulseStart)
	repo := pulse.NewMemoryRepository(clock.Now)
	fixed := pulse.Content{Breaking: "A", Developing: "B", Context: "C", Impact: "D"}
	repo.Seed(pulse.Record{UpdateText: pulse.Format(fixed), Timestamp: pulseStart.Add(-5 * time.Hour)})

	w := newTestPulseWorker(repo, clock)
	w.generate = func(time.Time, *pulse.Content) pulse.Content { return fixed }

	if outcome, err := w.Check(context.Background()); err != nil || outcome != OutcomeIdentical {
		t.Fatalf("check = %v, %v; want identical", outcome, err)
	}
	records, _ := repo.ListMarketPulseUpdates(context.Background())
	if len(records) != 1 {
		t.Errorf("identical update must not be stored")
	}
}

type blockingPulseRepo struct {
	creates atomic.Int32
	release chan struct{}
	err     error
}

func (r *blockingPulseRepo) ListMarketPulseUpdates(ctx context.Context) ([]pulse.Record, error) {
	return nil, nil
}

func (r *blockingPulseRepo) CreateMarketPulseUpdate(ctx context.Context, updateText, previousUpdateText string) (int64, error) {
	r.creates.Add(1)
	if r.release != nil {
		<-r.release
	}
	if r.err != nil {
		return 0, r.err
	}
	return int64(r.creates.Load()), nil
}

func (r *blockingPulseRepo) GetMarketPulseUpdate(ctx context.Context, id int64) (*pulse.Record, error) {
	return nil, pulse.ErrNotFound
}

func TestPulseWorker_InFlightSkips(t *testing.T) {
	clock := newTestClock(pulseStart)
	repo := &blockingPulseRepo{release: make(chan struct{})}
	w := newTestPulseWorker(repo, clock)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = w.Check(context.Background())
	}()

	deadline := time.Now().Add(2 * time.Second)
	for repo.creates.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	clock.Advance(10 * time.Minute)
	if outcome, _ := w.Check(context.Background()); outcome != OutcomeBusy {
		t.Errorf("overlapping check = %v, want busy", outcome)
	}

	close(repo.release)
	wg.Wait()

	if n := repo.creates.Load(); n != 1 {
		t.Fatalf("expected one create, got %d", n)
	}
}

func TestPulseWorker_FailureClearsInFlight(t *testing.T) {
	clock := newTestClock(pulseStart)
	repo := &blockingPulseRepo{err: errors.New("connection refused")}
	w := newTestPulseWorker(repo, clock)

	if outcome, err := w.Check(context.Background()); err == nil || outcome != OutcomeFailed {
		t.Fatalf("check = %v, %v; want failure", outcome, err)
	}
	if w.inFlight.Load() {
		t.Fatal("in-flight flag left set after failure")
	}

	clock.Advance(2 * time.Minute)
	_, _ = w.Check(context.Background())
	if n := repo.creates.Load(); n != 2 {
		t.Fatalf("expected a second attempt, got %d creates", n)
	}
}

func TestPulseWorker_RejectionIsReported(t *testing.T) {
	clock := newTestClock(pulseStart)
	repo := &blockingPulseRepo{err: pulse.ErrNotNewInformation}
	w := newTestPulseWorker(repo, clock)

	_, err := w.Check(context.Background())
	if !errors.Is(err, pulse.ErrNotNewInformation) {
		t.Fatalf("expected ErrNotNewInformation, got %v", err)
	}
}

func TestPulseWorker_Disabled(t *testing.T) {
	clock := newTestClock(pulseStart)
	repo := pulse.NewMemoryRepository(clock.Now)
	w := newTestPulseWorker(repo, clock)
	w.session = &fakeSession{}

	if outcome, _ := w.Check(context.Background()); outcome != OutcomeDisabled {
		t.Fatalf("check = %v, want disabled", outcome)
	}
}

func TestPulseWorker_LockHeldElsewhere(t *testing.T) {
	clock := newTestClock(pulseStart)
	repo := pulse.NewMemoryRepository(clock.Now)
	locker := newFakeLocker()
	locker.hold(pulseLockName)

	w := newTestPulseWorker(repo, clock)
	w.locker = locker

	if outcome, _ := w.Check(context.Background()); outcome != OutcomeLocked {
		t.Fatalf("check = %v, want locked", outcome)
	}
	records, _ := repo.ListMarketPulseUpdates(context.Background())
	if len(records) != 0 {
		t.Errorf("locked check must not store")
	}
}

type recordingPulsePublisher struct {
	mu        sync.Mutex
	published []pulse.Record
}

func (p *recordingPulsePublisher) PublishPulse(ctx context.Context, rec pulse.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.published = append(p.published, rec)
	return nil
}

func TestPulseWorker_PublishesCreatedUpdate(t *testing.T) {
	clock := newTestClock(pulseStart)
	repo := pulse.NewMemoryRepository(clock.Now)
	pub := &recordingPulsePublisher{}
	w := newTestPulseWorker(repo, clock, pub)

	if outcome, _ := w.Check(context.Background()); outcome != OutcomeCreated {
		t.Fatalf("check = %v, want created", outcome)
	}
	if len(pub.published) != 1 || !pulse.Validate(pub.published[0].UpdateText) {
		t.Fatalf("unexpected published updates %+v", pub.published)
	}
}

func TestOutcome_String(t *testing.T) {
	if OutcomeCreated.String() != "created" || Outcome(99).String() != "unknown" {
		t.Error("unexpected outcome names")
	}
}

type recordedRuns struct {
	mu   sync.Mutex
	runs []*metrics.SchedulerRun
}

func (r *recordedRuns) Add(m metrics.Metric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, m.(*metrics.SchedulerRun))
	return nil
}

func TestPulseWorker_RecordsRuns(t *testing.T) {
	clock := newTestClock(pulseStart)
	repo := pulse.NewMemoryRepository(clock.Now)
	w := newTestPulseWorker(repo, clock)
	rec := &recordedRuns{}
	w.SetMetrics(rec)
	ctx := context.Background()

	if err := w.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	clock.Advance(2 * time.Minute)
	_ = w.Run(ctx)

	session := w.session.(*fakeSession)
	session.signedIn.Store(false)
	_ = w.Run(ctx)

	if len(rec.runs) != 2 {
		t.Fatalf("recorded %d runs, want 2 (disabled checks are skipped)", len(rec.runs))
	}
	if rec.runs[0].Outcome != "created" || rec.runs[1].Outcome != "not_due" {
		t.Errorf("outcomes = %s, %s", rec.runs[0].Outcome, rec.runs[1].Outcome)
	}
	if rec.runs[0].Worker != "market_pulse" || rec.runs[0].Error != "" {
		t.Errorf("first run = %+v", rec.runs[0])
	}
}
