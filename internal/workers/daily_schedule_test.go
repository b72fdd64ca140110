package workers

import (
	"testing"
	"time"
)

func TestDailySchedule_MidnightInSessionZone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	d := NewDailySchedule("0 0 * * *", func() {})
	if got := d.Next(time.Now()); !got.IsZero() {
		t.Fatalf("Next() before Reschedule = %v, want zero", got)
	}

	if err := d.Reschedule(tokyo); err != nil {
		t.Fatalf("Reschedule() error = %v", err)
	}

	from := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	want := time.Date(2025, 6, 2, 0, 0, 0, 0, tokyo)
	if got := d.Next(from); !got.Equal(want) {
		t.Errorf("Next() = %v, want %v", got, want)
	}

	if err := d.Reschedule(time.UTC); err != nil {
		t.Fatalf("Reschedule(UTC) error = %v", err)
	}
	want = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if got := d.Next(from); !got.Equal(want) {
		t.Errorf("Next() after reschedule = %v, want %v", got, want)
	}
	if n := len(d.cron.Entries()); n != 1 {
		t.Errorf("entries = %d, want 1", n)
	}
}

func TestDailySchedule_InvalidSpec(t *testing.T) {
	d := NewDailySchedule("not a spec", func() {})
	if err := d.Reschedule(time.UTC); err == nil {
		t.Fatal("expected error for invalid spec")
	}
	if got := d.Next(time.Now()); !got.IsZero() {
		t.Errorf("Next() = %v, want zero after failed reschedule", got)
	}
}
