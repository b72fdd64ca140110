package daykey

import (
	"testing"
	"time"
)

func TestDayKey(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"zero padded", time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC), "2025-03-07"},
		{"end of day", time.Date(2025, 3, 7, 23, 59, 59, 0, loc), "2025-03-07"},
		{"start of day", time.Date(2025, 3, 7, 0, 0, 0, 0, loc), "2025-03-07"},
		{"december", time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC), "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayKey(tt.in); got != tt.want {
				t.Errorf("DayKey() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDayKeyMidnightBoundary(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	before := time.Date(2025, 3, 7, 23, 59, 59, int(999*time.Millisecond), loc)
	after := before.Add(time.Millisecond)

	if got := DayKey(before); got != "2025-03-07" {
		t.Errorf("DayKey(before) = %s, want 2025-03-07", got)
	}
	if got := DayKey(after); got != "2025-03-08" {
		t.Errorf("DayKey(after) = %s, want 2025-03-08", got)
	}
	if Same(before, after, loc) {
		t.Error("times across local midnight should not match")
	}
	if !Same(before, before.Add(-23*time.Hour), loc) {
		t.Error("times on the same local day should match")
	}
}

func TestSeedGolden(t *testing.T) {
	tests := map[string]int64{
		"2025-06-01": 274311004,
		"2025-03-07": 274221637,
		"2025-03-08": 274221638,
		"2024-12-31": 612388227,
		"":           0,
	}

	for key, want := range tests {
		if got := Seed(key); got != want {
			t.Errorf("Seed(%q) = %d, want %d", key, got, want)
		}
		if got := Seed(key); got != Seed(key) {
			t.Errorf("Seed(%q) not stable", key)
		}
	}
}

func TestSeedNonNegative(t *testing.T) {
	for _, key := range []string{"zzzzzzzzzzzzzzzz", "2099-12-31", "￿￿￿"} {
		if s := Seed(key); s < 0 {
			t.Errorf("Seed(%q) = %d, want non-negative", key, s)
		}
	}
}

func TestPrevious(t *testing.T) {
	d := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if got := DayKey(Previous(d)); got != "2025-02-28" {
		t.Errorf("Previous() = %s, want 2025-02-28", got)
	}
}

func TestFromNanos(t *testing.T) {
	ts := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	if got := FromNanos(ts.UnixNano()); !got.Equal(ts) {
		t.Errorf("FromNanos() = %v, want %v", got, ts)
	}
}
