package brief

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/selivandex/pulsebrief/pkg/daykey"
)

func TestMemoryRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	repo := NewMemoryRepository(func() time.Time { return clock })

	first, err := repo.CreateDailyBrief(ctx, ToCreateRequest(Generate(clock, nil).Content))
	if err != nil {
		t.Fatalf("Failed to create brief: %v", err)
	}

	clock = clock.AddDate(0, 0, 1)
	second, err := repo.CreateDailyBrief(ctx, ToCreateRequest(Generate(clock, nil).Content))
	if err != nil {
		t.Fatalf("Failed to create second brief: %v", err)
	}

	if first == second {
		t.Fatal("ids should be unique")
	}

	records, err := repo.ListDailyBriefs(ctx)
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 briefs, got %d", len(records))
	}
	if records[0].ID != second {
		t.Errorf("Expected newest brief first, got id %d", records[0].ID)
	}

	found := FindByDay(records, "2025-06-01", time.UTC)
	if found == nil || found.ID != first {
		t.Errorf("FindByDay did not return first brief: %+v", found)
	}
	if FindByDay(records, "2025-06-03", time.UTC) != nil {
		t.Error("FindByDay should return nil for a missing day")
	}
}

func TestMemoryRepository_Get(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(nil)

	id := repo.Seed(Record{Date: time.Now(), Content: Content{Summary: "seeded"}})

	rec, err := repo.GetDailyBrief(ctx, id)
	if err != nil {
		t.Fatalf("Failed to get brief: %v", err)
	}
	if rec.Summary != "seeded" {
		t.Errorf("Expected seeded summary, got %q", rec.Summary)
	}

	if _, err := repo.GetDailyBrief(ctx, id+100); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFindByDay_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2025-06-01 20:00 UTC is already 2025-06-02 in Tokyo
	records := []Record{{ID: 1, Date: time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)}}

	if FindByDay(records, "2025-06-02", tokyo) == nil {
		t.Error("expected record to match Tokyo calendar day")
	}
	if FindByDay(records, daykey.DayKey(records[0].Date), time.UTC) == nil {
		t.Error("expected record to match UTC calendar day")
	}
}
