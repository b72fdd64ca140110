// Command briefgen prints the deterministic content for a date or instant.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/selivandex/pulsebrief/internal/brief"
	"github.com/selivandex/pulsebrief/internal/pulse"
	"github.com/selivandex/pulsebrief/pkg/daykey"
)

type briefOutput struct {
	DayKey    string `json:"dayKey"`
	Seed      int64  `json:"seed"`
	Attempts  int    `json:"attempts"`
	Exhausted bool   `json:"exhausted,omitempty"`
	brief.Content
}

func main() {
	date := flag.String("date", "", "calendar day YYYY-MM-DD (default today)")
	days := flag.Int("days", 1, "number of consecutive days to generate, each avoiding the day before")
	tz := flag.String("tz", "Local", "time zone of the calendar")
	pulseAt := flag.String("pulse-at", "", "also print the pulse update generated at this RFC3339 instant")
	pulseSteps := flag.Int("pulse-steps", 1, "number of pulse updates to chain, one millisecond apart")
	flag.Parse()

	if err := run(*date, *days, *tz, *pulseAt, *pulseSteps); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(date string, days int, tz, pulseAt string, pulseSteps int) error {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("invalid time zone %q: %w", tz, err)
	}

	start := time.Now().In(loc)
	if date != "" {
		start, err = time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", date, err)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	var prior *brief.Prior
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		res := brief.Generate(day, prior)
		prior = brief.PriorOf(res.Content)

		out := briefOutput{
			DayKey:    daykey.DayKey(day),
			Seed:      daykey.SeedFor(day),
			Attempts:  res.Attempts,
			Exhausted: res.Exhausted,
			Content:   brief.ToCreateRequest(res.Content).Content(),
		}
		if err := enc.Encode(out); err != nil {
			return fmt.Errorf("failed to write brief: %w", err)
		}
	}

	if pulseAt == "" {
		return nil
	}

	at, err := time.Parse(time.RFC3339Nano, pulseAt)
	if err != nil {
		return fmt.Errorf("invalid pulse instant %q: %w", pulseAt, err)
	}

	var previous *pulse.Content
	for i := 0; i < pulseSteps; i++ {
		ts := at.Add(time.Duration(i) * time.Millisecond)
		c := pulse.Generate(ts, previous)
		previous = &c

		fmt.Printf("--- %s (seed %d)\n%s\n", ts.Format(time.RFC3339Nano), pulse.Seed(ts), pulse.Format(c))
	}

	return nil
}
