package brief

import (
	"slices"
	"strings"
	"time"

	"github.com/selivandex/pulsebrief/pkg/daykey"
	"github.com/selivandex/pulsebrief/pkg/seeded"
)

// MaxAttempts bounds the search for a variant that differs from the prior day
const MaxAttempts = 10

// Result is the generated content plus how the search went
type Result struct {
	Content
	// Attempts is the number of seeds tried, 1..MaxAttempts
	Attempts int
	// Exhausted is set when every attempt collided with the prior day and
	// the last candidate was accepted anyway
	Exhausted bool
}

// Generate builds the brief for the calendar day of date. It is a pure
// function of the day key and prior.
func Generate(date time.Time, prior *Prior) Result {
	baseSeed := daykey.SeedFor(date)

	var content Content
	for offset := 0; offset < MaxAttempts; offset++ {
		content = variant(baseSeed + int64(offset))
		if !collides(content, prior) {
			return Result{Content: content, Attempts: offset + 1}
		}
	}

	return Result{Content: content, Attempts: MaxAttempts, Exhausted: true}
}

// variant draws one candidate from a fresh generator seeded with seed
func variant(seed int64) Content {
	r := seeded.NewBriefRand(seed)

	summaryIdx := r.Intn(len(summaryVariants))
	keyDriverIdx := r.Intn(len(keyDriverVariants))
	watchNextIdx := r.Intn(len(watchNextVariants))
	riskCatalystIdx := r.Intn(len(riskCatalystVariants))

	return Content{
		Summary:          summaryVariants[summaryIdx],
		KeyDrivers:       slices.Clone(keyDriverVariants[keyDriverIdx]),
		WatchNext:        slices.Clone(watchNextVariants[watchNextIdx]),
		RiskCatalysts:    slices.Clone(riskCatalystVariants[riskCatalystIdx]),
		BullishScore:     score(r),
		VolatilityScore:  score(r),
		LiquidityScore:   score(r),
		SignalNoiseScore: score(r),
	}
}

// score maps one draw onto 4..8
func score(r *seeded.BriefRand) int {
	return r.Intn(5) + 4
}

// collides reports whether content repeats the prior day's summary or its
// first three key drivers as a set
func collides(content Content, prior *Prior) bool {
	if prior == nil {
		return false
	}

	if content.Summary == prior.Summary {
		return true
	}

	return driverKey(content.KeyDrivers) == driverKey(prior.KeyDrivers)
}

func driverKey(drivers []string) string {
	n := min(len(drivers), 3)
	head := slices.Clone(drivers[:n])
	slices.Sort(head)
	return strings.Join(head, "|")
}

// ToCreateRequest converts generated content to the storage payload,
// numbering risk catalysts from 1
func ToCreateRequest(content Content) CreateRequest {
	catalysts := make([]RiskCatalyst, len(content.RiskCatalysts))
	for i, c := range content.RiskCatalysts {
		catalysts[i] = RiskCatalyst{
			ID:          int64(i + 1),
			Description: c.Description,
			Impact:      c.Impact,
		}
	}

	return CreateRequest{
		Summary:          content.Summary,
		RiskCatalysts:    catalysts,
		BullishScore:     content.BullishScore,
		VolatilityScore:  content.VolatilityScore,
		LiquidityScore:   content.LiquidityScore,
		SignalNoiseScore: content.SignalNoiseScore,
		KeyDrivers:       slices.Clone(content.KeyDrivers),
		WatchNext:        slices.Clone(content.WatchNext),
	}
}
