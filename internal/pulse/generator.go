package pulse

import (
	"time"

	"github.com/selivandex/pulsebrief/pkg/seeded"
)

// Section seed offsets keep the four draws of one generation independent
const (
	breakingOffset   = 0
	developingOffset = 1000
	contextOffset    = 2000
	impactOffset     = 3000
)

// Seed derives the generation seed from ts. The millisecond component is
// added on top of epoch milliseconds, which already include it; stored
// updates were produced with this formula, keep it.
func Seed(ts time.Time) int64 {
	return ts.UnixMilli() + int64(ts.Nanosecond()/int(time.Millisecond))
}

// Generate selects one template per section for ts. Sections of previous
// (if any) are avoided where the pool allows it.
func Generate(ts time.Time, previous *Content) Content {
	seed := Seed(ts)

	var prev Content
	if previous != nil {
		prev = *previous
	}

	return Content{
		Breaking:   SelectTemplate(breakingTemplates, seed+breakingOffset, prev.Breaking),
		Developing: SelectTemplate(developingTemplates, seed+developingOffset, prev.Developing),
		Context:    SelectTemplate(contextTemplates, seed+contextOffset, prev.Context),
		Impact:     SelectTemplate(impactTemplates, seed+impactOffset, prev.Impact),
	}
}

// SelectTemplate draws up to len(pool) times and returns the first template
// different from previous. If every draw hits previous it falls back to the
// first pool entry that differs, or pool[0].
func SelectTemplate(pool []string, seed int64, previous string) string {
	if len(pool) == 0 {
		return ""
	}

	r := seeded.NewPulseRand(seed)
	for attempt := 0; attempt < len(pool); attempt++ {
		selected := pool[r.Intn(len(pool))]
		if previous == "" || selected != previous {
			return selected
		}
	}

	for _, t := range pool {
		if t != previous {
			return t
		}
	}
	return pool[0]
}
