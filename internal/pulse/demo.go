package pulse

import "time"

// DemoUpdates returns the sample updates shown to signed-out visitors,
// newest first and stamped relative to now.
func DemoUpdates(now time.Time) []Record {
	demo := []Content{
		{breakingTemplates[0], developingTemplates[0], contextTemplates[0], impactTemplates[0]},
		{breakingTemplates[1], developingTemplates[1], contextTemplates[1], impactTemplates[1]},
		{breakingTemplates[2], developingTemplates[2], contextTemplates[2], impactTemplates[2]},
	}

	records := make([]Record, len(demo))
	for i, c := range demo {
		records[i] = Record{
			ID:         int64(i + 1),
			UpdateText: Format(c),
			Timestamp:  now.Add(-time.Duration(i) * 4 * time.Hour),
		}
	}
	return records
}
