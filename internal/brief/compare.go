package brief

// Direction of a score change between two briefs
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionFlat Direction = "flat"
)

// ScoreDelta compares one score between today and yesterday
type ScoreDelta struct {
	Label     string    `json:"label"`
	Today     int       `json:"today"`
	Yesterday int       `json:"yesterday"`
	Delta     int       `json:"delta"`
	Direction Direction `json:"direction"`
}

// Compare returns the yesterday-vs-today deltas shown next to a brief
func Compare(today, yesterday Content) []ScoreDelta {
	pairs := []struct {
		label     string
		today     int
		yesterday int
	}{
		{"Bullish Score", today.BullishScore, yesterday.BullishScore},
		{"Volatility", today.VolatilityScore, yesterday.VolatilityScore},
		{"Liquidity", today.LiquidityScore, yesterday.LiquidityScore},
	}

	deltas := make([]ScoreDelta, 0, len(pairs))
	for _, p := range pairs {
		d := p.today - p.yesterday
		dir := DirectionFlat
		switch {
		case d > 0:
			dir = DirectionUp
		case d < 0:
			dir = DirectionDown
		}
		deltas = append(deltas, ScoreDelta{
			Label:     p.label,
			Today:     p.today,
			Yesterday: p.yesterday,
			Delta:     d,
			Direction: dir,
		})
	}

	return deltas
}
