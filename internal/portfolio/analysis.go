// Package portfolio implements the free, sign-in-free portfolio health check.
package portfolio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxFreeAssets caps the free analysis
const MaxFreeAssets = 3

// Time horizons offered for an asset
var TimeHorizons = []string{"Trader", "6 months", "2 years"}

// DefaultTimeHorizon is used when an asset has none
const DefaultTimeHorizon = "6 months"

var (
	ErrTooManyAssets     = fmt.Errorf("free users can add up to %d assets", MaxFreeAssets)
	ErrMissingField      = errors.New("name, ticker and allocation are required")
	ErrInvalidAllocation = errors.New("allocation must be between 0 and 100")
	ErrInvalidHorizon    = errors.New("unknown time horizon")
)

var hundred = decimal.NewFromInt(100)

// Asset is one holding of a free portfolio. Allocation is a percentage.
type Asset struct {
	ID                int64            `json:"id"`
	Name              string           `json:"name"`
	Ticker            string           `json:"ticker"`
	Allocation        decimal.Decimal  `json:"allocation"`
	TimeHorizon       string           `json:"timeHorizon"`
	AverageEntryPrice *decimal.Decimal `json:"averageEntryPrice,omitempty"`
}

// Analysis is the result of the health check
type Analysis struct {
	HealthScore     int             `json:"healthScore"`
	TotalAllocation decimal.Decimal `json:"totalAllocation"`
	Risks           []string        `json:"risks"`
	Opportunities   []string        `json:"opportunities"`
}

// Normalize trims fields, upper-cases the ticker and fills the default horizon
func Normalize(assets []Asset) []Asset {
	out := make([]Asset, len(assets))
	for i, a := range assets {
		a.Name = strings.TrimSpace(a.Name)
		a.Ticker = strings.ToUpper(strings.TrimSpace(a.Ticker))
		if a.TimeHorizon == "" {
			a.TimeHorizon = DefaultTimeHorizon
		}
		if a.ID == 0 {
			a.ID = int64(i + 1)
		}
		out[i] = a
	}
	return out
}

// Validate applies the free tier input rules
func Validate(assets []Asset) error {
	if len(assets) > MaxFreeAssets {
		return ErrTooManyAssets
	}

	for _, a := range assets {
		if a.Name == "" || a.Ticker == "" {
			return fmt.Errorf("%w: asset %d", ErrMissingField, a.ID)
		}
		if a.Allocation.IsNegative() || a.Allocation.GreaterThan(hundred) {
			return fmt.Errorf("%w: %s has %s", ErrInvalidAllocation, a.Ticker, a.Allocation)
		}
		if !validHorizon(a.TimeHorizon) {
			return fmt.Errorf("%w: %q", ErrInvalidHorizon, a.TimeHorizon)
		}
		if a.AverageEntryPrice != nil && a.AverageEntryPrice.IsNegative() {
			return fmt.Errorf("average entry price of %s must not be negative", a.Ticker)
		}
	}

	return nil
}

func validHorizon(h string) bool {
	for _, known := range TimeHorizons {
		if h == known {
			return true
		}
	}
	return false
}

// Analyze scores the portfolio and lists risks and opportunities
func Analyze(assets []Asset) Analysis {
	if len(assets) == 0 {
		return Analysis{
			HealthScore:     0,
			TotalAllocation: decimal.Zero,
			Risks:           []string{"No assets in portfolio"},
			Opportunities:   []string{"Add assets to begin analysis"},
		}
	}

	total := decimal.Zero
	maxAsset := assets[0]
	for _, a := range assets {
		total = total.Add(a.Allocation)
		if a.Allocation.GreaterThan(maxAsset.Allocation) {
			maxAsset = a
		}
	}

	overAllocated := total.GreaterThan(hundred)

	score := 50
	if len(assets) >= 2 {
		score += 15
	}
	if len(assets) == 3 {
		score += 10
	}
	if overAllocated {
		score -= 20
	}
	if total.GreaterThanOrEqual(decimal.NewFromInt(80)) && !overAllocated {
		score += 15
	}
	score = min(max(score, 0), 100)

	var risks []string
	if overAllocated {
		risks = append(risks, fmt.Sprintf("Over-allocated portfolio (%s%% total)", total))
	}
	if total.LessThan(decimal.NewFromInt(50)) {
		risks = append(risks, fmt.Sprintf("Under-allocated portfolio (%s%% total)", total))
	}
	switch len(assets) {
	case 1:
		risks = append(risks, "Single asset concentration risk")
	case 2:
		risks = append(risks, "Limited diversification with only 2 assets")
	}
	if maxAsset.Allocation.GreaterThan(decimal.NewFromInt(50)) {
		risks = append(risks, fmt.Sprintf("High concentration in %s (%s%%)", maxAsset.Name, maxAsset.Allocation))
	}
	if len(risks) == 0 {
		risks = append(risks, "Monitor market conditions regularly")
	}

	var opportunities []string
	if len(assets) < 3 {
		opportunities = append(opportunities, "Add more assets to improve diversification")
	}
	if total.LessThan(hundred) {
		opportunities = append(opportunities, fmt.Sprintf("Allocate remaining %s%% to complete portfolio", hundred.Sub(total)))
	}
	opportunities = append(opportunities, "Consider time horizon alignment with market conditions")

	return Analysis{
		HealthScore:     score,
		TotalAllocation: total,
		Risks:           risks,
		Opportunities:   opportunities,
	}
}
