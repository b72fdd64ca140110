// Package brief generates, compares and stores the deterministic Daily Brief.
package brief

import (
	"errors"
	"time"
)

// Impact levels used by risk catalysts
const (
	ImpactHigh   = "High"
	ImpactMedium = "Medium"
	ImpactLow    = "Low"
)

// ErrNotFound is returned when a brief does not exist
var ErrNotFound = errors.New("daily brief not found")

// RiskCatalyst is one risk line of a brief. ID is 1-based once stored.
type RiskCatalyst struct {
	ID          int64  `json:"id,omitempty"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// Content is the generated body of a daily brief
type Content struct {
	Summary          string         `json:"summary"`
	KeyDrivers       []string       `json:"keyDrivers"`
	WatchNext        []string       `json:"watchNext"`
	RiskCatalysts    []RiskCatalyst `json:"riskCatalysts"`
	BullishScore     int            `json:"bullishScore"`
	VolatilityScore  int            `json:"volatilityScore"`
	LiquidityScore   int            `json:"liquidityScore"`
	SignalNoiseScore int            `json:"signalNoiseScore"`
}

// Prior is the part of the previous day's brief used for collision checks
type Prior struct {
	Summary    string
	KeyDrivers []string
}

// PriorOf extracts collision context from stored content
func PriorOf(c Content) *Prior {
	return &Prior{Summary: c.Summary, KeyDrivers: c.KeyDrivers}
}

// CreateRequest is the storage payload for a new brief
type CreateRequest struct {
	Summary          string
	RiskCatalysts    []RiskCatalyst
	BullishScore     int
	VolatilityScore  int
	LiquidityScore   int
	SignalNoiseScore int
	KeyDrivers       []string
	WatchNext        []string
}

// Content returns the request as brief content
func (r CreateRequest) Content() Content {
	return Content{
		Summary:          r.Summary,
		KeyDrivers:       r.KeyDrivers,
		WatchNext:        r.WatchNext,
		RiskCatalysts:    r.RiskCatalysts,
		BullishScore:     r.BullishScore,
		VolatilityScore:  r.VolatilityScore,
		LiquidityScore:   r.LiquidityScore,
		SignalNoiseScore: r.SignalNoiseScore,
	}
}

// Record is a stored brief. Date is the creation instant; only its calendar
// day is meaningful for comparisons.
type Record struct {
	ID   int64
	Date time.Time
	Content
}
