// Package estimation computes the estimated market value of a collected jersey.
//
// The formula is additive: Estimated Price = Base Price × (1 + sum of coefficients).
// The same computation backs the client-side preview and the value persisted
// when a collection item is saved, so tables and rounding must not diverge.
package estimation

import (
	"fmt"
	"math"
)

// Model types
const (
	ModelAuthentic = "Authentic"
	ModelReplica   = "Replica"
	ModelOther     = "Other"
)

const (
	// DefaultBasePrice applies to any model type missing from the base price table
	DefaultBasePrice = 60.0

	SignedCoeff      = 1.5
	SignedProofCoeff = 1.0
	AgeCoeffPerYear  = 0.05
	AgeMax           = 1.0
)

var basePrices = map[string]float64{
	ModelAuthentic: 140,
	ModelReplica:   90,
	ModelOther:     60,
}

var competitionCoeff = map[string]float64{
	"National Championship": 0.0,
	"National Cup":          0.05,
	"Continental Cup":       1.0,
	"Intercontinental Cup":  1.0,
	"World Cup":             1.0,
}

var originCoeff = map[string]float64{
	"Club Stock":     0.5,
	"Match Prepared": 1.0,
	"Match Worn":     1.5,
	"Training":       0.0,
	"Shop":           0.0,
}

var stateCoeff = map[string]float64{
	"New with tag":      0.3,
	"Very good":         0.1,
	"Used":              0.0,
	"Damaged":           -0.2,
	"Needs restoration": -0.4,
}

var flockingCoeff = map[string]float64{
	"Official":     0.15,
	"Personalized": 0.0,
}

// Input describes one jersey instance. Empty strings mean "not set".
type Input struct {
	ModelType       string `json:"model_type"`
	Competition     string `json:"competition"`
	ConditionOrigin string `json:"condition_origin"`
	PhysicalState   string `json:"physical_state"`
	FlockingOrigin  string `json:"flocking_origin"`
	Signed          bool   `json:"signed"`
	SignedProof     bool   `json:"signed_proof"`
	SeasonYear      int    `json:"season_year"` // <= 0 means unknown
}

// BreakdownEntry is one contributing factor of an estimate
type BreakdownEntry struct {
	Label string  `json:"label"`
	Coeff float64 `json:"coeff"`
}

// Result is the outcome of an estimation
type Result struct {
	BasePrice      float64          `json:"base_price"`
	ModelType      string           `json:"model_type"`
	CoeffSum       float64          `json:"coeff_sum"`
	EstimatedPrice float64          `json:"estimated_price"`
	Breakdown      []BreakdownEntry `json:"breakdown"`
}

// Calculate evaluates the estimation formula for the given input, computing
// the age factor against currentYear. It never fails: unrecognized values
// contribute a zero coefficient.
func Calculate(in Input, currentYear int) Result {
	base, ok := basePrices[in.ModelType]
	if !ok {
		base = DefaultBasePrice
	}

	// sum stays unrounded until the very end; the price must be derived from
	// the exact sum, not from the displayed coeff_sum
	sum := 0.0
	breakdown := make([]BreakdownEntry, 0, 7)

	factors := []struct {
		name  string
		value string
		table map[string]float64
	}{
		{"Competition", in.Competition, competitionCoeff},
		{"Origin", in.ConditionOrigin, originCoeff},
		{"State", in.PhysicalState, stateCoeff},
		{"Flocking", in.FlockingOrigin, flockingCoeff},
	}
	for _, f := range factors {
		c := f.table[f.value]
		sum += c
		if f.value != "" {
			breakdown = append(breakdown, BreakdownEntry{
				Label: fmt.Sprintf("%s: %s", f.name, f.value),
				Coeff: c,
			})
		}
	}

	if in.Signed {
		sum += SignedCoeff
		breakdown = append(breakdown, BreakdownEntry{Label: "Signed", Coeff: SignedCoeff})
		if in.SignedProof {
			sum += SignedProofCoeff
			breakdown = append(breakdown, BreakdownEntry{Label: "Proof/Certificate", Coeff: SignedProofCoeff})
		}
	}

	age := Age(in.SeasonYear, currentYear)
	ageCoeff := AgeCoeff(age)
	sum += ageCoeff
	if age > 0 {
		breakdown = append(breakdown, BreakdownEntry{
			Label: fmt.Sprintf("Age: %d years", age),
			Coeff: Round2(ageCoeff),
		})
	}

	return Result{
		BasePrice:      base,
		ModelType:      in.ModelType,
		CoeffSum:       Round2(sum),
		EstimatedPrice: priceFor(base, sum),
		Breakdown:      breakdown,
	}
}

// priceFor applies the coefficient sum to the base price, rounding once
func priceFor(base, sum float64) float64 {
	return Round2(base * (1 + sum))
}

// Age returns the jersey age in whole years. Unknown (non-positive) season
// years and seasons in the future both yield 0.
func Age(seasonYear, currentYear int) int {
	if seasonYear <= 0 {
		return 0
	}
	return max(0, currentYear-seasonYear)
}

// AgeCoeff returns the age coefficient, capped at AgeMax
func AgeCoeff(age int) float64 {
	return math.Min(float64(age)*AgeCoeffPerYear, AgeMax)
}

// BasePrice returns the base price used for a model type
func BasePrice(modelType string) float64 {
	if p, ok := basePrices[modelType]; ok {
		return p
	}
	return DefaultBasePrice
}

// Round2 rounds to 2 decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
