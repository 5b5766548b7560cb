package estimation

import (
	"regexp"
	"sort"
	"strconv"
)

var seasonYearRe = regexp.MustCompile(`\b(1[89]\d{2}|2\d{3})\b`)

// ParseSeasonYear extracts the starting year from a free-text season such as
// "2024/2025", "1998-99" or "2010". Returns 0 when no year is present.
func ParseSeasonYear(season string) int {
	m := seasonYearRe.FindStringSubmatch(season)
	if m == nil {
		return 0
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return year
}

// Options lists the recognized vocabulary and constants of the formula
type Options struct {
	ModelTypes       map[string]float64 `json:"model_types"`
	Competitions     map[string]float64 `json:"competitions"`
	ConditionOrigins map[string]float64 `json:"condition_origins"`
	PhysicalStates   map[string]float64 `json:"physical_states"`
	FlockingOrigins  map[string]float64 `json:"flocking_origins"`
	SignedCoeff      float64            `json:"signed_coeff"`
	SignedProofCoeff float64            `json:"signed_proof_coeff"`
	AgeCoeffPerYear  float64            `json:"age_coeff_per_year"`
	AgeMax           float64            `json:"age_max"`
}

// GetOptions returns a copy of every table so callers cannot mutate them
func GetOptions() Options {
	return Options{
		ModelTypes:       copyTable(basePrices),
		Competitions:     copyTable(competitionCoeff),
		ConditionOrigins: copyTable(originCoeff),
		PhysicalStates:   copyTable(stateCoeff),
		FlockingOrigins:  copyTable(flockingCoeff),
		SignedCoeff:      SignedCoeff,
		SignedProofCoeff: SignedProofCoeff,
		AgeCoeffPerYear:  AgeCoeffPerYear,
		AgeMax:           AgeMax,
	}
}

func ModelTypes() []string       { return sortedKeys(basePrices) }
func Competitions() []string     { return sortedKeys(competitionCoeff) }
func ConditionOrigins() []string { return sortedKeys(originCoeff) }
func PhysicalStates() []string   { return sortedKeys(stateCoeff) }
func FlockingOrigins() []string  { return sortedKeys(flockingCoeff) }

func copyTable(t map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

func sortedKeys(t map[string]float64) []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
