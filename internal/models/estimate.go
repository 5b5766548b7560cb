package models

import (
	"github.com/codyseavey/kit-tracker/internal/estimation"
)

// EstimateRequest is the body of POST /api/estimate. ModelType is a pointer
// so an absent field can default to Replica while an explicit empty string
// still falls through to the unrecognized-model base price.
type EstimateRequest struct {
	ModelType       *string `json:"model_type"`
	Competition     string  `json:"competition"`
	ConditionOrigin string  `json:"condition_origin"`
	PhysicalState   string  `json:"physical_state"`
	FlockingOrigin  string  `json:"flocking_origin"`
	Signed          bool    `json:"signed"`
	SignedProof     bool    `json:"signed_proof"`
	SeasonYear      int     `json:"season_year"`
	// Season is an optional free-text season ("2024/2025"), used when SeasonYear is 0
	Season string `json:"season,omitempty"`
}

// ToInput converts the request into engine input, applying defaults
func (r EstimateRequest) ToInput() estimation.Input {
	modelType := estimation.ModelReplica
	if r.ModelType != nil {
		modelType = *r.ModelType
	}
	year := r.SeasonYear
	if year == 0 && r.Season != "" {
		year = estimation.ParseSeasonYear(r.Season)
	}
	return estimation.Input{
		ModelType:       modelType,
		Competition:     r.Competition,
		ConditionOrigin: r.ConditionOrigin,
		PhysicalState:   r.PhysicalState,
		FlockingOrigin:  r.FlockingOrigin,
		Signed:          r.Signed,
		SignedProof:     r.SignedProof,
		SeasonYear:      year,
	}
}
