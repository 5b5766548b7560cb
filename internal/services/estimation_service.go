package services

import (
	"github.com/rs/zerolog/log"

	"github.com/codyseavey/kit-tracker/internal/estimation"
	"github.com/codyseavey/kit-tracker/internal/metrics"
	"github.com/codyseavey/kit-tracker/internal/models"
)

// EstimationService runs the estimation engine for previews and for
// collection items being saved, so both paths produce identical values.
type EstimationService struct {
	estimator *estimation.Estimator
}

// NewEstimationService creates an estimation service. A nil clock uses the wall clock.
func NewEstimationService(clock estimation.Clock) *EstimationService {
	return &EstimationService{
		estimator: estimation.NewEstimator(clock),
	}
}

// Estimate computes a preview estimate
func (s *EstimationService) Estimate(in estimation.Input) estimation.Result {
	return s.run(in, "preview")
}

// EstimateItem computes the estimate persisted with a collection item. Model
// type and competition come from the version, the season from its master kit.
func (s *EstimationService) EstimateItem(item *models.CollectionItem, version *models.Version) estimation.Result {
	return s.run(InputForItem(item, version), "save")
}

// RevalueItem recomputes the estimate of an already saved item
func (s *EstimationService) RevalueItem(item *models.CollectionItem, version *models.Version) estimation.Result {
	return s.run(InputForItem(item, version), "revalue")
}

// CurrentYear reports the year estimates are currently computed against
func (s *EstimationService) CurrentYear() int {
	return s.estimator.CurrentYear()
}

// InputForItem builds engine input from a collection item and its version
func InputForItem(item *models.CollectionItem, version *models.Version) estimation.Input {
	in := estimation.Input{
		ModelType:       estimation.ModelReplica,
		ConditionOrigin: item.ConditionOrigin,
		PhysicalState:   item.PhysicalState,
		FlockingOrigin:  item.FlockingOrigin,
		Signed:          item.Signed,
		SignedProof:     item.SignedProof,
	}
	if version != nil {
		if version.Model != "" {
			in.ModelType = version.Model
		}
		in.Competition = version.Competition
		in.SeasonYear = estimation.ParseSeasonYear(version.Kit.Season)
	}
	return in
}

func (s *EstimationService) run(in estimation.Input, source string) estimation.Result {
	res := s.estimator.Estimate(in)

	metrics.EstimationsTotal.WithLabelValues(metricModelType(res.ModelType), source).Inc()
	metrics.EstimatedPrice.Observe(res.EstimatedPrice)

	log.Debug().
		Str("source", source).
		Str("model_type", res.ModelType).
		Float64("coeff_sum", res.CoeffSum).
		Float64("estimated_price", res.EstimatedPrice).
		Msg("Computed estimate")

	return res
}

// metricModelType keeps label cardinality bounded
func metricModelType(modelType string) string {
	switch modelType {
	case estimation.ModelAuthentic, estimation.ModelReplica, estimation.ModelOther:
		return modelType
	}
	return "unrecognized"
}
