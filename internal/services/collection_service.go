package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/kit-tracker/internal/estimation"
	"github.com/codyseavey/kit-tracker/internal/metrics"
	"github.com/codyseavey/kit-tracker/internal/models"
)

// maxCollectionItems caps how many items a single listing returns
const maxCollectionItems = 500

// CollectionService manages each user's jersey collection. Every save
// recomputes the item's estimated price server-side.
type CollectionService struct {
	db         *gorm.DB
	catalog    *CatalogService
	estimation *EstimationService
}

func NewCollectionService(db *gorm.DB, catalog *CatalogService, estimation *EstimationService) *CollectionService {
	return &CollectionService{
		db:         db,
		catalog:    catalog,
		estimation: estimation,
	}
}

// List returns the user's items newest first, optionally filtered by category
func (s *CollectionService) List(userID, category string) ([]models.CollectionItem, error) {
	query := s.db.Preload("Version.Kit").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Limit(maxCollectionItems)
	if category != "" {
		query = query.Where("category = ?", category)
	}

	items := []models.CollectionItem{}
	if err := query.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Categories returns the user's distinct categories in alphabetical order
func (s *CollectionService) Categories(userID string) ([]string, error) {
	categories := []string{}
	err := s.db.Model(&models.CollectionItem{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *CollectionService) Add(userID string, req models.AddToCollectionRequest) (*models.CollectionItem, error) {
	version, err := s.catalog.GetVersion(req.VersionID)
	if err != nil {
		return nil, err
	}

	var existing int64
	if err := s.db.Model(&models.CollectionItem{}).
		Where("user_id = ? AND version_id = ?", userID, req.VersionID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadyInCollection
	}

	category := req.Category
	if category == "" {
		category = models.DefaultCategory
	}

	item := models.CollectionItem{
		CollectionID:    models.NewID("col"),
		UserID:          userID,
		VersionID:       req.VersionID,
		Category:        category,
		Notes:           req.Notes,
		FlockingType:    req.FlockingType,
		FlockingOrigin:  req.FlockingOrigin,
		FlockingDetail:  req.FlockingDetail,
		ConditionOrigin: req.ConditionOrigin,
		PhysicalState:   req.PhysicalState,
		Size:            req.Size,
		PurchaseCost:    req.PurchaseCost,
		Signed:          req.Signed,
		SignedBy:        req.SignedBy,
		SignedProof:     req.SignedProof,
		AddedAt:         time.Now().UTC(),
	}
	est := s.estimation.EstimateItem(&item, version)
	item.SetEstimatedPrice(est.EstimatedPrice, item.AddedAt)

	// The count above races with concurrent adds; the unique index settles it
	if err := s.db.Omit(clause.Associations).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInCollection
		}
		return nil, fmt.Errorf("failed to add to collection: %w", err)
	}
	item.Version = version

	log.Info().
		Str("user_id", userID).
		Str("collection_id", item.CollectionID).
		Float64("estimated_price", est.EstimatedPrice).
		Msg("Added jersey to collection")

	s.refreshMetrics()
	return &item, nil
}

// Update applies the non-nil fields of req and recomputes the estimate
func (s *CollectionService) Update(userID, collectionID string, req models.UpdateCollectionRequest) (*models.CollectionItem, error) {
	if req.IsEmpty() {
		return nil, ErrNoFieldsToUpdate
	}

	item, err := s.get(userID, collectionID)
	if err != nil {
		return nil, err
	}

	applyUpdate(item, req)

	version, err := s.catalog.GetVersion(item.VersionID)
	switch {
	case err == nil:
		est := s.estimation.EstimateItem(item, version)
		item.SetEstimatedPrice(est.EstimatedPrice, time.Now().UTC())
		item.Version = version
	case errors.Is(err, ErrVersionNotFound):
		// Orphaned item: keep the last stored estimate
		log.Warn().Str("collection_id", collectionID).Str("version_id", item.VersionID).Msg("Version missing, estimate not recomputed")
	default:
		return nil, err
	}

	if err := s.db.Omit(clause.Associations).Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update collection item: %w", err)
	}

	s.refreshMetrics()
	return item, nil
}

func (s *CollectionService) Remove(userID, collectionID string) error {
	result := s.db.Where("collection_id = ? AND user_id = ?", collectionID, userID).Delete(&models.CollectionItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	s.refreshMetrics()
	return nil
}

// Stats summarizes the user's collection. Low and high scale the cheapest and
// priciest estimate by the number of jerseys; average is the summed value.
func (s *CollectionService) Stats(userID string) (*models.CollectionStats, error) {
	var total int64
	if err := s.db.Model(&models.CollectionItem{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}

	var estimates []float64
	if err := s.db.Model(&models.CollectionItem{}).
		Where("user_id = ? AND estimated_price > 0", userID).
		Pluck("estimated_price", &estimates).Error; err != nil {
		return nil, err
	}

	stats := &models.CollectionStats{
		TotalJerseys:       int(total),
		ItemsWithEstimates: len(estimates),
	}
	if len(estimates) == 0 {
		return stats, nil
	}

	low, high, sum := summarize(estimates)
	stats.EstimatedValue = models.ValueRange{
		Low:     estimation.Round2(low * float64(total)),
		Average: estimation.Round2(sum),
		High:    estimation.Round2(high * float64(total)),
	}
	return stats, nil
}

// CategoryStats returns per-category counts with min/mean/max estimates
func (s *CollectionService) CategoryStats(userID string) ([]models.CategoryStats, error) {
	var rows []models.CollectionItem
	if err := s.db.Select("category", "estimated_price").
		Where("user_id = ?", userID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	prices := make(map[string][]float64)
	for _, r := range rows {
		cat := r.Category
		if cat == "" {
			cat = models.DefaultCategory
		}
		counts[cat]++
		if r.HasEstimate() {
			prices[cat] = append(prices[cat], *r.EstimatedPrice)
		}
	}

	result := make([]models.CategoryStats, 0, len(counts))
	for cat, count := range counts {
		cs := models.CategoryStats{Category: cat, Count: count}
		if est := prices[cat]; len(est) > 0 {
			low, high, sum := summarize(est)
			cs.EstimatedValue = models.ValueRange{
				Low:     estimation.Round2(low),
				Average: estimation.Round2(sum / float64(len(est))),
				High:    estimation.Round2(high),
			}
		}
		result = append(result, cs)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Category < result[j].Category })
	return result, nil
}

func (s *CollectionService) get(userID, collectionID string) (*models.CollectionItem, error) {
	var item models.CollectionItem
	err := s.db.Where("collection_id = ? AND user_id = ?", collectionID, userID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// refreshMetrics updates the collection gauges from the database
func (s *CollectionService) refreshMetrics() {
	var totals struct {
		Count int64
		Value float64
	}
	err := s.db.Model(&models.CollectionItem{}).
		Select("COUNT(*) AS count, COALESCE(SUM(estimated_price), 0) AS value").
		Scan(&totals).Error
	if err != nil {
		log.Warn().Err(err).Msg("Failed to refresh collection metrics")
		return
	}
	metrics.CollectionItemsTotal.Set(float64(totals.Count))
	metrics.CollectionValue.Set(totals.Value)
}

func applyUpdate(item *models.CollectionItem, req models.UpdateCollectionRequest) {
	if req.Category != nil {
		item.Category = *req.Category
		if item.Category == "" {
			item.Category = models.DefaultCategory
		}
	}
	if req.Notes != nil {
		item.Notes = *req.Notes
	}
	if req.FlockingType != nil {
		item.FlockingType = *req.FlockingType
	}
	if req.FlockingOrigin != nil {
		item.FlockingOrigin = *req.FlockingOrigin
	}
	if req.FlockingDetail != nil {
		item.FlockingDetail = *req.FlockingDetail
	}
	if req.ConditionOrigin != nil {
		item.ConditionOrigin = *req.ConditionOrigin
	}
	if req.PhysicalState != nil {
		item.PhysicalState = *req.PhysicalState
	}
	if req.Size != nil {
		item.Size = *req.Size
	}
	if req.PurchaseCost != nil {
		item.PurchaseCost = req.PurchaseCost
	}
	if req.Signed != nil {
		item.Signed = *req.Signed
	}
	if req.SignedBy != nil {
		item.SignedBy = *req.SignedBy
	}
	if req.SignedProof != nil {
		item.SignedProof = *req.SignedProof
	}
}

// summarize returns min, max and sum of a non-empty slice
func summarize(values []float64) (low, high, sum float64) {
	low, high = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		low = math.Min(low, v)
		high = math.Max(high, v)
		sum += v
	}
	return low, high, sum
}
