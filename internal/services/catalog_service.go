package services

import (
	"errors"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/kit-tracker/internal/estimation"
	"github.com/codyseavey/kit-tracker/internal/metrics"
	"github.com/codyseavey/kit-tracker/internal/models"
)

const (
	defaultVersionCacheSize = 512
	defaultListLimit        = 50
	maxListLimit            = 500
)

// CatalogService manages master kits and their versions
type CatalogService struct {
	db           *gorm.DB
	versionCache *lru.Cache[string, models.Version] // versionID -> version with kit loaded
}

// NewCatalogService creates a catalog service with a version cache of cacheSize entries
func NewCatalogService(db *gorm.DB, cacheSize int) (*CatalogService, error) {
	if cacheSize <= 0 {
		cacheSize = defaultVersionCacheSize
	}
	cache, err := lru.New[string, models.Version](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create version cache: %w", err)
	}
	log.Info().Int("version_cache", cacheSize).Msg("Catalog service ready")
	return &CatalogService{db: db, versionCache: cache}, nil
}

func (s *CatalogService) CreateKit(userID string, req models.CreateKitRequest) (*models.MasterKit, error) {
	kit := models.MasterKit{
		KitID:      models.NewID("kit"),
		Club:       req.Club,
		Season:     req.Season,
		KitType:    req.KitType,
		Brand:      req.Brand,
		League:     req.League,
		FrontPhoto: req.FrontPhoto,
		CreatedBy:  userID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.db.Create(&kit).Error; err != nil {
		return nil, fmt.Errorf("failed to create kit: %w", err)
	}
	return &kit, nil
}

func (s *CatalogService) GetKit(kitID string) (*models.MasterKit, error) {
	var kit models.MasterKit
	if err := s.db.First(&kit, "kit_id = ?", kitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKitNotFound
		}
		return nil, err
	}
	return &kit, nil
}

// ListKits returns kits newest first, optionally filtered by club
func (s *CatalogService) ListKits(club string, limit, offset int) ([]models.MasterKit, error) {
	query := s.db.Order("created_at DESC").Limit(clampLimit(limit)).Offset(max(0, offset))
	if club != "" {
		query = query.Where("club = ?", club)
	}
	kits := []models.MasterKit{}
	if err := query.Find(&kits).Error; err != nil {
		return nil, err
	}
	return kits, nil
}

func (s *CatalogService) CreateVersion(userID string, req models.CreateVersionRequest) (*models.Version, error) {
	kit, err := s.GetKit(req.KitID)
	if err != nil {
		return nil, err
	}

	version := models.Version{
		VersionID:   models.NewID("ver"),
		KitID:       kit.KitID,
		Competition: req.Competition,
		Model:       req.Model,
		SKUCode:     req.SKUCode,
		CreatedBy:   userID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.db.Omit(clause.Associations).Create(&version).Error; err != nil {
		return nil, fmt.Errorf("failed to create version: %w", err)
	}
	version.Kit = *kit
	s.versionCache.Add(version.VersionID, version)
	return &version, nil
}

// GetVersion returns a version with its master kit. Results are cached;
// callers receive their own copy.
func (s *CatalogService) GetVersion(versionID string) (*models.Version, error) {
	if v, ok := s.versionCache.Get(versionID); ok {
		metrics.VersionCacheHits.Inc()
		return &v, nil
	}
	metrics.VersionCacheMisses.Inc()

	var version models.Version
	if err := s.db.Preload("Kit").First(&version, "version_id = ?", versionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}
	s.versionCache.Add(versionID, version)
	return &version, nil
}

// ListVersions returns versions newest first, optionally filtered by kit
func (s *CatalogService) ListVersions(kitID string, limit, offset int) ([]models.Version, error) {
	query := s.db.Preload("Kit").Order("created_at DESC").Limit(clampLimit(limit)).Offset(max(0, offset))
	if kitID != "" {
		query = query.Where("kit_id = ?", kitID)
	}
	versions := []models.Version{}
	if err := query.Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// GetVersionEstimates aggregates the estimated prices stored by every
// collector owning the version
func (s *CatalogService) GetVersionEstimates(versionID string) (*models.VersionEstimates, error) {
	var prices []float64
	err := s.db.Model(&models.CollectionItem{}).
		Where("version_id = ? AND estimated_price > 0", versionID).
		Order("estimated_price ASC").
		Pluck("estimated_price", &prices).Error
	if err != nil {
		return nil, err
	}

	result := &models.VersionEstimates{Estimates: []float64{}}
	if len(prices) == 0 {
		return result, nil
	}

	sum := 0.0
	for _, p := range prices {
		sum += p
	}
	result.Low = estimation.Round2(prices[0])
	result.High = estimation.Round2(prices[len(prices)-1])
	result.Average = estimation.Round2(sum / float64(len(prices)))
	result.Count = len(prices)
	result.Estimates = prices
	return result, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	return min(limit, maxListLimit)
}
