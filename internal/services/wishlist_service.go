package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/kit-tracker/internal/metrics"
	"github.com/codyseavey/kit-tracker/internal/models"
)

// WishlistService manages the versions a user wants to acquire
type WishlistService struct {
	db      *gorm.DB
	catalog *CatalogService
}

func NewWishlistService(db *gorm.DB, catalog *CatalogService) *WishlistService {
	return &WishlistService{db: db, catalog: catalog}
}

func (s *WishlistService) List(userID string) ([]models.WishlistItem, error) {
	items := []models.WishlistItem{}
	err := s.db.Preload("Version.Kit").
		Where("user_id = ?", userID).
		Order("added_at DESC").
		Limit(maxCollectionItems).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *WishlistService) Add(userID string, req models.AddToWishlistRequest) (*models.WishlistItem, error) {
	version, err := s.catalog.GetVersion(req.VersionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.find(userID, req.VersionID); err == nil {
		return nil, ErrAlreadyInWishlist
	} else if !errors.Is(err, ErrItemNotFound) {
		return nil, err
	}

	item := models.WishlistItem{
		WishlistID: models.NewID("wish"),
		UserID:     userID,
		VersionID:  req.VersionID,
		Notes:      req.Notes,
		AddedAt:    time.Now().UTC(),
	}
	if err := s.db.Omit(clause.Associations).Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyInWishlist
		}
		return nil, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	item.Version = version

	log.Info().Str("user_id", userID).Str("wishlist_id", item.WishlistID).Msg("Added version to wishlist")
	s.refreshMetrics()
	return &item, nil
}

func (s *WishlistService) Remove(userID, wishlistID string) error {
	result := s.db.Where("wishlist_id = ? AND user_id = ?", wishlistID, userID).Delete(&models.WishlistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	s.refreshMetrics()
	return nil
}

// Check reports whether versionID is on the user's wishlist
func (s *WishlistService) Check(userID, versionID string) (*models.WishlistCheck, error) {
	item, err := s.find(userID, versionID)
	if errors.Is(err, ErrItemNotFound) {
		return &models.WishlistCheck{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &models.WishlistCheck{InWishlist: true, WishlistID: &item.WishlistID}, nil
}

func (s *WishlistService) find(userID, versionID string) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := s.db.Where("user_id = ? AND version_id = ?", userID, versionID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *WishlistService) refreshMetrics() {
	var count int64
	if err := s.db.Model(&models.WishlistItem{}).Count(&count).Error; err != nil {
		log.Warn().Err(err).Msg("Failed to refresh wishlist metrics")
		return
	}
	metrics.WishlistItemsTotal.Set(float64(count))
}
