package models

import (
	"time"
)

// DefaultCategory is assigned to collection items saved without one
const DefaultCategory = "General"

type CollectionItem struct {
	CollectionID    string     `json:"collection_id" gorm:"primaryKey"`
	UserID          string     `json:"user_id" gorm:"not null;uniqueIndex:idx_user_version"`
	VersionID       string     `json:"version_id" gorm:"not null;uniqueIndex:idx_user_version"`
	Version         *Version   `json:"version,omitempty" gorm:"foreignKey:VersionID;references:VersionID"`
	Category        string     `json:"category" gorm:"default:'General';index"`
	Notes           string     `json:"notes"`
	FlockingType    string     `json:"flocking_type"`
	FlockingOrigin  string     `json:"flocking_origin"`
	FlockingDetail  string     `json:"flocking_detail"`
	ConditionOrigin string     `json:"condition_origin"`
	PhysicalState   string     `json:"physical_state"`
	Size            string     `json:"size"`
	PurchaseCost    *float64   `json:"purchase_cost"`
	EstimatedPrice  *float64   `json:"estimated_price"`
	PriceEstimate   *float64   `json:"price_estimate"` // legacy mirror of EstimatedPrice
	ValueEstimate   *float64   `json:"value_estimate"` // legacy mirror of EstimatedPrice
	EstimatedAt     *time.Time `json:"estimated_at" gorm:"index"`
	Signed          bool       `json:"signed"`
	SignedBy        string     `json:"signed_by"`
	SignedProof     bool       `json:"signed_proof"`
	AddedAt         time.Time  `json:"added_at" gorm:"index"`
}

// SetEstimatedPrice stores price in the canonical field and its legacy mirrors
// and records when it was computed
func (c *CollectionItem) SetEstimatedPrice(price float64, at time.Time) {
	c.EstimatedPrice = &price
	c.PriceEstimate = &price
	c.ValueEstimate = &price
	c.EstimatedAt = &at
}

// HasEstimate reports whether the item carries a positive estimated price
func (c *CollectionItem) HasEstimate() bool {
	return c.EstimatedPrice != nil && *c.EstimatedPrice > 0
}

type AddToCollectionRequest struct {
	VersionID       string   `json:"version_id" binding:"required"`
	Category        string   `json:"category"`
	Notes           string   `json:"notes"`
	FlockingType    string   `json:"flocking_type"`
	FlockingOrigin  string   `json:"flocking_origin"`
	FlockingDetail  string   `json:"flocking_detail"`
	ConditionOrigin string   `json:"condition_origin"`
	PhysicalState   string   `json:"physical_state"`
	Size            string   `json:"size"`
	PurchaseCost    *float64 `json:"purchase_cost"`
	Signed          bool     `json:"signed"`
	SignedBy        string   `json:"signed_by"`
	SignedProof     bool     `json:"signed_proof"`
}

type UpdateCollectionRequest struct {
	Category        *string  `json:"category"`
	Notes           *string  `json:"notes"`
	FlockingType    *string  `json:"flocking_type"`
	FlockingOrigin  *string  `json:"flocking_origin"`
	FlockingDetail  *string  `json:"flocking_detail"`
	ConditionOrigin *string  `json:"condition_origin"`
	PhysicalState   *string  `json:"physical_state"`
	Size            *string  `json:"size"`
	PurchaseCost    *float64 `json:"purchase_cost"`
	Signed          *bool    `json:"signed"`
	SignedBy        *string  `json:"signed_by"`
	SignedProof     *bool    `json:"signed_proof"`
}

// IsEmpty reports whether the request changes nothing
func (r *UpdateCollectionRequest) IsEmpty() bool {
	return r.Category == nil && r.Notes == nil && r.FlockingType == nil &&
		r.FlockingOrigin == nil && r.FlockingDetail == nil && r.ConditionOrigin == nil &&
		r.PhysicalState == nil && r.Size == nil && r.PurchaseCost == nil &&
		r.Signed == nil && r.SignedBy == nil && r.SignedProof == nil
}

// ValueRange is a low/average/high summary of estimated prices
type ValueRange struct {
	Low     float64 `json:"low"`
	Average float64 `json:"average"`
	High    float64 `json:"high"`
}

type CollectionStats struct {
	TotalJerseys       int        `json:"total_jerseys"`
	EstimatedValue     ValueRange `json:"estimated_value"`
	ItemsWithEstimates int        `json:"items_with_estimates"`
}

type CategoryStats struct {
	Category       string     `json:"category"`
	Count          int        `json:"count"`
	EstimatedValue ValueRange `json:"estimated_value"`
}

type WishlistItem struct {
	WishlistID string    `json:"wishlist_id" gorm:"primaryKey"`
	UserID     string    `json:"user_id" gorm:"not null;uniqueIndex:idx_wish_user_version"`
	VersionID  string    `json:"version_id" gorm:"not null;uniqueIndex:idx_wish_user_version"`
	Version    *Version  `json:"version,omitempty" gorm:"foreignKey:VersionID;references:VersionID"`
	Notes      string    `json:"notes"`
	AddedAt    time.Time `json:"added_at" gorm:"index"`
}

type AddToWishlistRequest struct {
	VersionID string `json:"version_id" binding:"required"`
	Notes     string `json:"notes"`
}

// WishlistCheck reports whether a version is on the user's wishlist
type WishlistCheck struct {
	InWishlist bool    `json:"in_wishlist"`
	WishlistID *string `json:"wishlist_id"`
}
