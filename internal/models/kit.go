package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a short random identifier such as "col_1a2b3c4d5e6f"
func NewID(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// MasterKit is a jersey design for a club, season and kit type
type MasterKit struct {
	KitID      string    `json:"kit_id" gorm:"primaryKey"`
	Club       string    `json:"club" gorm:"not null;index"`
	Season     string    `json:"season" gorm:"not null"` // free text, e.g. "2024/2025"
	KitType    string    `json:"kit_type" gorm:"not null"`
	Brand      string    `json:"brand" gorm:"not null"`
	League     string    `json:"league"`
	FrontPhoto string    `json:"front_photo"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Version is a specific competition/model variant of a MasterKit
type Version struct {
	VersionID   string    `json:"version_id" gorm:"primaryKey"`
	KitID       string    `json:"kit_id" gorm:"not null;index"`
	Kit         MasterKit `json:"master_kit" gorm:"foreignKey:KitID;references:KitID"`
	Competition string    `json:"competition"`
	Model       string    `json:"model"` // Authentic, Replica or Other
	SKUCode     string    `json:"sku_code"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateKitRequest struct {
	Club       string `json:"club" binding:"required"`
	Season     string `json:"season" binding:"required"`
	KitType    string `json:"kit_type" binding:"required"`
	Brand      string `json:"brand" binding:"required"`
	League     string `json:"league"`
	FrontPhoto string `json:"front_photo"`
}

type CreateVersionRequest struct {
	KitID       string `json:"kit_id" binding:"required"`
	Competition string `json:"competition" binding:"required"`
	Model       string `json:"model" binding:"required"`
	SKUCode     string `json:"sku_code"`
}

// VersionEstimates aggregates the estimated prices collectors stored for a version
type VersionEstimates struct {
	Low       float64   `json:"low"`
	Average   float64   `json:"average"`
	High      float64   `json:"high"`
	Count     int       `json:"count"`
	Estimates []float64 `json:"estimates"`
}
