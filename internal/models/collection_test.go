package models

import (
	"strings"
	"testing"
	"time"
)

func TestNewID(t *testing.T) {
	tests := []struct {
		prefix string
	}{
		{"col"},
		{"wish"},
		{"ver"},
		{"kit"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			id := NewID(tt.prefix)
			if !strings.HasPrefix(id, tt.prefix+"_") {
				t.Errorf("NewID(%s) = %s, missing prefix", tt.prefix, id)
			}
			if len(id) != len(tt.prefix)+1+12 {
				t.Errorf("NewID(%s) = %s, want 12 hex characters after prefix", tt.prefix, id)
			}
			if NewID(tt.prefix) == id {
				t.Errorf("NewID(%s) returned the same id twice", tt.prefix)
			}
		})
	}
}

func TestSetEstimatedPriceSyncsMirrors(t *testing.T) {
	var item CollectionItem
	if item.HasEstimate() {
		t.Fatal("new item should not have an estimate")
	}

	at := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	item.SetEstimatedPrice(112.5, at)

	for name, p := range map[string]*float64{
		"estimated_price": item.EstimatedPrice,
		"price_estimate":  item.PriceEstimate,
		"value_estimate":  item.ValueEstimate,
	} {
		if p == nil || *p != 112.5 {
			t.Errorf("%s = %v, want 112.5", name, p)
		}
	}
	if !item.HasEstimate() {
		t.Error("item with positive price should have an estimate")
	}
	if item.EstimatedAt == nil || !item.EstimatedAt.Equal(at) {
		t.Errorf("estimated_at = %v, want %v", item.EstimatedAt, at)
	}

	item.SetEstimatedPrice(0, at)
	if item.HasEstimate() {
		t.Error("zero price should not count as an estimate")
	}
}

func TestUpdateCollectionRequestIsEmpty(t *testing.T) {
	var req UpdateCollectionRequest
	if !req.IsEmpty() {
		t.Error("zero request should be empty")
	}

	signed := false
	req.Signed = &signed
	if req.IsEmpty() {
		t.Error("request setting signed=false should not be empty")
	}

	notes := ""
	req = UpdateCollectionRequest{Notes: &notes}
	if req.IsEmpty() {
		t.Error("request clearing notes should not be empty")
	}
}
