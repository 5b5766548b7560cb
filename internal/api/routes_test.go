package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/codyseavey/kit-tracker/internal/config"
	"github.com/codyseavey/kit-tracker/internal/database"
	"github.com/codyseavey/kit-tracker/internal/estimation"
	"github.com/codyseavey/kit-tracker/internal/models"
	"github.com/codyseavey/kit-tracker/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "api.db"), logger.Silent)
	require.NoError(t, err)

	catalog, err := services.NewCatalogService(db, 16)
	require.NoError(t, err)
	est := services.NewEstimationService(estimation.YearClock(2025))
	collections := services.NewCollectionService(db, catalog, est)

	cfg := &config.Config{
		CORSAllowedOrigins: []string{"http://localhost:5173"},
		RateLimitRPS:       0, // disabled
	}
	return SetupRouter(cfg, Services{
		Estimation: est,
		Catalog:    catalog,
		Collection: collections,
		Wishlist:   services.NewWishlistService(db, catalog),
		Snapshot:   services.NewSnapshotService(db, collections, ""),
		Revaluator: services.NewRevaluationWorker(collections, 0, 0),
	})
}

func doRequest(t *testing.T, router *gin.Engine, method, path, user string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(UserHeader, user)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestEstimateEndpoint(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name      string
		body      string
		wantBase  float64
		wantModel string
		wantPrice float64
		wantCount int
	}{
		{
			name:      "empty body defaults to replica",
			body:      `{}`,
			wantBase:  90,
			wantModel: "Replica",
			wantPrice: 90,
		},
		{
			name:      "explicit empty model type falls back to 60",
			body:      `{"model_type": ""}`,
			wantBase:  60,
			wantModel: "",
			wantPrice: 60,
		},
		{
			name:      "authentic match worn signed",
			body:      `{"model_type":"Authentic","competition":"Continental Cup","condition_origin":"Match Worn","signed":true,"signed_proof":true}`,
			wantBase:  140,
			wantModel: "Authentic",
			wantPrice: 840, // 140 x (1 + 1.0 + 1.5 + 1.5 + 1.0)
			wantCount: 4,
		},
		{
			name:      "free text season",
			body:      `{"model_type":"Replica","season":"2015/2016"}`,
			wantBase:  90,
			wantModel: "Replica",
			wantPrice: 135, // ten years at 0.05
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, router, http.MethodPost, "/api/estimate", "", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			res := decode[estimation.Result](t, w)
			assert.Equal(t, tt.wantBase, res.BasePrice)
			assert.Equal(t, tt.wantModel, res.ModelType)
			assert.Equal(t, tt.wantPrice, res.EstimatedPrice)
			assert.Len(t, res.Breakdown, tt.wantCount)
		})
	}
}

func TestEstimateEndpointRejectsBadJSON(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/estimate", "", `{"signed": "yes"`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestEstimateOptions(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/estimate/options", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode[map[string]json.RawMessage](t, w)
	var modelTypes []string
	require.NoError(t, json.Unmarshal(body["model_types"], &modelTypes))
	assert.Equal(t, []string{"Authentic", "Other", "Replica"}, modelTypes)

	var opts estimation.Options
	require.NoError(t, json.Unmarshal(body["coefficients"], &opts))
	assert.Equal(t, 1.5, opts.SignedCoeff)
	assert.Equal(t, 140.0, opts.ModelTypes["Authentic"])
}

func TestUserScopedRoutesRequireHeader(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/collections", "/api/collections/stats", "/api/wishlist"} {
		w := doRequest(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := doRequest(t, router, http.MethodPost, "/api/kits", "", models.CreateKitRequest{Club: "x", Season: "2020", KitType: "Home", Brand: "y"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func createVersion(t *testing.T, router *gin.Engine) models.Version {
	t.Helper()

	w := doRequest(t, router, http.MethodPost, "/api/kits", "admin", models.CreateKitRequest{
		Club: "FC Nantes", Season: "2020/2021", KitType: "Home", Brand: "Macron",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	kit := decode[models.MasterKit](t, w)

	w = doRequest(t, router, http.MethodPost, "/api/versions", "admin", models.CreateVersionRequest{
		KitID: kit.KitID, Competition: "National Cup", Model: "Replica",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Version](t, w)
}

func TestCollectionLifecycle(t *testing.T) {
	router := newTestRouter(t)
	version := createVersion(t, router)

	// Client-supplied prices are ignored: Replica 90 x (1 + 0.05 cup + 0.25 age)
	w := doRequest(t, router, http.MethodPost, "/api/collections", "u1", map[string]any{
		"version_id":      version.VersionID,
		"estimated_price": 9999,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[models.CollectionItem](t, w)
	require.NotNil(t, item.EstimatedPrice)
	assert.Equal(t, 117.0, *item.EstimatedPrice)
	assert.Equal(t, "General", item.Category)

	w = doRequest(t, router, http.MethodPost, "/api/collections", "u1", map[string]any{"version_id": version.VersionID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/collections", "u1", map[string]any{"version_id": "ver_missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/collections", "u1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Marking it match worn recomputes: 90 x (1 + 0.05 + 0.25 + 1.5)
	w = doRequest(t, router, http.MethodPut, "/api/collections/"+item.CollectionID, "u1", map[string]any{"condition_origin": "Match Worn"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.CollectionItem](t, w)
	assert.Equal(t, 252.0, *updated.EstimatedPrice)

	w = doRequest(t, router, http.MethodPut, "/api/collections/"+item.CollectionID, "u1", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, router, http.MethodGet, "/api/collections/stats", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[models.CollectionStats](t, w)
	assert.Equal(t, 1, stats.TotalJerseys)
	assert.Equal(t, models.ValueRange{Low: 252, Average: 252, High: 252}, stats.EstimatedValue)

	w = doRequest(t, router, http.MethodGet, "/api/versions/"+version.VersionID+"/estimates", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	estimates := decode[models.VersionEstimates](t, w)
	assert.Equal(t, 1, estimates.Count)
	assert.Equal(t, 252.0, estimates.Average)

	w = doRequest(t, router, http.MethodGet, "/api/collections/categories", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"General"}, decode[[]string](t, w))

	w = doRequest(t, router, http.MethodGet, "/api/collections/history?period=bogus", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[models.ValueHistoryResponse](t, w)
	assert.Equal(t, "month", history.Period)
	assert.NotNil(t, history.Snapshots)

	// Another user cannot see or delete it
	w = doRequest(t, router, http.MethodDelete, "/api/collections/"+item.CollectionID, "u2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = doRequest(t, router, http.MethodGet, "/api/collections", "u2", nil)
	assert.Empty(t, decode[[]models.CollectionItem](t, w))

	w = doRequest(t, router, http.MethodDelete, "/api/collections/"+item.CollectionID, "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodGet, "/api/collections", "u1", nil)
	assert.Empty(t, decode[[]models.CollectionItem](t, w))
}

func TestWishlistRoutes(t *testing.T) {
	router := newTestRouter(t)
	version := createVersion(t, router)

	w := doRequest(t, router, http.MethodGet, "/api/wishlist/check/"+version.VersionID, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"in_wishlist": false, "wishlist_id": null}`, w.Body.String())

	w = doRequest(t, router, http.MethodPost, "/api/wishlist", "u1", models.AddToWishlistRequest{VersionID: version.VersionID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	item := decode[models.WishlistItem](t, w)

	w = doRequest(t, router, http.MethodGet, "/api/wishlist/check/"+version.VersionID, "u1", nil)
	check := decode[models.WishlistCheck](t, w)
	assert.True(t, check.InWishlist)
	require.NotNil(t, check.WishlistID)
	assert.Equal(t, item.WishlistID, *check.WishlistID)

	w = doRequest(t, router, http.MethodDelete, "/api/wishlist/"+item.WishlistID, "u1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, router, http.MethodDelete, "/api/wishlist/"+item.WishlistID, "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogNotFound(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/api/kits/kit_missing", "/api/versions/ver_missing", "/api/versions/ver_missing/estimates"} {
		w := doRequest(t, router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	doRequest(t, router, http.MethodPost, "/api/estimate", "", `{}`)
	w = doRequest(t, router, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "kit_estimations_total")
	assert.Contains(t, w.Body.String(), "kit_http_requests_total")
}

func TestRevaluationRoutes(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/api/collections/revalue", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, router, http.MethodPost, "/api/collections/revalue", "u1", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.JSONEq(t, `{"message":"Collection queued for revaluation","queue_position":1}`, w.Body.String())

	w = doRequest(t, router, http.MethodGet, "/api/revaluation/status", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decode[services.RevaluationStatus](t, w)
	assert.Equal(t, 1, status.QueueSize)
	assert.Equal(t, 2025, status.CurrentYear)
	assert.Equal(t, int64(0), status.StaleItems)
}
