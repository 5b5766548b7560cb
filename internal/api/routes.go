package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/kit-tracker/internal/api/handlers"
	"github.com/codyseavey/kit-tracker/internal/config"
	"github.com/codyseavey/kit-tracker/internal/services"
)

// Services groups the dependencies the router wires into handlers
type Services struct {
	Estimation *services.EstimationService
	Catalog    *services.CatalogService
	Collection *services.CollectionService
	Wishlist   *services.WishlistService
	Snapshot   *services.SnapshotService
	Revaluator *services.RevaluationWorker
}

func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), RequestMetrics())

	serveFrontend := cfg.FrontendDistPath != "" && dirExists(cfg.FrontendDistPath)

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", UserHeader}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	estimationHandler := handlers.NewEstimationHandler(svc.Estimation)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog)
	collectionHandler := handlers.NewCollectionHandler(svc.Collection, svc.Snapshot)
	wishlistHandler := handlers.NewWishlistHandler(svc.Wishlist)
	revaluationHandler := handlers.NewRevaluationHandler(svc.Revaluator)

	api := router.Group("/api")
	api.Use(RateLimitWrites(cfg.RateLimitRPS, cfg.RateLimitBurst))
	{
		// Estimation is anonymous: the preview works before sign-in
		estimate := api.Group("/estimate")
		{
			estimate.POST("", estimationHandler.Estimate)
			estimate.GET("/options", estimationHandler.GetOptions)
		}

		kits := api.Group("/kits")
		{
			kits.GET("", catalogHandler.ListKits)
			kits.GET("/:id", catalogHandler.GetKit)
			kits.POST("", RequireUser(), catalogHandler.CreateKit)
		}

		versions := api.Group("/versions")
		{
			versions.GET("", catalogHandler.ListVersions)
			versions.GET("/:id", catalogHandler.GetVersion)
			versions.GET("/:id/estimates", catalogHandler.GetVersionEstimates)
			versions.POST("", RequireUser(), catalogHandler.CreateVersion)
		}

		collections := api.Group("/collections", RequireUser())
		{
			collections.GET("", collectionHandler.GetCollection)
			collections.POST("", collectionHandler.AddToCollection)
			collections.GET("/categories", collectionHandler.GetCategories)
			collections.GET("/stats", collectionHandler.GetStats)
			collections.GET("/category-stats", collectionHandler.GetCategoryStats)
			collections.GET("/history", collectionHandler.GetValueHistory)
			collections.POST("/revalue", revaluationHandler.QueueRevaluation)
			collections.PUT("/:id", collectionHandler.UpdateCollectionItem)
			collections.DELETE("/:id", collectionHandler.DeleteCollectionItem)
		}

		api.GET("/revaluation/status", revaluationHandler.GetRevaluationStatus)

		wishlist := api.Group("/wishlist", RequireUser())
		{
			wishlist.GET("", wishlistHandler.GetWishlist)
			wishlist.POST("", wishlistHandler.AddToWishlist)
			wishlist.DELETE("/:id", wishlistHandler.RemoveFromWishlist)
			wishlist.GET("/check/:version_id", wishlistHandler.CheckWishlist)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if serveFrontend {
		indexPath := filepath.Join(cfg.FrontendDistPath, "index.html")

		router.Static("/assets", filepath.Join(cfg.FrontendDistPath, "assets"))
		router.StaticFile("/vite.svg", filepath.Join(cfg.FrontendDistPath, "vite.svg"))
		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(indexPath)
		})
	}

	return router
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
