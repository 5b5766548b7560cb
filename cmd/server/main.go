package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/codyseavey/kit-tracker/internal/api"
	"github.com/codyseavey/kit-tracker/internal/config"
	"github.com/codyseavey/kit-tracker/internal/database"
	"github.com/codyseavey/kit-tracker/internal/logger"
	"github.com/codyseavey/kit-tracker/internal/services"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	if err := database.Initialize(cfg.DBPath, cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	db := database.GetDB()

	// Initialize services
	estimationService := services.NewEstimationService(nil)
	catalogService, err := services.NewCatalogService(db, cfg.VersionCacheSize)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize catalog service")
	}
	collectionService := services.NewCollectionService(db, catalogService, estimationService)
	wishlistService := services.NewWishlistService(db, catalogService)
	snapshotService := services.NewSnapshotService(db, collectionService, cfg.SnapshotCron)
	revaluationWorker := services.NewRevaluationWorker(collectionService,
		time.Duration(cfg.RevaluationIntervalMinutes)*time.Minute, cfg.RevaluationBatchSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Run the snapshot scheduler in background, restarting after a panic
	go func() {
		for {
			returned := func() bool {
				defer func() {
					if r := recover(); r != nil {
						log.Error().Interface("panic", r).Msg("Snapshot service panicked, restarting in 30 seconds")
					}
				}()
				if err := snapshotService.Start(ctx); err != nil {
					log.Error().Err(err).Msg("Snapshot service disabled")
				}
				return true
			}()

			// Only a panic leaves returned false
			if returned {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(30 * time.Second):
				log.Info().Msg("Snapshot service restarting after panic recovery...")
			}
		}
	}()

	go revaluationWorker.Start(ctx)

	router := api.SetupRouter(cfg, api.Services{
		Estimation: estimationService,
		Catalog:    catalogService,
		Collection: collectionService,
		Wishlist:   wishlistService,
		Snapshot:   snapshotService,
		Revaluator: revaluationWorker,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	// Stop the snapshot scheduler and revaluation worker
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
