package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/codyseavey/kit-tracker/internal/metrics"
	"github.com/codyseavey/kit-tracker/internal/models"
)

const (
	defaultRevaluationBatchSize = 100
	defaultRevaluationInterval  = time.Hour
)

// RevaluationWorker keeps stored estimates current. The age coefficient grows
// every January, so any estimate computed in an earlier year is stale.
type RevaluationWorker struct {
	collections    *CollectionService
	updateInterval time.Duration
	batchSize      int
	mu             sync.RWMutex

	// Users who asked for their whole collection to be revalued
	urgentQueue []string
	urgentMu    sync.Mutex

	// Stats (reset at midnight UTC)
	itemsRevaluedToday int
	lastUpdateTime     time.Time
	lastStatsDay       time.Time
}

type RevaluationStatus struct {
	LastUpdateTime     time.Time `json:"last_update_time"`
	NextUpdateTime     time.Time `json:"next_update_time"`
	ItemsRevaluedToday int       `json:"items_revalued_today"`
	BatchSize          int       `json:"batch_size"`
	QueueSize          int       `json:"queue_size"`
	StaleItems         int64     `json:"stale_items"`
	CurrentYear        int       `json:"current_year"`
}

func NewRevaluationWorker(collections *CollectionService, interval time.Duration, batchSize int) *RevaluationWorker {
	if interval <= 0 {
		interval = defaultRevaluationInterval
	}
	if batchSize <= 0 {
		batchSize = defaultRevaluationBatchSize
	}
	return &RevaluationWorker{
		collections:    collections,
		updateInterval: interval,
		batchSize:      batchSize,
	}
}

// QueueUser schedules all of a user's items for the next batch and returns
// the user's 1-indexed queue position
func (w *RevaluationWorker) QueueUser(userID string) int {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()

	if i := slices.Index(w.urgentQueue, userID); i >= 0 {
		return i + 1
	}
	w.urgentQueue = append(w.urgentQueue, userID)
	log.Info().Str("user_id", userID).Int("queue_size", len(w.urgentQueue)).Msg("Revaluation worker: queued collection")
	return len(w.urgentQueue)
}

func (w *RevaluationWorker) GetQueueSize() int {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()
	return len(w.urgentQueue)
}

// requeue puts users back at the head of the queue after a failed batch
func (w *RevaluationWorker) requeue(users []string) {
	w.urgentMu.Lock()
	defer w.urgentMu.Unlock()

	queue := slices.Clone(users)
	for _, u := range w.urgentQueue {
		if !slices.Contains(queue, u) {
			queue = append(queue, u)
		}
	}
	w.urgentQueue = queue
}

func (w *RevaluationWorker) resetDailyStatsIfNeeded() {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if w.lastStatsDay.Before(today) {
		if !w.lastStatsDay.IsZero() {
			log.Info().Int("items", w.itemsRevaluedToday).Msg("Revaluation worker: daily stats reset")
		}
		w.itemsRevaluedToday = 0
		w.lastStatsDay = today
	}
}

// Start runs batches on a ticker until ctx is cancelled
func (w *RevaluationWorker) Start(ctx context.Context) {
	log.Info().
		Int("batch_size", w.batchSize).
		Dur("interval", w.updateInterval).
		Msg("Revaluation worker started")

	if updated, err := w.UpdateBatch(); err != nil {
		log.Error().Err(err).Msg("Revaluation worker: initial batch failed")
	} else {
		log.Info().Int("items", updated).Msg("Revaluation worker: initial batch done")
	}

	ticker := time.NewTicker(w.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Revaluation worker stopping...")
			return
		case <-ticker.C:
			if updated, err := w.UpdateBatch(); err != nil {
				log.Error().Err(err).Msg("Revaluation worker: batch failed")
			} else if updated > 0 {
				log.Info().Int("items", updated).Msg("Revaluation worker: batch done")
			}
		}
	}
}

// UpdateBatch re-estimates one batch of items with priority ordering:
// 1. Every item of users who requested a revaluation
// 2. Items never estimated or estimated before the current year, oldest first
func (w *RevaluationWorker) UpdateBatch() (int, error) {
	w.resetDailyStatsIfNeeded()

	db := w.collections.db
	var items []models.CollectionItem

	w.urgentMu.Lock()
	urgentUsers := w.urgentQueue
	w.urgentQueue = nil
	w.urgentMu.Unlock()

	if len(urgentUsers) > 0 {
		if err := db.Where("user_id IN ?", urgentUsers).Find(&items).Error; err != nil {
			w.requeue(urgentUsers)
			return 0, err
		}
		log.Info().Int("users", len(urgentUsers)).Int("items", len(items)).Msg("Revaluation worker: processing requested collections")
	}

	if remaining := w.batchSize - len(items); remaining > 0 {
		var stale []models.CollectionItem
		query := w.staleQuery().Order("estimated_at ASC").Limit(remaining)
		if len(items) > 0 {
			ids := make([]string, len(items))
			for i, it := range items {
				ids[i] = it.CollectionID
			}
			query = query.Where("collection_id NOT IN ?", ids)
		}
		if err := query.Find(&stale).Error; err != nil {
			return 0, err
		}
		items = append(items, stale...)
	}

	if len(items) == 0 {
		log.Debug().Msg("Revaluation worker: no items to update")
		return 0, nil
	}

	return w.revalue(items)
}

func (w *RevaluationWorker) revalue(items []models.CollectionItem) (int, error) {
	start := time.Now()
	defer func() { metrics.RevaluationBatchDuration.Observe(time.Since(start).Seconds()) }()

	db := w.collections.db
	now := time.Now().UTC()
	updated := 0

	for i := range items {
		item := &items[i]

		version, err := w.collections.catalog.GetVersion(item.VersionID)
		if errors.Is(err, ErrVersionNotFound) {
			log.Warn().Str("collection_id", item.CollectionID).Str("version_id", item.VersionID).Msg("Revaluation worker: version missing, skipping")
			continue
		}
		if err != nil {
			return updated, err
		}

		est := w.collections.estimation.RevalueItem(item, version)

		err = db.Model(&models.CollectionItem{}).
			Where("collection_id = ?", item.CollectionID).
			Updates(map[string]interface{}{
				"estimated_price": est.EstimatedPrice,
				"price_estimate":  est.EstimatedPrice,
				"value_estimate":  est.EstimatedPrice,
				"estimated_at":    now,
			}).Error
		if err != nil {
			return updated, err
		}

		changed := !item.HasEstimate() || *item.EstimatedPrice != est.EstimatedPrice
		if changed {
			metrics.ItemsRevaluedTotal.WithLabelValues("true").Inc()
		} else {
			metrics.ItemsRevaluedTotal.WithLabelValues("false").Inc()
		}
		updated++
	}

	w.mu.Lock()
	w.itemsRevaluedToday += updated
	w.lastUpdateTime = now
	w.mu.Unlock()

	w.collections.refreshMetrics()
	log.Info().Int("items", updated).Dur("took", time.Since(start)).Msg("Revaluation worker: batch revalued")
	return updated, nil
}

// staleCutoff is January 1st of the year estimates are computed against
func (w *RevaluationWorker) staleCutoff() time.Time {
	return time.Date(w.collections.estimation.CurrentYear(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// staleQuery selects outdated items whose version still exists. Orphans can
// never be re-estimated and would otherwise head every batch.
func (w *RevaluationWorker) staleQuery() *gorm.DB {
	db := w.collections.db
	return db.Model(&models.CollectionItem{}).
		Where("(estimated_at IS NULL OR estimated_at < ?)", w.staleCutoff()).
		Where("version_id IN (?)", db.Model(&models.Version{}).Select("version_id"))
}

func (w *RevaluationWorker) GetStatus() RevaluationStatus {
	var stale int64
	if err := w.staleQuery().Count(&stale).Error; err != nil {
		log.Warn().Err(err).Msg("Revaluation worker: failed to count stale items")
	}

	w.mu.RLock()
	defer w.mu.RUnlock()

	next := w.lastUpdateTime.Add(w.updateInterval)
	if w.lastUpdateTime.IsZero() {
		next = time.Now().UTC()
	}
	return RevaluationStatus{
		LastUpdateTime:     w.lastUpdateTime,
		NextUpdateTime:     next,
		ItemsRevaluedToday: w.itemsRevaluedToday,
		BatchSize:          w.batchSize,
		QueueSize:          w.GetQueueSize(),
		StaleItems:         stale,
		CurrentYear:        w.collections.estimation.CurrentYear(),
	}
}
