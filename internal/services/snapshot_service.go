package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/codyseavey/kit-tracker/internal/metrics"
	"github.com/codyseavey/kit-tracker/internal/models"
)

// DefaultSnapshotSchedule records values every day at 11 PM UTC
const DefaultSnapshotSchedule = "0 23 * * *"

// SnapshotService records each collector's daily collection value
type SnapshotService struct {
	mu          sync.Mutex
	db          *gorm.DB
	collections *CollectionService
	schedule    string
	now         func() time.Time
}

// NewSnapshotService creates a snapshot service running on a standard
// five-field cron schedule
func NewSnapshotService(db *gorm.DB, collections *CollectionService, schedule string) *SnapshotService {
	if schedule == "" {
		schedule = DefaultSnapshotSchedule
	}
	return &SnapshotService{
		db:          db,
		collections: collections,
		schedule:    schedule,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Start schedules snapshots and blocks until ctx is cancelled. A snapshot is
// taken on startup when today's has not been recorded yet.
func (s *SnapshotService) Start(ctx context.Context) error {
	cl := cronLogger{}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", s.schedule, err)
	}

	if !s.hasSnapshotForToday() {
		s.run()
	}

	c.Start()
	log.Info().Str("schedule", s.schedule).Msg("Snapshot service started")

	<-ctx.Done()
	log.Info().Msg("Snapshot service stopping...")
	<-c.Stop().Done()
	return nil
}

func (s *SnapshotService) run() {
	if _, err := s.TakeSnapshots(); err != nil {
		log.Error().Err(err).Msg("Snapshot service: failed to take snapshots")
	}
}

// TakeSnapshots upserts today's snapshot for every user owning a jersey and
// returns how many were written
func (s *SnapshotService) TakeSnapshots() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	defer func() { metrics.SnapshotDuration.Observe(time.Since(start).Seconds()) }()

	var users []string
	if err := s.db.Model(&models.CollectionItem{}).Distinct().Pluck("user_id", &users).Error; err != nil {
		metrics.SnapshotsTotal.WithLabelValues("error").Inc()
		return 0, err
	}

	now := s.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	written := 0
	for _, userID := range users {
		if err := s.snapshotUser(userID, day, now); err != nil {
			metrics.SnapshotsTotal.WithLabelValues("error").Inc()
			log.Warn().Err(err).Str("user_id", userID).Msg("Snapshot failed")
			continue
		}
		metrics.SnapshotsTotal.WithLabelValues("success").Inc()
		written++
	}

	log.Info().
		Str("date", day.Format("2006-01-02")).
		Int("users", len(users)).
		Int("written", written).
		Msg("Recorded collection value snapshots")
	return written, nil
}

func (s *SnapshotService) snapshotUser(userID string, day, now time.Time) error {
	stats, err := s.collections.Stats(userID)
	if err != nil {
		return err
	}

	snapshot := models.CollectionValueSnapshot{
		UserID:             userID,
		SnapshotDate:       day,
		TotalJerseys:       stats.TotalJerseys,
		ItemsWithEstimates: stats.ItemsWithEstimates,
		TotalValue:         stats.EstimatedValue.Average,
		CreatedAt:          now,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "snapshot_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_jerseys", "items_with_estimates", "total_value", "created_at"}),
	}).Create(&snapshot).Error
}

// hasSnapshotForToday reports whether every collection owner already has
// today's snapshot. Errors report false since snapshots are upserted.
func (s *SnapshotService) hasSnapshotForToday() bool {
	now := s.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	recorded := s.db.Model(&models.CollectionValueSnapshot{}).
		Select("user_id").
		Where("snapshot_date >= ? AND snapshot_date < ?", day, day.Add(24*time.Hour))

	var missing int64
	err := s.db.Model(&models.CollectionItem{}).
		Where("user_id NOT IN (?)", recorded).
		Distinct("user_id").
		Count(&missing).Error
	if err != nil {
		log.Warn().Err(err).Msg("Snapshot service: failed to check today's snapshots")
		return false
	}
	return missing == 0
}

// History retrieves a user's snapshots for a period, oldest first
func (s *SnapshotService) History(userID, period string) ([]models.CollectionValueSnapshot, error) {
	now := s.now()
	var startDate time.Time

	switch period {
	case "week":
		startDate = now.AddDate(0, 0, -7)
	case "month":
		startDate = now.AddDate(0, -1, 0)
	case "3month":
		startDate = now.AddDate(0, -3, 0)
	case "year":
		startDate = now.AddDate(-1, 0, 0)
	case "all":
	default:
		startDate = now.AddDate(0, -1, 0)
	}

	query := s.db.Where("user_id = ?", userID).Order("snapshot_date ASC")
	if !startDate.IsZero() {
		query = query.Where("snapshot_date >= ?", startDate)
	}

	snapshots := []models.CollectionValueSnapshot{}
	if err := query.Find(&snapshots).Error; err != nil {
		return nil, err
	}
	return snapshots, nil
}

// NormalizePeriod maps unknown periods to "month"
func NormalizePeriod(period string) string {
	switch period {
	case "week", "month", "3month", "year", "all":
		return period
	}
	return "month"
}

// cronLogger routes cron's internal logging through zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
