package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"parkdash/internal/dashboard"
	"parkdash/internal/domain"
	"parkdash/internal/events"
	"parkdash/internal/models"
	"parkdash/internal/store"

	"github.com/rs/zerolog"
)

// DashboardService keeps an in-memory snapshot of the booking collection
// and answers all dashboard queries from it. The store is hit only on
// Load; deletions patch the snapshot in place instead of re-fetching.
type DashboardService struct {
	store      store.Store
	collection string
	trendDays  int
	bus        domain.EventPublisher
	mirror     domain.MirrorEnqueuer
	logger     *zerolog.Logger

	mu       sync.RWMutex
	records  []models.Record
	loadedAt time.Time
}

func NewDashboardService(st store.Store, collection string, trendDays int, bus domain.EventPublisher, mirror domain.MirrorEnqueuer, logger *zerolog.Logger) *DashboardService {
	if trendDays <= 0 {
		trendDays = models.TrendWindowDays
	}
	return &DashboardService{
		store:      st,
		collection: collection,
		trendDays:  trendDays,
		bus:        bus,
		mirror:     mirror,
		logger:     logger,
	}
}

// SetMirror attaches the spreadsheet mirror enqueuer. The worker needs
// the service as its record source, so the two are wired after both
// exist.
func (s *DashboardService) SetMirror(mirror domain.MirrorEnqueuer) {
	s.mirror = mirror
}

// Load replaces the snapshot with the store's current contents.
func (s *DashboardService) Load(ctx context.Context) error {
	records, err := s.store.FetchAll(ctx, s.collection)
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	s.mu.Lock()
	s.records = records
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info().Int("records", len(records)).Str("collection", s.collection).Msg("snapshot loaded")
	return nil
}

// Records returns a copy of the snapshot.
func (s *DashboardService) Records() []models.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Record, len(s.records))
	copy(out, s.records)
	return out
}

// LoadedAt reports when the snapshot was last refreshed.
func (s *DashboardService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Delete removes the record from the store and, on success, patches the
// snapshot without a re-fetch. A failed delete leaves the snapshot
// untouched.
func (s *DashboardService) Delete(ctx context.Context, id, deletedBy string) error {
	if id == "" {
		return store.ErrNotFound
	}

	if err := s.store.DeleteByID(ctx, s.collection, id); err != nil {
		return err
	}

	// Queries read the snapshot header under RLock and keep iterating
	// after releasing it, so the old backing array must stay intact:
	// removal builds a fresh slice instead of shifting in place.
	var deleted *models.Record
	s.mu.Lock()
	for i := range s.records {
		if s.records[i].ID == id {
			rec := s.records[i]
			deleted = &rec
			next := make([]models.Record, 0, len(s.records)-1)
			next = append(next, s.records[:i]...)
			next = append(next, s.records[i+1:]...)
			s.records = next
			break
		}
	}
	s.mu.Unlock()

	payload := events.RecordDeletedPayload{RecordID: id, DeletedBy: deletedBy}
	if deleted != nil {
		payload.ParkingName = deleted.ParkingName
		payload.Name = deleted.Name
	}
	if err := s.bus.PublishJSON(events.EventRecordDeleted, payload); err != nil {
		s.logger.Error().Err(err).Str("record_id", id).Msg("failed to publish delete event")
	}

	if s.mirror != nil {
		if err := s.mirror.Enqueue(ctx, "record deleted"); err != nil {
			s.logger.Warn().Err(err).Msg("failed to enqueue mirror refresh")
		}
	}

	s.logger.Info().Str("record_id", id).Str("deleted_by", deletedBy).Msg("record deleted")
	return nil
}

// QueryResult is one page of the filtered, sorted collection.
type QueryResult struct {
	Page dashboard.Page
	Sort dashboard.Sort
}

// Query filters, sorts and paginates the snapshot.
func (s *DashboardService) Query(f dashboard.Filter, srt dashboard.Sort, page, pageSize int, now time.Time) QueryResult {
	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	filtered := dashboard.Apply(records, f, now)
	sorted := dashboard.ApplySort(filtered, srt)
	return QueryResult{
		Page: dashboard.Paginate(sorted, page, pageSize),
		Sort: srt,
	}
}

// StatsResult bundles the aggregate widgets computed over one filtered
// view of the collection.
type StatsResult struct {
	Summary         dashboard.Summary             `json:"summary"`
	ParkingUsage    []dashboard.DistributionEntry `json:"parking_usage"`
	VehicleTypes    []dashboard.DistributionEntry `json:"vehicle_types"`
	BookingTrend    []dashboard.TrendPoint        `json:"booking_trend"`
	RevenueTrend    []dashboard.TrendPoint        `json:"revenue_trend"`
	FilteredRecords int                           `json:"filtered_records"`
}

// Stats computes summary cards, distributions and trends over the
// filtered snapshot.
func (s *DashboardService) Stats(f dashboard.Filter, now time.Time) StatsResult {
	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	filtered := dashboard.Apply(records, f, now)
	return StatsResult{
		Summary:         dashboard.Summarize(filtered, now),
		ParkingUsage:    dashboard.ParkingDistribution(filtered),
		VehicleTypes:    dashboard.VehicleTypeDistribution(filtered),
		BookingTrend:    dashboard.DailyBookingTrend(filtered, s.trendDays),
		RevenueTrend:    dashboard.DailyRevenueTrend(filtered, s.trendDays),
		FilteredRecords: len(filtered),
	}
}

// Options lists the distinct filter choices present in the snapshot.
type Options struct {
	ParkingNames []string `json:"parking_names"`
	VehicleTypes []string `json:"vehicle_types"`
	Statuses     []string `json:"statuses"`
	PageSizes    []int    `json:"page_sizes"`
}

func (s *DashboardService) Options() Options {
	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	parkings := make(map[string]struct{})
	vehicles := make(map[string]struct{})
	for i := range records {
		if records[i].ParkingName != "" {
			parkings[records[i].ParkingName] = struct{}{}
		}
		if records[i].VehicleType != "" {
			vehicles[records[i].VehicleType] = struct{}{}
		}
	}

	return Options{
		ParkingNames: sortedKeys(parkings),
		VehicleTypes: sortedKeys(vehicles),
		Statuses:     []string{models.FilterAll, models.StatusActive, models.StatusCancelled},
		PageSizes:    append([]int(nil), models.PageSizes...),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
