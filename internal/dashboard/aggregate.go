package dashboard

import (
	"sort"
	"time"

	"parkdash/internal/models"
)

// Summary holds the stat-card values computed over the filtered list.
type Summary struct {
	TotalBookings  int   `json:"total_bookings"`
	ActiveBookings int   `json:"active_bookings"`
	TotalRevenue   int64 `json:"total_revenue"`
	DailyRevenue   int64 `json:"daily_revenue"`
}

// DistributionEntry is one slice of a group-by-count chart.
type DistributionEntry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TrendPoint is one calendar-day bucket of a trend chart. Date is
// YYYY-MM-DD; display shortening belongs to the client.
type TrendPoint struct {
	Date     string `json:"date"`
	Bookings int    `json:"bookings,omitempty"`
	Revenue  int64  `json:"revenue,omitempty"`
}

// Summarize recomputes the stat cards from scratch. Daily revenue only
// counts bookings whose start_date falls on now's calendar day.
func Summarize(records []models.Record, now time.Time) Summary {
	todayStart := startOfDay(now).Unix()
	todayEnd := endOfDay(now).Unix()

	var s Summary
	s.TotalBookings = len(records)
	for i := range records {
		r := &records[i]
		if r.DerivedStatus(now) == models.StatusActive {
			s.ActiveBookings++
		}
		amount := r.AmountValue()
		s.TotalRevenue += amount
		if r.StartDate != nil && r.StartDate.Seconds >= todayStart && r.StartDate.Seconds <= todayEnd {
			s.DailyRevenue += amount
		}
	}
	return s
}

// ParkingDistribution groups the filtered records by parking name.
func ParkingDistribution(records []models.Record) []DistributionEntry {
	return distribution(records, func(r *models.Record) string { return r.ParkingName })
}

// VehicleTypeDistribution groups the filtered records by vehicle type.
func VehicleTypeDistribution(records []models.Record) []DistributionEntry {
	return distribution(records, func(r *models.Record) string { return r.VehicleType })
}

func distribution(records []models.Record, key func(r *models.Record) string) []DistributionEntry {
	counts := make(map[string]int)
	for i := range records {
		name := key(&records[i])
		if name == "" {
			name = "Unknown"
		}
		counts[name]++
	}

	out := make([]DistributionEntry, 0, len(counts))
	for name, count := range counts {
		out = append(out, DistributionEntry{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Name < out[j].Name
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// DailyBookingTrend buckets records by the calendar date of start_date,
// chronological, truncated to the most recent days dates (non-positive
// days falls back to models.TrendWindowDays). Records without
// start_date are skipped.
func DailyBookingTrend(records []models.Record, days int) []TrendPoint {
	buckets := trendBuckets(records, days)
	out := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TrendPoint{Date: b.date, Bookings: b.count})
	}
	return out
}

// DailyRevenueTrend is the same bucketing with amounts summed.
func DailyRevenueTrend(records []models.Record, days int) []TrendPoint {
	buckets := trendBuckets(records, days)
	out := make([]TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, TrendPoint{Date: b.date, Revenue: b.revenue})
	}
	return out
}

type trendBucket struct {
	date    string
	count   int
	revenue int64
}

func trendBuckets(records []models.Record, days int) []trendBucket {
	if days <= 0 {
		days = models.TrendWindowDays
	}
	byDate := make(map[string]*trendBucket)
	for i := range records {
		r := &records[i]
		if r.StartDate == nil {
			continue
		}
		date := r.StartDate.Time().Format("2006-01-02")
		b, ok := byDate[date]
		if !ok {
			b = &trendBucket{date: date}
			byDate[date] = b
		}
		b.count++
		b.revenue += r.AmountValue()
	}

	out := make([]trendBucket, 0, len(byDate))
	for _, b := range byDate {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].date < out[j].date })

	if len(out) > days {
		out = out[len(out)-days:]
	}
	return out
}
