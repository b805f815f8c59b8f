package dashboard

import (
	"fmt"
	"testing"
	"time"

	"parkdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeRevenue(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	today := models.NewTimestamp(now)
	yesterday := models.NewTimestamp(now.AddDate(0, 0, -1))

	records := []models.Record{
		{ID: "1", Amount: "100", StartDate: today, Status: true},
		{ID: "2", Amount: "250", StartDate: yesterday, Status: true},
		{ID: "3", Amount: "", StartDate: today, Status: true},    // absent amount
		{ID: "4", Amount: "x", StartDate: yesterday, Status: true}, // unparseable
	}

	s := Summarize(records, now)
	assert.Equal(t, 4, s.TotalBookings)
	assert.Equal(t, int64(350), s.TotalRevenue)
	assert.Equal(t, int64(100), s.DailyRevenue)
}

func TestSummarizeActiveCount(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	records := []models.Record{
		{ID: "active", Status: true},
		{ID: "running", Status: true,
			StartTime: models.NewTimestamp(now.Add(-time.Hour)),
			EndTime:   models.NewTimestamp(now.Add(time.Hour))},
		{ID: "scheduled", Status: true,
			StartTime: models.NewTimestamp(now.Add(time.Hour)),
			EndTime:   models.NewTimestamp(now.Add(2 * time.Hour))},
		{ID: "cancelled", Status: true, IsCancel: true},
		{ID: "disabled", Status: false},
	}

	s := Summarize(records, now)
	assert.Equal(t, 5, s.TotalBookings)
	assert.Equal(t, 2, s.ActiveBookings)
}

func TestDistributions(t *testing.T) {
	records := []models.Record{
		{ParkingName: "Central Plaza", VehicleType: "Sedan"},
		{ParkingName: "Central Plaza", VehicleType: "SUV"},
		{ParkingName: "Station Road", VehicleType: "Sedan"},
		{ParkingName: "", VehicleType: ""},
	}

	parkings := ParkingDistribution(records)
	require.Len(t, parkings, 3)
	assert.Equal(t, DistributionEntry{Name: "Central Plaza", Count: 2}, parkings[0])

	total := 0
	for _, e := range parkings {
		total += e.Count
	}
	assert.Equal(t, len(records), total)

	vehicles := VehicleTypeDistribution(records)
	assert.Contains(t, vehicles, DistributionEntry{Name: "Unknown", Count: 1})
}

func TestDailyTrends(t *testing.T) {
	base := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	records := []models.Record{
		{StartDate: models.NewTimestamp(base), Amount: "100"},
		{StartDate: models.NewTimestamp(base.Add(2 * time.Hour)), Amount: "50"},
		{StartDate: models.NewTimestamp(base.AddDate(0, 0, 1)), Amount: "200"},
		{Amount: "999"}, // no start_date, skipped
	}

	bookings := DailyBookingTrend(records, models.TrendWindowDays)
	require.Len(t, bookings, 2)
	assert.Equal(t, "2026-08-20", bookings[0].Date)
	assert.Equal(t, 2, bookings[0].Bookings)
	assert.Equal(t, "2026-08-21", bookings[1].Date)
	assert.Equal(t, 1, bookings[1].Bookings)

	revenue := DailyRevenueTrend(records, models.TrendWindowDays)
	require.Len(t, revenue, 2)
	assert.Equal(t, int64(150), revenue[0].Revenue)
	assert.Equal(t, int64(200), revenue[1].Revenue)
}

func TestTrendWindowTruncation(t *testing.T) {
	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	var records []models.Record
	for i := 0; i < models.TrendWindowDays+6; i++ {
		records = append(records, models.Record{
			ID:        fmt.Sprintf("r%d", i),
			StartDate: models.NewTimestamp(base.AddDate(0, 0, i)),
		})
	}

	got := DailyBookingTrend(records, models.TrendWindowDays)
	require.Len(t, got, models.TrendWindowDays)
	// The oldest days fall off; the newest stays.
	assert.Equal(t, base.AddDate(0, 0, 6).Format("2006-01-02"), got[0].Date)
	assert.Equal(t, base.AddDate(0, 0, models.TrendWindowDays+5).Format("2006-01-02"), got[len(got)-1].Date)
}

func TestTrendWindowConfigurable(t *testing.T) {
	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	var records []models.Record
	for i := 0; i < 10; i++ {
		records = append(records, models.Record{
			ID:        fmt.Sprintf("r%d", i),
			StartDate: models.NewTimestamp(base.AddDate(0, 0, i)),
		})
	}

	got := DailyBookingTrend(records, 3)
	require.Len(t, got, 3)
	assert.Equal(t, base.AddDate(0, 0, 7).Format("2006-01-02"), got[0].Date)

	// Non-positive window falls back to the stock depth.
	got = DailyBookingTrend(records, 0)
	assert.Len(t, got, 10)
}
