package dashboard

import (
	"testing"
	"time"

	"parkdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, dayOfMonth, hour, minute int) *models.Timestamp {
	return models.NewTimestamp(time.Date(year, month, dayOfMonth, hour, minute, 0, 0, time.UTC))
}

func testRecords() []models.Record {
	return []models.Record{
		{
			ID:            "r1",
			ParkingName:   "Central Plaza",
			VehicleType:   "Sedan",
			VehicleNumber: "MH12AB1234",
			Name:          "Ravi Sharma",
			PhoneNo:       "9876543210",
			TokenNo:       "4512",
			Amount:        "150",
			StartDate:     day(2026, 8, 27, 10, 0),
			Status:        true,
		},
		{
			ID:          "r2",
			ParkingName: "Station Road",
			VehicleType: "SUV",
			Name:        "Priya Patil",
			PhoneNo:     "9822001122",
			StartDate:   day(2026, 8, 28, 23, 59),
			Status:      true,
		},
		{
			ID:          "r3",
			ParkingName: "Central Plaza",
			VehicleType: "Bike",
			Name:        "Amit Kulkarni",
			StartDate:   day(2026, 8, 29, 0, 0),
			Status:      true,
			IsCancel:    true,
		},
		{
			ID:          "r4",
			ParkingName: "Station Road",
			VehicleType: "Sedan",
			Name:        "No Date",
			Status:      true,
		},
	}
}

func TestApplyNeutralFilterKeepsEverything(t *testing.T) {
	records := testRecords()
	got := Apply(records, NewFilter(), time.Now())
	assert.Len(t, got, len(records))
}

func TestApplyDateRange(t *testing.T) {
	records := testRecords()
	f := NewFilter()
	f.Start = time.Date(2026, 8, 27, 15, 30, 0, 0, time.UTC) // intraday time is ignored
	f.End = time.Date(2026, 8, 28, 1, 0, 0, 0, time.UTC)

	got := Apply(records, f, time.Now())

	ids := recordIDs(got)
	// r2 books at 23:59 on the end day and is still inside; r3 starts the
	// next day at 00:00 and is out; r4 has no start_date at all.
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids)
}

func TestApplyDateRangeNeedsBothEnds(t *testing.T) {
	records := testRecords()
	f := NewFilter()
	f.Start = time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)

	got := Apply(records, f, time.Now())
	assert.Len(t, got, len(records), "open-ended range should be inactive")
}

func TestApplyCategoryFilters(t *testing.T) {
	records := testRecords()

	f := NewFilter()
	f.ParkingName = "Central Plaza"
	got := Apply(records, f, time.Now())
	assert.ElementsMatch(t, []string{"r1", "r3"}, recordIDs(got))

	f = NewFilter()
	f.VehicleType = "Sedan"
	got = Apply(records, f, time.Now())
	assert.ElementsMatch(t, []string{"r1", "r4"}, recordIDs(got))
}

func TestApplyStatusCancelled(t *testing.T) {
	records := testRecords()
	f := NewFilter()
	f.Status = models.StatusCancelled

	got := Apply(records, f, time.Now())
	require.Len(t, got, 1)
	assert.Equal(t, "r3", got[0].ID)
}

func TestApplyStatusActiveTimeWindow(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	records := []models.Record{
		{ID: "running", Status: true,
			StartTime: models.NewTimestamp(now.Add(-time.Hour)),
			EndTime:   models.NewTimestamp(now.Add(time.Hour))},
		{ID: "finished", Status: true,
			StartTime: models.NewTimestamp(now.Add(-3 * time.Hour)),
			EndTime:   models.NewTimestamp(now.Add(-2 * time.Hour))},
		{ID: "windowless", Status: true},
		{ID: "disabled", Status: false},
		{ID: "cancelled", Status: true, IsCancel: true,
			StartTime: models.NewTimestamp(now.Add(-time.Hour)),
			EndTime:   models.NewTimestamp(now.Add(time.Hour))},
	}

	f := NewFilter()
	f.Status = models.StatusActive
	got := Apply(records, f, now)

	assert.ElementsMatch(t, []string{"running", "windowless"}, recordIDs(got))
}

func TestApplySearch(t *testing.T) {
	records := testRecords()

	tests := []struct {
		term string
		want []string
	}{
		{"ravi", []string{"r1"}},       // name, case-insensitive
		{"mh12ab", []string{"r1"}},     // vehicle number, case-insensitive
		{"9822", []string{"r2"}},       // phone, raw substring
		{"4512", []string{"r1"}},       // token
		{"zzz", []string{}},            // no match
		{"PATIL", []string{"r2"}},      // uppercase term
	}

	for _, tt := range tests {
		f := NewFilter()
		f.Search = tt.term
		got := Apply(records, f, time.Now())
		assert.ElementsMatch(t, tt.want, recordIDs(got), "term %q", tt.term)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := testRecords()
	f := NewFilter()
	f.ParkingName = "Central Plaza"

	_ = Apply(records, f, time.Now())
	assert.Len(t, records, 4)
	assert.Equal(t, "r1", records[0].ID)
}

func recordIDs(records []models.Record) []string {
	ids := make([]string, 0, len(records))
	for i := range records {
		ids = append(ids, records[i].ID)
	}
	return ids
}
