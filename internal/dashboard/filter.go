package dashboard

import (
	"strings"
	"time"

	"parkdash/internal/models"
)

// Filter is the set of predicates narrowing the record list. Zero dates
// and "All"/empty strings leave the corresponding predicate inactive.
// Active predicates combine with logical AND.
type Filter struct {
	Start       time.Time
	End         time.Time
	ParkingName string
	VehicleType string
	Status      string
	Search      string
}

// NewFilter returns a filter with every predicate neutral.
func NewFilter() Filter {
	return Filter{
		ParkingName: models.FilterAll,
		VehicleType: models.FilterAll,
		Status:      models.FilterAll,
	}
}

// dateRangeActive: the date predicate only applies when both endpoints
// are set.
func (f Filter) dateRangeActive() bool {
	return !f.Start.IsZero() && !f.End.IsZero()
}

// Apply returns the records satisfying every active predicate. The input
// slice is never mutated. now is the wall clock used by the Active
// status predicate.
func Apply(records []models.Record, f Filter, now time.Time) []models.Record {
	var rangeStart, rangeEnd int64
	if f.dateRangeActive() {
		// Выравниваем диапазон по границам календарных дней
		rangeStart = startOfDay(f.Start).Unix()
		rangeEnd = endOfDay(f.End).Unix()
	}

	out := make([]models.Record, 0, len(records))
	for i := range records {
		r := &records[i]
		if f.dateRangeActive() && !matchDateRange(r, rangeStart, rangeEnd) {
			continue
		}
		if f.ParkingName != "" && f.ParkingName != models.FilterAll && r.ParkingName != f.ParkingName {
			continue
		}
		if f.VehicleType != "" && f.VehicleType != models.FilterAll && r.VehicleType != f.VehicleType {
			continue
		}
		if !matchStatus(r, f.Status, now) {
			continue
		}
		if f.Search != "" && !matchSearch(r, f.Search) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// matchDateRange excludes records with no usable start_date while the
// predicate is active.
func matchDateRange(r *models.Record, start, end int64) bool {
	if r.StartDate == nil {
		return false
	}
	return r.StartDate.Seconds >= start && r.StartDate.Seconds <= end
}

// matchStatus implements the Cancelled/Active classification. Active
// enforces the booking time window when both ends are present; without
// the pair the record passes on the status flag alone.
func matchStatus(r *models.Record, status string, now time.Time) bool {
	switch status {
	case "", models.FilterAll:
		return true
	case models.StatusCancelled:
		return r.IsCancel
	case models.StatusActive:
		if r.IsCancel || !r.Status {
			return false
		}
		if r.StartTime != nil && r.EndTime != nil {
			sec := now.Unix()
			return sec >= r.StartTime.Seconds && sec <= r.EndTime.Seconds
		}
		return true
	default:
		return false
	}
}

// matchSearch is an any-of match: customer name and vehicle number are
// compared case-insensitively, phone and token against the raw term.
func matchSearch(r *models.Record, term string) bool {
	lower := strings.ToLower(term)
	if r.Name != "" && strings.Contains(strings.ToLower(r.Name), lower) {
		return true
	}
	if r.PhoneNo != "" && strings.Contains(r.PhoneNo, term) {
		return true
	}
	if r.VehicleNumber != "" && strings.Contains(strings.ToLower(r.VehicleNumber), lower) {
		return true
	}
	if r.TokenNo != "" && strings.Contains(r.TokenNo.String(), term) {
		return true
	}
	return false
}
