package dashboard

import (
	"sort"

	"parkdash/internal/models"
)

const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// Sort orders the list by a field key and direction.
type Sort struct {
	Key       string
	Direction string
}

// DefaultSort is the table's initial ordering: newest bookings first.
func DefaultSort() Sort {
	return Sort{Key: "start_date", Direction: DirDesc}
}

// Toggle re-selecting the current key flips the direction; a new key
// resets to ascending.
func (s Sort) Toggle(key string) Sort {
	if s.Key == key && s.Direction == DirAsc {
		return Sort{Key: key, Direction: DirDesc}
	}
	return Sort{Key: key, Direction: DirAsc}
}

// FieldKind distinguishes epoch-second comparison from textual
// comparison.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldTimestamp
)

// FieldAccessor is a typed getter for a sortable record field. Text
// accessors substitute "" for missing values, timestamp accessors treat
// nil as 0.
type FieldAccessor struct {
	Kind FieldKind
	Text func(r *models.Record) string
	Time func(r *models.Record) *models.Timestamp
}

// SortFields enumerates every sortable field. Dynamic string-keyed field
// access in the store documents maps to this fixed table.
var SortFields = map[string]FieldAccessor{
	"parking_name":   {Kind: FieldText, Text: func(r *models.Record) string { return r.ParkingName }},
	"name":           {Kind: FieldText, Text: func(r *models.Record) string { return r.Name }},
	"phone_no":       {Kind: FieldText, Text: func(r *models.Record) string { return r.PhoneNo }},
	"vehicle_type":   {Kind: FieldText, Text: func(r *models.Record) string { return r.VehicleType }},
	"vehicle_number": {Kind: FieldText, Text: func(r *models.Record) string { return r.VehicleNumber }},
	"machine":        {Kind: FieldText, Text: func(r *models.Record) string { return r.Machine }},
	"pallet_no":      {Kind: FieldText, Text: func(r *models.Record) string { return r.PalletNo }},
	"token_no":       {Kind: FieldText, Text: func(r *models.Record) string { return r.TokenNo.String() }},
	"amount":         {Kind: FieldText, Text: func(r *models.Record) string { return r.Amount.String() }},
	"status":         {Kind: FieldText, Text: statusSortValue},
	"start_date":     {Kind: FieldTimestamp, Time: func(r *models.Record) *models.Timestamp { return r.StartDate }},
	"start_time":     {Kind: FieldTimestamp, Time: func(r *models.Record) *models.Timestamp { return r.StartTime }},
	"end_time":       {Kind: FieldTimestamp, Time: func(r *models.Record) *models.Timestamp { return r.EndTime }},
}

// statusSortValue keeps false ordering together with missing values.
func statusSortValue(r *models.Record) string {
	if r.Status {
		return "true"
	}
	return ""
}

// ApplySort returns a new ordered slice; the input is left untouched.
// Unknown keys return a plain copy. Ties keep no particular order.
func ApplySort(records []models.Record, s Sort) []models.Record {
	out := make([]models.Record, len(records))
	copy(out, records)

	acc, ok := SortFields[s.Key]
	if !ok || s.Key == "" {
		return out
	}

	desc := s.Direction == DirDesc
	sort.Slice(out, func(i, j int) bool {
		if acc.Kind == FieldTimestamp {
			a, b := acc.Time(&out[i]).Unix(), acc.Time(&out[j]).Unix()
			if desc {
				return a > b
			}
			return a < b
		}
		a, b := acc.Text(&out[i]), acc.Text(&out[j])
		if desc {
			return a > b
		}
		return a < b
	})
	return out
}
