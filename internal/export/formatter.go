package export

import (
	"fmt"
	"strconv"
	"time"

	"parkdash/internal/models"
)

// exportTimeLayout фиксированный формат отметок времени в выгрузке
const exportTimeLayout = "02/01/06 15:04"

// Headers is the column order of every export, CSV and XLSX alike.
var Headers = []string{
	"Sr. No.",
	"Parking Name",
	"Date & Time",
	"Customer Name",
	"Contact Number",
	"Vehicle Type",
	"Vehicle Number",
	"Machine ID",
	"Pallet No.",
	"Token No.",
	"Status",
	"Booking Start Time",
	"Booking End Time",
	"Amount Received (₹)",
}

// Rows maps records to flat labeled rows in Headers order. The serial
// number restarts at 1 for every export.
func Rows(records []models.Record, now time.Time) [][]string {
	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.ParkingName,
			formatTimestamp(r.StartDate),
			r.Name,
			r.PhoneNo,
			r.VehicleType,
			r.VehicleNumber,
			r.Machine,
			r.PalletNo,
			r.TokenNo.String(),
			r.DerivedStatus(now),
			formatTimestamp(r.StartTime),
			formatTimestamp(r.EndTime),
			r.Amount.String(),
		})
	}
	return rows
}

// Filename embeds the export date: parking_bookings_export_2025-01-31.csv.
func Filename(ext string, now time.Time) string {
	return fmt.Sprintf("parking_bookings_export_%s.%s", now.Format("2006-01-02"), ext)
}

func formatTimestamp(t *models.Timestamp) string {
	if t == nil {
		return ""
	}
	return t.Time().Format(exportTimeLayout)
}
