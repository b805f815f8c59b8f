package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"parkdash/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite keeps booking collections as tables; one row per record,
// timestamps as nullable epoch seconds.
type SQLite struct {
	db *sql.DB
}

func Open(path string) (*SQLite, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SQLite{db: db}, nil
}

// EnsureCollection creates the collection table and its indexes.
func (s *SQLite) EnsureCollection(ctx context.Context, collection string) error {
	if !validCollection(collection) {
		return ErrBadCollection
	}

	queries := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
            id TEXT PRIMARY KEY,
            parking_name TEXT,
            vehicle_type TEXT,
            vehicle_number TEXT,
            name TEXT,
            phone_no TEXT,
            machine TEXT,
            pallet_no TEXT,
            token_no TEXT,
            amount TEXT,
            start_date INTEGER,
            start_time INTEGER,
            end_time INTEGER,
            status INTEGER NOT NULL DEFAULT 1,
            is_cancel INTEGER NOT NULL DEFAULT 0
        )`, collection),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_start_date ON %s(start_date)`, collection, collection),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_parking_name ON %s(parking_name)`, collection, collection),
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}

// FetchAll loads the whole collection. The dashboard works from this
// snapshot; there is no incremental read path.
func (s *SQLite) FetchAll(ctx context.Context, collection string) ([]models.Record, error) {
	if !validCollection(collection) {
		return nil, ErrBadCollection
	}

	query := fmt.Sprintf(`
        SELECT id, parking_name, vehicle_type, vehicle_number, name, phone_no,
               machine, pallet_no, token_no, amount, start_date, start_time, end_time,
               status, is_cancel
        FROM %s
    `, collection)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", collection, err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var (
			r                               models.Record
			parking, vtype, vnum            sql.NullString
			name, phone, machine, pallet    sql.NullString
			token, amount                   sql.NullString
			startDate, startTime, endTime   sql.NullInt64
		)
		err := rows.Scan(
			&r.ID, &parking, &vtype, &vnum, &name, &phone,
			&machine, &pallet, &token, &amount, &startDate, &startTime, &endTime,
			&r.Status, &r.IsCancel,
		)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}

		r.ParkingName = parking.String
		r.VehicleType = vtype.String
		r.VehicleNumber = vnum.String
		r.Name = name.String
		r.PhoneNo = phone.String
		r.Machine = machine.String
		r.PalletNo = pallet.String
		r.TokenNo = models.FlexString(token.String)
		r.Amount = models.FlexString(amount.String)
		r.StartDate = nullTimestamp(startDate)
		r.StartTime = nullTimestamp(startTime)
		r.EndTime = nullTimestamp(endTime)

		records = append(records, r)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByID removes one record; ErrNotFound when the id is absent.
func (s *SQLite) DeleteByID(ctx context.Context, collection, id string) error {
	if !validCollection(collection) {
		return ErrBadCollection
	}

	result, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, collection), id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Insert writes one record. Record creation belongs to the remote side
// of the system; the dashboard itself only reads and deletes.
func (s *SQLite) Insert(ctx context.Context, collection string, r *models.Record) error {
	if !validCollection(collection) {
		return ErrBadCollection
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (id, parking_name, vehicle_type, vehicle_number, name, phone_no,
                        machine, pallet_no, token_no, amount, start_date, start_time, end_time,
                        status, is_cancel)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, collection)

	_, err := s.db.ExecContext(ctx, query,
		r.ID, r.ParkingName, r.VehicleType, r.VehicleNumber, r.Name, r.PhoneNo,
		r.Machine, r.PalletNo, r.TokenNo.String(), r.Amount.String(),
		timestampValue(r.StartDate), timestampValue(r.StartTime), timestampValue(r.EndTime),
		r.Status, r.IsCancel,
	)
	return err
}

// Count reports the collection size, used to decide whether to seed.
func (s *SQLite) Count(ctx context.Context, collection string) (int, error) {
	if !validCollection(collection) {
		return 0, ErrBadCollection
	}

	var count int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, collection)).Scan(&count)
	return count, err
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullTimestamp(v sql.NullInt64) *models.Timestamp {
	if !v.Valid {
		return nil
	}
	return &models.Timestamp{Seconds: v.Int64}
}

func timestampValue(t *models.Timestamp) any {
	if t == nil {
		return nil
	}
	return t.Seconds
}

// validCollection restricts table names to plain identifiers since they
// are interpolated into SQL.
func validCollection(name string) bool {
	if name == "" {
		return false
	}
	for _, c := range name {
		ok := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !ok {
			return false
		}
	}
	return true
}
