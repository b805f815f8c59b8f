package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a point in time stored as whole seconds since epoch,
// matching the document shape of the booking store. A nil *Timestamp
// means the value is unknown.
type Timestamp struct {
	Seconds int64 `json:"seconds" yaml:"seconds"`
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Seconds: t.Unix()}
}

// Time converts the timestamp to local time. Zero time for nil.
func (t *Timestamp) Time() time.Time {
	if t == nil {
		return time.Time{}
	}
	return time.Unix(t.Seconds, 0)
}

// Unix returns epoch seconds, 0 for nil. Missing timestamps sort as zero.
func (t *Timestamp) Unix() int64 {
	if t == nil {
		return 0
	}
	return t.Seconds
}

// FlexString holds a field that the store may carry as either a JSON
// string or a JSON number (token_no, amount).
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Int64 parses the leading integer of the value; anything that does not
// start with an integer is treated as 0.
func (f FlexString) Int64() int64 {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return 0
	}
	end := 0
	if s[0] == '-' || s[0] == '+' {
		end = 1
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// Record is one booking entry in the store. All fields except ID are
// optional; absent text fields are empty strings and absent timestamps
// are nil.
type Record struct {
	ID            string     `json:"id" yaml:"id"`
	ParkingName   string     `json:"parking_name,omitempty" yaml:"parking_name"`
	VehicleType   string     `json:"vehicle_type,omitempty" yaml:"vehicle_type"`
	VehicleNumber string     `json:"vehicle_number,omitempty" yaml:"vehicle_number"`
	Name          string     `json:"name,omitempty" yaml:"name"`
	PhoneNo       string     `json:"phone_no,omitempty" yaml:"phone_no"`
	Machine       string     `json:"machine,omitempty" yaml:"machine"`
	PalletNo      string     `json:"pallet_no,omitempty" yaml:"pallet_no"`
	TokenNo       FlexString `json:"token_no,omitempty" yaml:"token_no"`
	Amount        FlexString `json:"amount,omitempty" yaml:"amount"`
	StartDate     *Timestamp `json:"start_date,omitempty" yaml:"start_date"`
	StartTime     *Timestamp `json:"start_time,omitempty" yaml:"start_time"`
	EndTime       *Timestamp `json:"end_time,omitempty" yaml:"end_time"`
	Status        bool       `json:"status" yaml:"status"`
	IsCancel      bool       `json:"isCancel" yaml:"is_cancel"`
}

// AmountValue is the monetary value of the record, 0 when absent or
// not integer-parseable.
func (r *Record) AmountValue() int64 {
	return r.Amount.Int64()
}

// DerivedStatus computes the display status. isCancel overrides status,
// status=false means Inactive, and a present start/end time pair places
// the record relative to now; without the pair an enabled record counts
// as Active.
func (r *Record) DerivedStatus(now time.Time) string {
	if r.IsCancel {
		return StatusCancelled
	}
	if !r.Status {
		return StatusInactive
	}
	if r.StartTime != nil && r.EndTime != nil {
		switch sec := now.Unix(); {
		case sec < r.StartTime.Seconds:
			return StatusScheduled
		case sec > r.EndTime.Seconds:
			return StatusCompleted
		default:
			return StatusActive
		}
	}
	return StatusActive
}
