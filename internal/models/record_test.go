package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringUnmarshal(t *testing.T) {
	var doc struct {
		TokenNo FlexString `json:"token_no"`
		Amount  FlexString `json:"amount"`
	}

	err := json.Unmarshal([]byte(`{"token_no": 4512, "amount": "150"}`), &doc)
	require.NoError(t, err)
	assert.Equal(t, "4512", doc.TokenNo.String())
	assert.Equal(t, "150", doc.Amount.String())

	err = json.Unmarshal([]byte(`{"token_no": null, "amount": null}`), &doc)
	require.NoError(t, err)
	assert.Equal(t, "", doc.TokenNo.String())
}

func TestFlexStringInt64(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"150", 150},
		{"150 rupees", 150},
		{"-20", -20},
		{"", 0},
		{"abc", 0},
		{"  300 ", 300},
	}

	for _, tt := range tests {
		if got := FlexString(tt.in).Int64(); got != tt.want {
			t.Errorf("FlexString(%q).Int64() = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTimestampNil(t *testing.T) {
	var ts *Timestamp
	assert.Equal(t, int64(0), ts.Unix())
	assert.True(t, ts.Time().IsZero())
}

func TestDerivedStatus(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	before := NewTimestamp(now.Add(-time.Hour))
	after := NewTimestamp(now.Add(time.Hour))

	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{
			name: "cancelled overrides everything",
			rec:  Record{Status: true, IsCancel: true, StartTime: before, EndTime: after},
			want: StatusCancelled,
		},
		{
			name: "disabled is inactive",
			rec:  Record{Status: false},
			want: StatusInactive,
		},
		{
			name: "inside window is active",
			rec:  Record{Status: true, StartTime: before, EndTime: after},
			want: StatusActive,
		},
		{
			name: "future window is scheduled",
			rec:  Record{Status: true, StartTime: after, EndTime: NewTimestamp(now.Add(2 * time.Hour))},
			want: StatusScheduled,
		},
		{
			name: "past window is completed",
			rec:  Record{Status: true, StartTime: NewTimestamp(now.Add(-2 * time.Hour)), EndTime: before},
			want: StatusCompleted,
		},
		{
			name: "no window falls back to active",
			rec:  Record{Status: true},
			want: StatusActive,
		},
		{
			name: "half a window falls back to active",
			rec:  Record{Status: true, StartTime: before},
			want: StatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rec.DerivedStatus(now))
		})
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	raw := `{
		"id": "BK-1",
		"parking_name": "Central Plaza",
		"token_no": 4512,
		"amount": "150",
		"start_date": {"seconds": 1756300200},
		"status": true,
		"isCancel": false
	}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "BK-1", r.ID)
	assert.Equal(t, "4512", r.TokenNo.String())
	assert.Equal(t, int64(150), r.AmountValue())
	require.NotNil(t, r.StartDate)
	assert.Equal(t, int64(1756300200), r.StartDate.Seconds)
	assert.Nil(t, r.EndTime)
}
