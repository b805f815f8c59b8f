package dashboard

import (
	"testing"

	"parkdash/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestApplySortTimestamp(t *testing.T) {
	records := []models.Record{
		{ID: "b", StartDate: &models.Timestamp{Seconds: 200}},
		{ID: "c", StartDate: &models.Timestamp{Seconds: 300}},
		{ID: "missing"}, // nil start_date sorts as 0
		{ID: "a", StartDate: &models.Timestamp{Seconds: 100}},
	}

	asc := ApplySort(records, Sort{Key: "start_date", Direction: DirAsc})
	assert.Equal(t, []string{"missing", "a", "b", "c"}, recordIDs(asc))

	desc := ApplySort(records, Sort{Key: "start_date", Direction: DirDesc})
	assert.Equal(t, []string{"c", "b", "a", "missing"}, recordIDs(desc))
}

func TestApplySortText(t *testing.T) {
	records := []models.Record{
		{ID: "2", Name: "Bob"},
		{ID: "3", Name: "Carol"},
		{ID: "1", Name: "Alice"},
		{ID: "0"}, // missing name sorts as ""
	}

	asc := ApplySort(records, Sort{Key: "name", Direction: DirAsc})
	assert.Equal(t, []string{"0", "1", "2", "3"}, recordIDs(asc))

	desc := ApplySort(records, Sort{Key: "name", Direction: DirDesc})
	assert.Equal(t, []string{"3", "2", "1", "0"}, recordIDs(desc))
}

func TestApplySortStatusFlag(t *testing.T) {
	records := []models.Record{
		{ID: "on", Status: true},
		{ID: "off", Status: false},
	}

	asc := ApplySort(records, Sort{Key: "status", Direction: DirAsc})
	assert.Equal(t, []string{"off", "on"}, recordIDs(asc))
}

func TestApplySortUnknownKey(t *testing.T) {
	records := []models.Record{{ID: "x"}, {ID: "y"}}
	got := ApplySort(records, Sort{Key: "no_such_field", Direction: DirAsc})
	assert.Equal(t, []string{"x", "y"}, recordIDs(got))
}

func TestApplySortLeavesInputAlone(t *testing.T) {
	records := []models.Record{
		{ID: "b", Name: "B"},
		{ID: "a", Name: "A"},
	}
	_ = ApplySort(records, Sort{Key: "name", Direction: DirAsc})
	assert.Equal(t, "b", records[0].ID)
}

func TestSortToggle(t *testing.T) {
	s := DefaultSort()
	assert.Equal(t, "start_date", s.Key)
	assert.Equal(t, DirDesc, s.Direction)

	// Selecting a new column resets to ascending.
	s = s.Toggle("name")
	assert.Equal(t, Sort{Key: "name", Direction: DirAsc}, s)

	// Re-selecting flips the direction.
	s = s.Toggle("name")
	assert.Equal(t, Sort{Key: "name", Direction: DirDesc}, s)

	s = s.Toggle("name")
	assert.Equal(t, Sort{Key: "name", Direction: DirAsc}, s)
}
