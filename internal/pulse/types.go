// Package pulse generates Market Pulse updates and encodes them into the
// canonical four-section text stored by the backend.
package pulse

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrNotNewInformation is returned by storage when an update repeats the
	// previous one
	ErrNotNewInformation = errors.New("must be new information")
	// ErrInvalidUpdate is returned by storage for text that does not decode
	ErrInvalidUpdate = errors.New("update text is not a four-section market pulse")
	// ErrNotFound is returned when an update does not exist
	ErrNotFound = errors.New("market pulse update not found")
)

// Content holds the four section bodies of one update
type Content struct {
	Breaking   string `json:"breaking"`
	Developing string `json:"developing"`
	Context    string `json:"context"`
	Impact     string `json:"impact"`
}

// Record is a stored update
type Record struct {
	ID         int64
	UpdateText string
	Timestamp  time.Time
}

// SortNewestFirst orders records by timestamp descending
func SortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
}

// Latest returns the most recent record or nil
func Latest(records []Record) *Record {
	var latest *Record
	for i := range records {
		if latest == nil || records[i].Timestamp.After(latest.Timestamp) {
			latest = &records[i]
		}
	}
	return latest
}
