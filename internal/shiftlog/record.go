package shiftlog

import (
	"strings"
	"time"
)

// Record is a single physical task execution from a warehouse shift log.
// Field normalization (column mapping, type coercion, malformed-row filtering)
// happens upstream; the engine treats records as already clean.
type Record struct {
	JobCode   string `json:"jobCode"`
	OrderCode string `json:"orderCode"`
	WaveCode  string `json:"waveCode"`
	TaskType  string `json:"taskType"`
	SKU       string `json:"sku"`
	Location  string `json:"location"`
	Zone      string `json:"zone"`
	Client    string `json:"client"`
	User      string `json:"user"`
	JobType   string `json:"jobType"`
	IsAI      bool   `json:"isAI,omitempty"`

	Quantity int       `json:"quantity"`
	Start    time.Time `json:"start"`
	Finish   time.Time `json:"finish"`
}

// RawDurationSec returns Finish-Start in seconds, clamped at 0.
// Source systems occasionally emit Finish < Start; negative durations must
// never reach a division.
func (r Record) RawDurationSec() float64 {
	d := r.Finish.Sub(r.Start).Seconds()
	if d < 0 {
		return 0
	}
	return d
}

// IsPicking reports whether the task type denotes a picking task.
func (r Record) IsPicking() bool {
	return strings.Contains(strings.ToLower(r.TaskType), "pick")
}

// IsPacking reports whether the task type denotes a packing task.
func (r Record) IsPacking() bool {
	return strings.Contains(strings.ToLower(r.TaskType), "pack")
}

// IsSorting reports whether the task type denotes a sorting task.
func (r Record) IsSorting() bool {
	return strings.Contains(strings.ToLower(r.TaskType), "sort")
}
