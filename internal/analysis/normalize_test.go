package analysis

import (
	"math"
	"testing"
	"time"

	"shiftlens/internal/shiftlog"
)

var base = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func rec(user, job, loc, sku, taskType string, qty int, startOffsetSec, durSec int) shiftlog.Record {
	start := base.Add(time.Duration(startOffsetSec) * time.Second)
	return shiftlog.Record{
		JobCode:  job,
		TaskType: taskType,
		SKU:      sku,
		Location: loc,
		User:     user,
		Quantity: qty,
		Start:    start,
		Finish:   start.Add(time.Duration(durSec) * time.Second),
	}
}

func TestSortRecordsOrdering(t *testing.T) {
	records := []shiftlog.Record{
		rec("bob", "J1", "L1", "S1", "Picking", 1, 100, 10),
		rec("alice", "J1", "L1", "S1", "Picking", 1, 200, 10),
		rec("alice", "J1", "L1", "S1", "Picking", 1, 0, 10),
	}

	ordered := sortRecords(records)

	if ordered[0].User != "alice" || !ordered[0].Start.Equal(base) {
		t.Errorf("Expected alice's earliest task first, got %s at %v", ordered[0].User, ordered[0].Start)
	}
	if ordered[2].User != "bob" {
		t.Errorf("Expected bob last, got %s", ordered[2].User)
	}
	if len(records) != 3 || records[0].User != "bob" {
		t.Errorf("Input slice must not be reordered")
	}
}

func TestBatchAdjustmentsConservation(t *testing.T) {
	// Three back-to-back scans of the same SKU at the same location. The
	// batch envelope is 360s; each member must carry exactly a third of it.
	records := []shiftlog.Record{
		rec("alice", "J1", "L1", "S1", "Picking", 1, 0, 0),
		rec("alice", "J1", "L1", "S1", "Picking", 1, 120, 0),
		rec("alice", "J1", "L1", "S1", "Picking", 1, 240, 120),
	}

	ordered := sortRecords(records)
	adj := durationAdjustments(ordered)

	var sum float64
	for i := range ordered {
		d, ok := adj[i]
		if !ok {
			t.Fatalf("Expected adjustment for index %d", i)
		}
		if d != 120 {
			t.Errorf("Expected 120s per member, got %v", d)
		}
		sum += d
	}
	if sum != 360 {
		t.Errorf("Batch amortization must conserve the envelope: got %v, want 360", sum)
	}
}

func TestBatchAdjustmentsSingleRecordUntouched(t *testing.T) {
	records := []shiftlog.Record{
		rec("alice", "J1", "L1", "S1", "Picking", 1, 0, 30),
		rec("alice", "J1", "L2", "S2", "Picking", 1, 60, 45),
	}

	adj := durationAdjustments(sortRecords(records))
	if len(adj) != 0 {
		t.Errorf("Expected no adjustments for distinct locations/SKUs, got %v", adj)
	}
}

func TestSortBlockSpreading(t *testing.T) {
	// Three sort tasks in one job run, one zero-length, with a 400s internal
	// break. Envelope 540s minus the 400s break leaves 140s across 3 tasks.
	records := []shiftlog.Record{
		rec("alice", "J1", "L1", "S1", "Sorting", 1, 0, 60),
		rec("alice", "J1", "L2", "S2", "Sorting", 1, 460, 0),
		rec("alice", "J1", "L3", "S3", "Sorting", 1, 480, 60),
	}

	ordered := sortRecords(records)
	adj := durationAdjustments(ordered)

	want := 140.0 / 3.0
	for i := range ordered {
		d, ok := adj[i]
		if !ok {
			t.Fatalf("Expected sort-block adjustment for index %d", i)
		}
		if math.Abs(d-want) > 1e-9 {
			t.Errorf("Index %d: got %v, want %v", i, d, want)
		}
	}
}

func TestSortBlockRequiresZeroDuration(t *testing.T) {
	records := []shiftlog.Record{
		rec("alice", "J1", "L1", "S1", "Sorting", 1, 0, 60),
		rec("alice", "J1", "L2", "S2", "Sorting", 1, 120, 60),
	}

	adj := durationAdjustments(sortRecords(records))
	if len(adj) != 0 {
		t.Errorf("Sort-block pass must not fire without a zero-duration member, got %v", adj)
	}
}

func TestSortBlockOverridesBatchPass(t *testing.T) {
	// Same user/job/location/SKU so the batch pass fires first; the
	// sort-block pass must win for sort tasks.
	records := []shiftlog.Record{
		rec("alice", "J1", "L1", "S1", "Sorting", 1, 0, 0),
		rec("alice", "J1", "L1", "S1", "Sorting", 1, 400, 60),
	}

	ordered := sortRecords(records)
	adj := durationAdjustments(ordered)

	// The batch pass alone would spread the full 460s envelope (230s each);
	// the sort-block pass subtracts the 400s break and assigns 30s each.
	for i := range ordered {
		if adj[i] != 30 {
			t.Errorf("Index %d: got %v, want 30", i, adj[i])
		}
	}
}

func TestAdjustedDurationFallsBackToRaw(t *testing.T) {
	records := []shiftlog.Record{
		rec("alice", "J1", "L1", "S1", "Picking", 1, 0, 42),
	}
	ordered := sortRecords(records)

	if d := adjustedDuration(ordered, map[int]float64{}, 0); d != 42 {
		t.Errorf("Expected raw duration 42, got %v", d)
	}
}

func TestNegativeRawDurationClamped(t *testing.T) {
	r := rec("alice", "J1", "L1", "S1", "Picking", 1, 0, 10)
	r.Finish = r.Start.Add(-30 * time.Second)

	if d := r.RawDurationSec(); d != 0 {
		t.Errorf("Negative duration must clamp to 0, got %v", d)
	}
}
