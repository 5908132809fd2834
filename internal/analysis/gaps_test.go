package analysis

import (
	"testing"
	"time"

	"shiftlens/internal/shiftlog"
)

func gapConfig() BufferConfig {
	cfg := DefaultConfig()
	cfg.IntraJobBufferMin = 2
	cfg.JobTransitionBufferMin = 4
	cfg.AlertThresholdMin = 15
	return cfg
}

func TestIntraJobGapClassification(t *testing.T) {
	// 5-minute raw gap, 2-minute intra-job buffer: raw 5, net 3.
	records := []shiftlog.Record{
		rec("alice", "J1", "L1", "S1", "Picking", 1, 0, 60),
		rec("alice", "J1", "L2", "S2", "Picking", 1, 60+300, 60),
	}
	ordered := sortRecords(records)

	gaps, telemetry := classifyGaps(ordered, gapConfig())

	if gaps[0].gapType != GapFirstTask {
		t.Errorf("First task: got %s, want FIRST_TASK", gaps[0].gapType)
	}
	g := gaps[1]
	if g.gapType != GapIntraJob {
		t.Errorf("Got %s, want INTRA_JOB", g.gapType)
	}
	if g.rawGapMin != 5 {
		t.Errorf("rawGap: got %v, want 5", g.rawGapMin)
	}
	if g.netGapMin != 3 {
		t.Errorf("netGap: got %v, want 3", g.netGapMin)
	}
	if g.isAnomaly {
		t.Errorf("3-minute net gap must not be an anomaly at a 15-minute threshold")
	}
	if g.interJobGapSec != 0 {
		t.Errorf("interJobGapSec must only be recorded for transitions, got %v", g.interJobGapSec)
	}
	if len(telemetry) != 0 {
		t.Errorf("Expected no telemetry, got %d entries", len(telemetry))
	}
}

func TestTransitionGapAndAnomaly(t *testing.T) {
	// 30-minute gap across a job switch with a 4-minute buffer: 26 minutes of
	// net gap exceeds the 15-minute alert threshold.
	records := []shiftlog.Record{
		rec("alice", "J1", "L1", "S1", "Picking", 1, 0, 60),
		rec("alice", "J2", "L2", "S2", "Picking", 1, 60+1800, 60),
	}
	ordered := sortRecords(records)

	gaps, _ := classifyGaps(ordered, gapConfig())

	g := gaps[1]
	if g.gapType != GapTransition {
		t.Errorf("Got %s, want TRANSITION", g.gapType)
	}
	if g.netGapMin != 26 {
		t.Errorf("netGap: got %v, want 26", g.netGapMin)
	}
	if !g.isAnomaly {
		t.Errorf("26-minute net gap must be an anomaly at a 15-minute threshold")
	}
	if g.interJobGapSec != 1800 {
		t.Errorf("interJobGapSec: got %v, want 1800", g.interJobGapSec)
	}
}

func TestOverlapDetection(t *testing.T) {
	// Second task starts 30s before the first finishes.
	records := []shiftlog.Record{
		rec("alice", "J1", "L1", "S1", "Picking", 1, 0, 120),
		rec("alice", "J1", "L2", "S2", "Picking", 1, 90, 60),
	}
	ordered := sortRecords(records)

	gaps, telemetry := classifyGaps(ordered, gapConfig())

	g := gaps[1]
	if g.gapType != GapOverlap {
		t.Fatalf("Got %s, want OVERLAP", g.gapType)
	}
	if g.rawGapMin != 0 || g.netGapMin != 0 {
		t.Errorf("Overlap gaps must clamp to 0, got raw=%v net=%v", g.rawGapMin, g.netGapMin)
	}
	if g.isAnomaly {
		t.Errorf("Overlaps are logged, not flagged as gap anomalies")
	}
	if len(telemetry) != 1 {
		t.Fatalf("Expected exactly 1 telemetry entry, got %d", len(telemetry))
	}
	entry := telemetry[0]
	if entry.User != "alice" || entry.Type != "overlap" {
		t.Errorf("Unexpected telemetry entry: %+v", entry)
	}
	if !entry.Timestamp.Equal(base.Add(90 * time.Second)) {
		t.Errorf("Telemetry timestamp: got %v", entry.Timestamp)
	}
}

func TestUserBoundaryResetsTimeline(t *testing.T) {
	records := []shiftlog.Record{
		rec("alice", "J1", "L1", "S1", "Picking", 1, 0, 60),
		rec("bob", "J1", "L1", "S1", "Picking", 1, 120, 60),
	}
	ordered := sortRecords(records)

	gaps, _ := classifyGaps(ordered, gapConfig())

	if gaps[1].gapType != GapFirstTask {
		t.Errorf("A new user's first task must be FIRST_TASK, got %s", gaps[1].gapType)
	}
}
