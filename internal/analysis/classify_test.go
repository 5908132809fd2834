package analysis

import (
	"testing"

	"shiftlens/internal/shiftlog"
)

func classify(t *testing.T, records []shiftlog.Record) JobCategory {
	t.Helper()
	profiles := buildJobProfiles(records)
	p, ok := profiles["J1"]
	if !ok {
		t.Fatal("Expected profile for J1")
	}
	return classifyJob(p)
}

func TestClassifyPutToWall(t *testing.T) {
	records := []shiftlog.Record{
		jobRec("alice", "J1", "W1", "", "O1", "L1", "S1", "Sort to Wall", 1, 0, 60),
		jobRec("alice", "J1", "W1", "", "O2", "L1", "S2", "Picking", 3, 60, 60),
	}
	if got := classify(t, records); got != JobPutToWall {
		t.Errorf("got %s, want PUT_TO_WALL", got)
	}
}

func TestClassifyIdenticalItem(t *testing.T) {
	// One SKU across multiple single-SKU orders.
	records := []shiftlog.Record{
		jobRec("alice", "J1", "W1", "", "O1", "L1", "S1", "Picking", 4, 0, 60),
		jobRec("alice", "J1", "W1", "", "O2", "L1", "S1", "Picking", 2, 60, 60),
	}
	if got := classify(t, records); got != JobIdenticalItem {
		t.Errorf("got %s, want IDENTICAL_ITEM", got)
	}
}

func TestClassifyMixedSingles(t *testing.T) {
	// Different SKUs, every order exactly 1 SKU and 1 unit.
	records := []shiftlog.Record{
		jobRec("alice", "J1", "W1", "", "O1", "L1", "S1", "Picking", 1, 0, 60),
		jobRec("alice", "J1", "W1", "", "O2", "L2", "S2", "Picking", 1, 60, 60),
	}
	if got := classify(t, records); got != JobMixedSingles {
		t.Errorf("got %s, want MIXED_SINGLES", got)
	}
}

func TestClassifyIdenticalOrders(t *testing.T) {
	// Two orders with the same two-SKU signature.
	records := []shiftlog.Record{
		jobRec("alice", "J1", "W1", "", "O1", "L1", "S1", "Picking", 2, 0, 60),
		jobRec("alice", "J1", "W1", "", "O1", "L2", "S2", "Picking", 1, 60, 60),
		jobRec("alice", "J1", "W1", "", "O2", "L1", "S1", "Picking", 2, 120, 60),
		jobRec("alice", "J1", "W1", "", "O2", "L2", "S2", "Picking", 1, 180, 60),
	}
	if got := classify(t, records); got != JobIdenticalOrders {
		t.Errorf("got %s, want IDENTICAL_ORDERS", got)
	}
}

func TestClassifyOrderBased(t *testing.T) {
	records := []shiftlog.Record{
		jobRec("alice", "J1", "W1", "", "O1", "L1", "S1", "Picking", 2, 0, 60),
		jobRec("alice", "J1", "W1", "", "O1", "L2", "S2", "Picking", 1, 60, 60),
	}
	if got := classify(t, records); got != JobOrderBased {
		t.Errorf("got %s, want ORDER_BASED", got)
	}
}

func TestClassifyMultiItem(t *testing.T) {
	// Multiple orders, mixed shapes, nothing batched.
	records := []shiftlog.Record{
		jobRec("alice", "J1", "W1", "", "O1", "L1", "S1", "Picking", 2, 0, 60),
		jobRec("alice", "J1", "W1", "", "O1", "L2", "S2", "Picking", 1, 60, 60),
		jobRec("alice", "J1", "W1", "", "O2", "L3", "S3", "Picking", 5, 120, 60),
	}
	if got := classify(t, records); got != JobMultiItem {
		t.Errorf("got %s, want MULTI_ITEM", got)
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	// One SKU, every order 1 SKU and 1 unit: satisfies both the
	// IDENTICAL_ITEM and MIXED_SINGLES predicates. The earlier rule wins.
	records := []shiftlog.Record{
		jobRec("alice", "J1", "W1", "", "O1", "L1", "S1", "Picking", 1, 0, 60),
		jobRec("alice", "J1", "W1", "", "O2", "L1", "S1", "Picking", 1, 60, 60),
	}
	if got := classify(t, records); got != JobIdenticalItem {
		t.Errorf("Priority violation: got %s, want IDENTICAL_ITEM", got)
	}
}

func TestClassifySortingOutranksEverything(t *testing.T) {
	// Same shape as the priority test plus a sorting task.
	records := []shiftlog.Record{
		jobRec("alice", "J1", "W1", "", "O1", "L1", "S1", "Picking", 1, 0, 60),
		jobRec("alice", "J1", "W1", "", "O2", "L1", "S1", "Sorting", 1, 60, 60),
	}
	if got := classify(t, records); got != JobPutToWall {
		t.Errorf("got %s, want PUT_TO_WALL", got)
	}
}

func TestClassifyExclusivity(t *testing.T) {
	// Every job lands in exactly one category; re-running is stable.
	records := []shiftlog.Record{
		jobRec("alice", "J1", "W1", "", "O1", "L1", "S1", "Picking", 1, 0, 60),
		jobRec("alice", "J2", "W1", "", "O2", "L2", "S2", "Sorting", 1, 60, 60),
		jobRec("bob", "J3", "W1", "", "O3", "L3", "S3", "Picking", 9, 120, 60),
	}

	profiles := buildJobProfiles(records)
	for code, p := range profiles {
		first := classifyJob(p)
		second := classifyJob(p)
		if first != second {
			t.Errorf("Job %s: classification not stable (%s vs %s)", code, first, second)
		}
		if first == "" {
			t.Errorf("Job %s: no category assigned", code)
		}
	}
}

func TestMaturityScoreBounds(t *testing.T) {
	jobMix := map[JobCategory]int{
		JobPutToWall: 2,
		JobMultiItem: 2,
	}
	var stats Stats
	stats.Picking.AvgProcessTimeSec = 80
	stats.Picking.AvgTravelTimeSec = 20
	stats.Picking.LocationsPerUnit = 0.2
	stats.Global.UtilizationPct = 85

	result := computeMaturity(jobMix, stats, HealthStats{AnomalyCount: 1}, 100)

	if result.Score < 0 || result.Score > 100 {
		t.Fatalf("score out of bounds: %v", result.Score)
	}
	if len(result.Phases) != 5 {
		t.Fatalf("Expected 5 phases, got %d", len(result.Phases))
	}
	var weightSum float64
	for _, p := range result.Phases {
		if p.Score < 0 || p.Score > 10 {
			t.Errorf("Phase %s score out of bounds: %v", p.Phase, p.Score)
		}
		weightSum += p.Weight
	}
	if weightSum != 1 {
		t.Errorf("Phase weights must sum to 1, got %v", weightSum)
	}
}

func TestMaturityEmptyInput(t *testing.T) {
	result := computeMaturity(map[JobCategory]int{}, Stats{}, HealthStats{}, 0)
	if result.Score != 0 {
		t.Errorf("Empty-input maturity must degrade to 0, got %v", result.Score)
	}
	if result.Phases == nil || len(result.Phases) != 0 {
		t.Errorf("Empty-input maturity must carry an empty phase list, got %v", result.Phases)
	}
}
