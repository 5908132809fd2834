package analysis

import (
	"cmp"
	"slices"

	"shiftlens/internal/shiftlog"
)

// sortRecords returns a copy of the input ordered by (User ASC, Start ASC),
// stable with respect to the input order for ties. Every downstream pass works
// over this ordering; the caller's slice is never touched.
func sortRecords(records []shiftlog.Record) []shiftlog.Record {
	ordered := make([]shiftlog.Record, len(records))
	copy(ordered, records)

	slices.SortStableFunc(ordered, func(a, b shiftlog.Record) int {
		if c := cmp.Compare(a.User, b.User); c != 0 {
			return c
		}
		return a.Start.Compare(b.Start)
	})
	return ordered
}

// durationAdjustments runs both normalization passes over the sorted sequence
// and returns a side-table of index -> adjusted duration seconds. Original
// Start/Finish timestamps are never modified; derived calculations source the
// duration from this table when present.
func durationAdjustments(ordered []shiftlog.Record) map[int]float64 {
	adj := make(map[int]float64)
	batchAdjustments(ordered, adj)
	sortBlockAdjustments(ordered, adj)
	return adj
}

// adjustedDuration resolves the effective duration for the record at index i.
func adjustedDuration(ordered []shiftlog.Record, adj map[int]float64, i int) float64 {
	if d, ok := adj[i]; ok {
		return d
	}
	return ordered[i].RawDurationSec()
}

// batchAdjustments amortizes consecutive same-location batches.
//
// When multiple units of the same SKU are logged as back-to-back zero-travel
// records, the single real travel event would be double-counted; instead the
// batch envelope is spread evenly across its members.
func batchAdjustments(ordered []shiftlog.Record, adj map[int]float64) {
	i := 0
	for i < len(ordered) {
		j := i + 1
		for j < len(ordered) && sameBatch(ordered[i], ordered[j]) {
			j++
		}

		if n := j - i; n > 1 {
			total := ordered[j-1].Finish.Sub(ordered[i].Start).Seconds()
			if total < 0 {
				total = 0
			}
			avg := total / float64(n)
			for k := i; k < j; k++ {
				adj[k] = avg
			}
		}
		i = j
	}
}

func sameBatch(a, b shiftlog.Record) bool {
	return a.User == b.User &&
		a.JobCode == b.JobCode &&
		a.Location == b.Location &&
		a.SKU == b.SKU
}

// sortBlockAdjustments reconstructs durations for sorting blocks.
//
// Some source systems log sort events with no individual duration. Within each
// maximal (User, JobCode) run, if the sort sub-group has at least 2 members and
// any of them is zero-length, the block envelope minus internal breaks is
// spread evenly across the sort tasks. This pass runs after batch amortization
// and overrides it for the affected indices.
func sortBlockAdjustments(ordered []shiftlog.Record, adj map[int]float64) {
	i := 0
	for i < len(ordered) {
		j := i + 1
		for j < len(ordered) && ordered[j].User == ordered[i].User && ordered[j].JobCode == ordered[i].JobCode {
			j++
		}

		var sortIdx []int
		hasZero := false
		for k := i; k < j; k++ {
			if !ordered[k].IsSorting() {
				continue
			}
			sortIdx = append(sortIdx, k)
			if !ordered[k].Finish.After(ordered[k].Start) {
				hasZero = true
			}
		}

		if len(sortIdx) >= 2 && hasZero {
			first := ordered[sortIdx[0]]
			last := ordered[sortIdx[len(sortIdx)-1]]
			span := last.Finish.Sub(first.Start).Seconds()

			// Internal gaps beyond the break threshold are idle time, not
			// sorting work.
			for n := 1; n < len(sortIdx); n++ {
				prev := ordered[sortIdx[n-1]]
				curr := ordered[sortIdx[n]]
				if gap := curr.Start.Sub(prev.Finish).Seconds(); gap > sortBlockBreakSec {
					span -= gap
				}
			}

			if span < 0 {
				span = 0
			}
			avg := span / float64(len(sortIdx))
			for _, k := range sortIdx {
				adj[k] = avg
			}
		}

		i = j
	}
}
