package analysis

import (
	"slices"
	"time"
)

// computeProcessStats runs the full per-process statistics block on one
// filtered subset (picking, packing, sorting or the global set).
func computeProcessStats(subset []EnrichedRecord, cfg BufferConfig) ProcessStats {
	stats := ProcessStats{TaskCount: len(subset)}
	if len(subset) == 0 {
		return stats
	}

	// 1. Volume and direct (active) time
	var directSec float64
	var taskDur, processDur, travelDur []float64
	for _, r := range subset {
		stats.TotalVolume += r.Quantity
		directSec += r.ProcessTimeSec + r.TravelTimeSec
		taskDur = append(taskDur, r.AdjustedDurationSec)
		processDur = append(processDur, r.ProcessTimeSec)
		travelDur = append(travelDur, r.TravelTimeSec)
	}

	// 2. Occupancy denominator: the wall-clock window each user was engaged in
	// this process, summed across users. Deliberately not the sum of task
	// durations.
	spanHours := userSpanMinutes(subset) / 60

	stats.ShiftSpanHours = round2(spanHours)
	stats.DirectHours = round2(directSec / 3600)
	stats.UPH = round2(safeDiv(float64(stats.TotalVolume), spanHours))
	stats.UPHPure = round2(safeDiv(float64(stats.TotalVolume), directSec/3600))
	stats.UPHHourlyFlow = round2(hourlyFlowUPH(subset))
	stats.TPH = round2(safeDiv(float64(stats.TaskCount), spanHours))

	// 3. Utilization: merged busy intervals over the same span. Merging caps
	// the numerator so overlapping task timestamps cannot push this far
	// past 100%.
	busyHours := mergedBusyMinutes(subset) / 60
	stats.UtilizationPct = round2(safeDiv(busyHours, spanHours) * 100)

	// 4. Spatial density
	locations := make(map[string]bool)
	for _, r := range subset {
		locations[r.JobCode+"::"+r.Location] = true
	}
	stats.DistinctLocations = len(locations)
	stats.LocationsPerUnit = round2(safeDiv(float64(stats.DistinctLocations), float64(stats.TotalVolume)))

	stats.AvgTaskDurationSec = round2(mean(taskDur))
	stats.AvgProcessTimeSec = round2(mean(processDur))
	stats.AvgTravelTimeSec = round2(mean(travelDur))

	// 5. Dynamic interval throughput
	stats.DynamicIntervalUPH, stats.Intervals = dynamicIntervalUPH(subset, cfg)

	return stats
}

// userSpanMinutes sums each user's first-start-to-last-finish window in
// minutes. Spans are clamped to a 24h window so a stray cross-day timestamp
// cannot blow up the denominator.
func userSpanMinutes(subset []EnrichedRecord) float64 {
	type window struct {
		start  time.Time
		finish time.Time
	}
	byUser := make(map[string]*window)

	for _, r := range subset {
		w, ok := byUser[r.User]
		if !ok {
			byUser[r.User] = &window{start: r.Start, finish: r.Finish}
			continue
		}
		if r.Start.Before(w.start) {
			w.start = r.Start
		}
		if r.Finish.After(w.finish) {
			w.finish = r.Finish
		}
	}

	var totalMin float64
	for _, w := range byUser {
		span := w.finish.Sub(w.start).Minutes()
		if span < 0 {
			span = 0
		}
		if span > maxUserSpanMin {
			span = maxUserSpanMin
		}
		totalMin += span
	}
	return totalMin
}

// mergedBusyMinutes merges each user's [Start, Finish] task ranges into
// non-overlapping blocks and sums their durations across users.
func mergedBusyMinutes(subset []EnrichedRecord) float64 {
	type interval struct {
		start time.Time
		end   time.Time
	}
	byUser := make(map[string][]interval)

	for _, r := range subset {
		if r.Finish.Before(r.Start) {
			continue
		}
		byUser[r.User] = append(byUser[r.User], interval{start: r.Start, end: r.Finish})
	}

	var totalMin float64
	for _, intervals := range byUser {
		slices.SortFunc(intervals, func(a, b interval) int {
			return a.start.Compare(b.start)
		})

		merged := intervals[:1]
		for _, iv := range intervals[1:] {
			last := &merged[len(merged)-1]
			if !iv.start.After(last.end) {
				if iv.end.After(last.end) {
					last.end = iv.end
				}
				continue
			}
			merged = append(merged, iv)
		}

		for _, iv := range merged {
			totalMin += iv.end.Sub(iv.start).Minutes()
		}
	}
	return totalMin
}

// hourlyFlowUPH buckets volume by the calendar hour of each record's Finish
// and averages across the non-empty hours.
func hourlyFlowUPH(subset []EnrichedRecord) float64 {
	hours := make(map[string]int)
	for _, r := range subset {
		hours[r.Finish.Format("2006-01-02T15")] += r.Quantity
	}

	var rates []float64
	for _, volume := range hours {
		if volume > 0 {
			rates = append(rates, float64(volume))
		}
	}
	return mean(rates)
}
