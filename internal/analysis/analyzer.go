package analysis

import (
	"golang.org/x/sync/errgroup"

	"shiftlens/internal/shiftlog"
)

// Analyze runs the full shift-log analysis: normalization, travel/process
// decomposition, gap classification, aggregate statistics, rollups and job
// classification. It is a pure function of its inputs — no state survives
// between calls, and identical inputs reproduce identical output. Data-quality
// issues degrade to zeros and telemetry entries; Analyze never fails on them.
func Analyze(records []shiftlog.Record, cfg BufferConfig) Result {
	// 1. Normalize: stable (User, Start) sort plus the two duration passes.
	ordered := sortRecords(records)
	adj := durationAdjustments(ordered)

	// 2. Calibrate GSPT and classify gaps over the sorted sequence.
	gspt, gsptSamples := calibrateGSPT(ordered, adj)
	gaps, telemetry := classifyGaps(ordered, cfg)

	// 3. Enrich: one derived record per input record, never mutated after.
	enriched := make([]EnrichedRecord, len(ordered))
	health := HealthStats{GSPTAvailable: gspt != nil}
	for i := range ordered {
		if ordered[i].Finish.Before(ordered[i].Start) {
			health.NegativeDurations++
		}
		process, travel := decomposeDuration(ordered, adj, i, gspt)

		enriched[i] = EnrichedRecord{
			Record:              ordered[i],
			AdjustedDurationSec: adjustedDuration(ordered, adj, i),
			RawGapMin:           gaps[i].rawGapMin,
			NetGapMin:           gaps[i].netGapMin,
			GapType:             gaps[i].gapType,
			IsAnomaly:           gaps[i].isAnomaly,
			ProcessTimeSec:      process,
			TravelTimeSec:       travel,
			InterJobGapSec:      gaps[i].interJobGapSec,
		}

		if gaps[i].isAnomaly {
			health.AnomalyCount++
		}
		if gaps[i].gapType == GapOverlap {
			health.OverlapCount++
		}
	}

	// 4. Per-process aggregates. The four blocks are independent, so they fan
	// out; assembly below is deterministic regardless of completion order.
	var picking, packing, sorting []EnrichedRecord
	for _, r := range enriched {
		if r.IsPicking() {
			picking = append(picking, r)
		}
		if r.IsPacking() {
			packing = append(packing, r)
		}
		if r.IsSorting() {
			sorting = append(sorting, r)
		}
	}

	result := Result{
		Records:   enriched,
		Telemetry: telemetry,
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		result.Stats.Picking = computeProcessStats(picking, cfg)
		return nil
	})
	g.Go(func() error {
		result.Stats.Packing = computeProcessStats(packing, cfg)
		return nil
	})
	g.Go(func() error {
		result.Stats.Sorting = computeProcessStats(sorting, cfg)
		return nil
	})
	g.Go(func() error {
		result.Stats.Global = computeProcessStats(enriched, cfg)
		return nil
	})
	_ = g.Wait()

	// 5. Rollups and timing
	jobs := buildJobAggregates(ordered)
	result.Advanced.Jobs = summarizeJobs(ordered, jobs)
	result.Advanced.Waves = summarizeWaves(jobs)
	result.Advanced.JobTypes = summarizeJobTypes(jobs)
	result.Advanced.TaskTypes = summarizeTaskTypes(jobs)

	result.JobTiming = computeJobTiming(ordered)
	health.OutliersExcluded = result.JobTiming.OutliersExcluded

	result.UserPerformance = computeUserPerformance(enriched)
	result.Advanced.CapacityUPH = capacityUPH(result.UserPerformance, cfg.UtilizationCap)

	// 6. Classification mix and maturity overlay
	jobMix := make(map[JobCategory]int)
	for _, job := range result.Advanced.Jobs {
		jobMix[job.Category]++
	}
	result.Advanced.JobMix = jobMix
	result.Advanced.GSPTSec = gspt
	result.Advanced.GSPTSampleCount = gsptSamples

	result.Health = health
	result.Advanced.Maturity = computeMaturity(jobMix, result.Stats, health, len(ordered))

	return result
}
