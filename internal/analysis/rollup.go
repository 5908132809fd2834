package analysis

import (
	"cmp"
	"slices"
	"time"

	"shiftlens/internal/shiftlog"
)

// jobAggregate accumulates the distinct-set and volume state for one job.
type jobAggregate struct {
	jobCode   string
	jobType   string
	waveCode  string
	isAI      bool
	orders    map[string]bool
	locations map[string]bool
	skus      map[string]bool
	taskTypes map[string]bool
	units     int
}

// buildJobAggregates groups records by JobCode, rebuilt fresh per call.
func buildJobAggregates(records []shiftlog.Record) map[string]*jobAggregate {
	jobs := make(map[string]*jobAggregate)
	for _, r := range records {
		job, ok := jobs[r.JobCode]
		if !ok {
			job = &jobAggregate{
				jobCode:   r.JobCode,
				jobType:   r.JobType,
				waveCode:  r.WaveCode,
				orders:    make(map[string]bool),
				locations: make(map[string]bool),
				skus:      make(map[string]bool),
				taskTypes: make(map[string]bool),
			}
			jobs[r.JobCode] = job
		}
		job.orders[r.OrderCode] = true
		job.locations[r.Location] = true
		job.skus[r.SKU] = true
		job.taskTypes[r.TaskType] = true
		job.units += r.Quantity
		if r.IsAI {
			job.isAI = true
		}
	}
	return jobs
}

// summarizeJobs converts the aggregates into the sorted output list, attaching
// each job's archetype classification.
func summarizeJobs(records []shiftlog.Record, jobs map[string]*jobAggregate) []JobSummary {
	profiles := buildJobProfiles(records)

	summaries := make([]JobSummary, 0, len(jobs))
	for code, job := range jobs {
		summary := JobSummary{
			JobCode:   code,
			JobType:   job.jobType,
			Orders:    len(job.orders),
			SKUs:      len(job.skus),
			Locations: len(job.locations),
			Units:     job.units,
			IsAI:      job.isAI,
		}
		if p, ok := profiles[code]; ok {
			summary.Category = classifyJob(p)
		}
		summaries = append(summaries, summary)
	}

	slices.SortFunc(summaries, func(a, b JobSummary) int {
		return cmp.Compare(a.JobCode, b.JobCode)
	})
	return summaries
}

// summarizeWaves averages per-job order and unit counts per wave.
func summarizeWaves(jobs map[string]*jobAggregate) []WaveSummary {
	type waveAcc struct {
		count  int
		orders int
		units  int
	}
	waves := make(map[string]*waveAcc)
	for _, job := range jobs {
		wave := job.waveCode
		if wave == "" {
			wave = "Unknown"
		}
		acc, ok := waves[wave]
		if !ok {
			acc = &waveAcc{}
			waves[wave] = acc
		}
		acc.count++
		acc.orders += len(job.orders)
		acc.units += job.units
	}

	summaries := make([]WaveSummary, 0, len(waves))
	for wave, acc := range waves {
		summaries = append(summaries, WaveSummary{
			WaveCode:  wave,
			JobCount:  acc.count,
			AvgOrders: round2(safeDiv(float64(acc.orders), float64(acc.count))),
			AvgUnits:  round2(safeDiv(float64(acc.units), float64(acc.count))),
		})
	}
	slices.SortFunc(summaries, func(a, b WaveSummary) int {
		return cmp.Compare(a.WaveCode, b.WaveCode)
	})
	return summaries
}

// summarizeJobTypes averages per-job order/unit/SKU counts per declared job type.
func summarizeJobTypes(jobs map[string]*jobAggregate) []JobTypeSummary {
	type typeAcc struct {
		count  int
		orders int
		units  int
		skus   int
	}
	types := make(map[string]*typeAcc)
	for _, job := range jobs {
		jt := job.jobType
		if jt == "" {
			jt = "Unknown"
		}
		acc, ok := types[jt]
		if !ok {
			acc = &typeAcc{}
			types[jt] = acc
		}
		acc.count++
		acc.orders += len(job.orders)
		acc.units += job.units
		acc.skus += len(job.skus)
	}

	summaries := make([]JobTypeSummary, 0, len(types))
	for jt, acc := range types {
		summaries = append(summaries, JobTypeSummary{
			JobType:   jt,
			JobCount:  acc.count,
			AvgOrders: round2(safeDiv(float64(acc.orders), float64(acc.count))),
			AvgUnits:  round2(safeDiv(float64(acc.units), float64(acc.count))),
			AvgSKUs:   round2(safeDiv(float64(acc.skus), float64(acc.count))),
		})
	}
	slices.SortFunc(summaries, func(a, b JobTypeSummary) int {
		return cmp.Compare(a.JobType, b.JobType)
	})
	return summaries
}

// summarizeTaskTypes averages job shape per task type present within a job.
// A job mixing task types contributes its full totals to each of them.
func summarizeTaskTypes(jobs map[string]*jobAggregate) []TaskTypeSummary {
	type typeAcc struct {
		count  int
		orders int
		units  int
		skus   int
	}
	types := make(map[string]*typeAcc)
	for _, job := range jobs {
		for tt := range job.taskTypes {
			acc, ok := types[tt]
			if !ok {
				acc = &typeAcc{}
				types[tt] = acc
			}
			acc.count++
			acc.orders += len(job.orders)
			acc.units += job.units
			acc.skus += len(job.skus)
		}
	}

	summaries := make([]TaskTypeSummary, 0, len(types))
	for tt, acc := range types {
		summaries = append(summaries, TaskTypeSummary{
			TaskType:  tt,
			JobCount:  acc.count,
			AvgOrders: round2(safeDiv(float64(acc.orders), float64(acc.count))),
			AvgUnits:  round2(safeDiv(float64(acc.units), float64(acc.count))),
			AvgSKUs:   round2(safeDiv(float64(acc.skus), float64(acc.count))),
		})
	}
	slices.SortFunc(summaries, func(a, b TaskTypeSummary) int {
		return cmp.Compare(a.TaskType, b.TaskType)
	})
	return summaries
}

// computeJobTiming derives job duration, inter-job gap and cycle-time
// statistics from each user's chronological job sequence. Gap and cycle
// samples of 8 hours or more are excluded as cross-day artifacts and tallied
// rather than silently dropped.
func computeJobTiming(records []shiftlog.Record) JobTimingMetrics {
	type envelope struct {
		user  string
		start time.Time
		end   time.Time
	}

	// 1. Job envelopes
	byJob := make(map[string]*envelope)
	for _, r := range records {
		env, ok := byJob[r.JobCode]
		if !ok {
			byJob[r.JobCode] = &envelope{user: r.User, start: r.Start, end: r.Finish}
			continue
		}
		if r.Start.Before(env.start) {
			env.start = r.Start
			env.user = r.User
		}
		if r.Finish.After(env.end) {
			env.end = r.Finish
		}
	}

	metrics := JobTimingMetrics{JobCount: len(byJob)}
	if len(byJob) == 0 {
		return metrics
	}

	// 2. Per-user job sequences
	byUser := make(map[string][]envelope)
	for _, env := range byJob {
		byUser[env.user] = append(byUser[env.user], *env)
	}

	var durations, gapSamples, cycleSamples []float64
	for _, envs := range byUser {
		slices.SortFunc(envs, func(a, b envelope) int {
			return a.start.Compare(b.start)
		})

		for i, env := range envs {
			if d := env.end.Sub(env.start).Seconds(); d >= 0 {
				durations = append(durations, d/60)
			}

			if i == 0 {
				continue
			}
			prev := envs[i-1]
			metrics.PairCount++

			gap := env.start.Sub(prev.end).Seconds()
			if gap < 0 {
				gap = 0
			}
			if gap >= jobTimingOutlierSec {
				metrics.OutliersExcluded++
			} else {
				gapSamples = append(gapSamples, gap/60)
			}

			cycle := env.start.Sub(prev.start).Seconds()
			if cycle < 0 {
				cycle = 0
			}
			if cycle >= jobTimingOutlierSec {
				metrics.OutliersExcluded++
			} else {
				cycleSamples = append(cycleSamples, cycle/60)
			}
		}
	}

	metrics.Duration = distribution(durations)
	metrics.InterJobGap = distribution(gapSamples)
	metrics.CycleTime = distribution(cycleSamples)
	return metrics
}

func distribution(samples []float64) TimingDistribution {
	return TimingDistribution{
		AvgMin:    round2(mean(samples)),
		MedianMin: round2(median(samples)),
		P90Min:    round2(percentile(samples, 90)),
	}
}

// computeUserPerformance ranks users by occupancy UPH, rank 1 highest.
func computeUserPerformance(enriched []EnrichedRecord) []UserPerformance {
	byUser := make(map[string][]EnrichedRecord)
	for _, r := range enriched {
		byUser[r.User] = append(byUser[r.User], r)
	}

	perf := make([]UserPerformance, 0, len(byUser))
	for user, recs := range byUser {
		var volume int
		var directSec float64
		for _, r := range recs {
			volume += r.Quantity
			directSec += r.ProcessTimeSec + r.TravelTimeSec
		}
		spanHours := userSpanMinutes(recs) / 60
		busyHours := mergedBusyMinutes(recs) / 60

		perf = append(perf, UserPerformance{
			User:           user,
			TaskCount:      len(recs),
			TotalVolume:    volume,
			ShiftSpanHours: round2(spanHours),
			DirectHours:    round2(directSec / 3600),
			UPH:            round2(safeDiv(float64(volume), spanHours)),
			UtilizationPct: round2(safeDiv(busyHours, spanHours) * 100),
		})
	}

	slices.SortFunc(perf, func(a, b UserPerformance) int {
		if c := cmp.Compare(b.UPH, a.UPH); c != 0 {
			return c
		}
		return cmp.Compare(a.User, b.User)
	})
	for i := range perf {
		perf[i].Rank = i + 1
	}
	return perf
}

// capacityUPH is the mean occupancy UPH of the top-N ranked users, the team's
// demonstrated capacity benchmark.
func capacityUPH(perf []UserPerformance, topN int) float64 {
	if topN <= 0 || len(perf) == 0 {
		return 0
	}
	if topN > len(perf) {
		topN = len(perf)
	}
	var rates []float64
	for _, p := range perf[:topN] {
		rates = append(rates, p.UPH)
	}
	return round2(mean(rates))
}
