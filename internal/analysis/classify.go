package analysis

import (
	"slices"
	"strconv"
	"strings"

	"shiftlens/internal/shiftlog"
)

// jobProfile holds the classification facts for one job.
type jobProfile struct {
	hasSorting bool
	skus       map[string]bool
	// orders maps OrderCode -> SKU -> total quantity (the order's signature).
	orders map[string]map[string]int
}

// buildJobProfiles runs the classifier's own grouping pass over the raw
// records. It is independent of the enrichment pipeline.
func buildJobProfiles(records []shiftlog.Record) map[string]*jobProfile {
	profiles := make(map[string]*jobProfile)
	for _, r := range records {
		p, ok := profiles[r.JobCode]
		if !ok {
			p = &jobProfile{
				skus:   make(map[string]bool),
				orders: make(map[string]map[string]int),
			}
			profiles[r.JobCode] = p
		}

		taskType := strings.ToLower(r.TaskType)
		if strings.Contains(taskType, "sort") || strings.Contains(taskType, "wall") {
			p.hasSorting = true
		}
		p.skus[r.SKU] = true

		if p.orders[r.OrderCode] == nil {
			p.orders[r.OrderCode] = make(map[string]int)
		}
		p.orders[r.OrderCode][r.SKU] += r.Quantity
	}
	return profiles
}

// classifyJob assigns exactly one of the seven archetypes. This is a strict
// decision list, not a scoring function: the first matching rule wins, and the
// rule order is part of the contract.
func classifyJob(p *jobProfile) JobCategory {
	orderCount := len(p.orders)

	allSingleSku := true
	allSingleSkuSingleUnit := true
	var firstSignature string
	identicalSignatures := true

	first := true
	for _, skus := range p.orders {
		if len(skus) != 1 {
			allSingleSku = false
			allSingleSkuSingleUnit = false
		} else {
			for _, qty := range skus {
				if qty != 1 {
					allSingleSkuSingleUnit = false
				}
			}
		}

		sig := orderSignature(skus)
		if first {
			firstSignature = sig
			first = false
		} else if sig != firstSignature {
			identicalSignatures = false
		}
	}

	switch {
	case p.hasSorting:
		return JobPutToWall
	case len(p.skus) == 1 && allSingleSku && orderCount > 1:
		return JobIdenticalItem
	case allSingleSkuSingleUnit && orderCount >= 2:
		return JobMixedSingles
	case identicalSignatures && orderCount >= 2:
		return JobIdenticalOrders
	case orderCount == 1:
		return JobOrderBased
	case orderCount > 1:
		return JobMultiItem
	default:
		return JobComplex
	}
}

// orderSignature canonicalizes an order's SKU:qty multiset.
func orderSignature(skus map[string]int) string {
	parts := make([]string, 0, len(skus))
	for sku, qty := range skus {
		parts = append(parts, sku+":"+strconv.Itoa(qty))
	}
	slices.Sort(parts)
	return strings.Join(parts, "|")
}

// structuredCategories are the archetypes that indicate deliberately batched,
// repeatable work rather than ad-hoc order handling.
var structuredCategories = map[JobCategory]bool{
	JobPutToWall:       true,
	JobIdenticalItem:   true,
	JobMixedSingles:    true,
	JobIdenticalOrders: true,
}

// computeMaturity scores five weighted operational phases from the job mix and
// the aggregate stats. The phase rules are plain policy heuristics layered on
// top of the core metrics.
func computeMaturity(jobMix map[JobCategory]int, stats Stats, health HealthStats, recordCount int) MaturityResult {
	if recordCount == 0 {
		return MaturityResult{Phases: []PhaseScore{}}
	}

	phases := []PhaseScore{
		{Phase: "process_discipline", Weight: 0.25},
		{Phase: "travel_efficiency", Weight: 0.20},
		{Phase: "scheduling_density", Weight: 0.20},
		{Phase: "layout_usage", Weight: 0.15},
		{Phase: "structured_work", Weight: 0.20},
	}

	// process_discipline: anomaly-free share of the timeline.
	anomalyRate := safeDiv(float64(health.AnomalyCount+health.OverlapCount), float64(recordCount))
	phases[0].Score = round2(10 * (1 - clamp01(anomalyRate*5)))

	// travel_efficiency: process share of picking time.
	travelShare := safeDiv(stats.Picking.AvgTravelTimeSec,
		stats.Picking.AvgTravelTimeSec+stats.Picking.AvgProcessTimeSec)
	phases[1].Score = round2(10 * (1 - clamp01(travelShare)))

	// scheduling_density: global utilization maps directly onto 0-10.
	phases[2].Score = round2(clamp01(stats.Global.UtilizationPct/100) * 10)

	// layout_usage: fewer distinct locations per unit means denser slotting.
	phases[3].Score = round2(10 * (1 - clamp01(stats.Picking.LocationsPerUnit)))

	// structured_work: share of jobs in batched archetypes.
	var total, structured int
	for category, count := range jobMix {
		total += count
		if structuredCategories[category] {
			structured += count
		}
	}
	phases[4].Score = round2(clamp01(safeDiv(float64(structured), float64(total))) * 10)

	var score float64
	for _, p := range phases {
		score += p.Weight * p.Score
	}

	return MaturityResult{
		Score:  round2(score * 10),
		Phases: phases,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
