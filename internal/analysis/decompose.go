package analysis

import (
	"math"
	"slices"

	"shiftlens/internal/shiftlog"
)

// calibrateGSPT derives the facility-wide Ground Standard Process Time from
// consecutive same-location picks, where travel is known to be near zero.
// Returns nil when the sample fails the significance gate.
func calibrateGSPT(ordered []shiftlog.Record, adj map[int]float64) (*float64, int) {
	var samples []float64
	for i := 1; i < len(ordered); i++ {
		prev, curr := ordered[i-1], ordered[i]
		if !curr.IsPicking() {
			continue
		}
		if prev.User != curr.User || prev.JobCode != curr.JobCode || prev.Location != curr.Location {
			continue
		}
		if d := adjustedDuration(ordered, adj, i); d > 0 {
			samples = append(samples, d)
		}
	}

	n := len(samples)
	required := GSPTMinSamples
	if scaled := int(math.Ceil(GSPTMinFraction * float64(len(ordered)))); scaled > required {
		required = scaled
	}
	if n < required {
		return nil, n
	}

	slices.Sort(samples)
	gspt := samples[int(math.Floor(float64(GSPTPercentile)/100.0*float64(n)))]
	return &gspt, n
}

// decomposeDuration splits one task's adjusted duration into process time and
// travel time, seconds.
//
// Picking with a known GSPT: everything above the standard is travel. Without
// a GSPT, fall back to a fixed split: a location repeat is almost pure process
// work, a location change is mostly travel. Non-picking tasks carry no travel
// component at all.
func decomposeDuration(ordered []shiftlog.Record, adj map[int]float64, i int, gspt *float64) (processSec, travelSec float64) {
	duration := adjustedDuration(ordered, adj, i)
	curr := ordered[i]

	if !curr.IsPicking() {
		return duration, 0
	}

	if gspt != nil {
		process := math.Min(duration, *gspt)
		travel := math.Max(0, duration-*gspt)
		return process, travel
	}

	travelPct := FallbackCrossLocTravelPct
	if i > 0 {
		prev := ordered[i-1]
		if prev.User == curr.User && prev.JobCode == curr.JobCode && prev.Location == curr.Location {
			travelPct = FallbackSameLocTravelPct
		}
	}
	return duration * (1 - travelPct), duration * travelPct
}
