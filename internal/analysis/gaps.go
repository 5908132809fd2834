package analysis

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"shiftlens/internal/shiftlog"
)

// gapInfo holds the classification of the idle time preceding one record.
type gapInfo struct {
	rawGapMin      float64
	netGapMin      float64
	gapType        GapType
	isAnomaly      bool
	interJobGapSec float64
}

// classifyGaps walks each user's timeline in the sorted sequence and
// classifies the gap before every task. Overlaps (a task starting before the
// previous one finished) are flagged to the telemetry log rather than
// rejected; cross-user concurrency is irrelevant since each user's timeline is
// independent.
func classifyGaps(ordered []shiftlog.Record, cfg BufferConfig) ([]gapInfo, []TelemetryEntry) {
	gaps := make([]gapInfo, len(ordered))
	telemetry := make([]TelemetryEntry, 0)

	for i := range ordered {
		curr := ordered[i]

		if i == 0 || ordered[i-1].User != curr.User {
			gaps[i] = gapInfo{gapType: GapFirstTask}
			continue
		}

		prev := ordered[i-1]
		deltaSec := curr.Start.Sub(prev.Finish).Seconds()
		rawGapSec := math.Max(0, deltaSec)

		gapType := GapTransition
		bufferMin := cfg.JobTransitionBufferMin
		if curr.JobCode == prev.JobCode {
			gapType = GapIntraJob
			bufferMin = cfg.IntraJobBufferMin
		}

		if deltaSec < 0 {
			gapType = GapOverlap
			entry := TelemetryEntry{
				User:      curr.User,
				Timestamp: curr.Start,
				Type:      "overlap",
				Message:   fmt.Sprintf("task starts %.0fs before previous task %q finished", -deltaSec, prev.JobCode),
			}
			telemetry = append(telemetry, entry)
			log.Warn().
				Str("user", curr.User).
				Time("start", curr.Start).
				Float64("overlapSec", -deltaSec).
				Msg("Overlapping tasks on user timeline")
		}

		validGapSec := math.Max(0, rawGapSec-bufferMin*60)
		if gapType == GapOverlap {
			validGapSec = 0
		}

		info := gapInfo{
			rawGapMin: rawGapSec / 60,
			netGapMin: validGapSec / 60,
			gapType:   gapType,
			isAnomaly: validGapSec > cfg.AlertThresholdMin*60,
		}
		if gapType == GapTransition {
			info.interJobGapSec = rawGapSec
		}
		gaps[i] = info
	}

	return gaps, telemetry
}
