package analysis

import (
	"time"

	"shiftlens/internal/shiftlog"
)

// GapType classifies the idle time between two consecutive tasks of a user.
type GapType string

const (
	GapFirstTask  GapType = "FIRST_TASK"
	GapIntraJob   GapType = "INTRA_JOB"
	GapTransition GapType = "TRANSITION"
	GapOverlap    GapType = "OVERLAP"
)

// FlowMethod selects the dynamic interval throughput algorithm.
type FlowMethod string

const (
	FlowMethodInterval  FlowMethod = "interval"
	FlowMethodUserDaily FlowMethod = "user_daily_average"
)

// Travel/process decomposition tuning. These are deliberate calibration
// values from the source domain, not arbitrary defaults.
const (
	// GSPTMinSamples is the absolute floor of same-location repeat-pick
	// samples required before a facility-wide GSPT is trusted.
	GSPTMinSamples = 30
	// GSPTMinFraction scales the sample floor with dataset size.
	GSPTMinFraction = 0.01
	// GSPTPercentile selects the fastest-decile repeat pick as the
	// near-zero-travel pure process time.
	GSPTPercentile = 10
	// FallbackSameLocTravelPct splits duration when GSPT is unavailable and
	// the pick repeats the previous location.
	FallbackSameLocTravelPct = 0.05
	// FallbackCrossLocTravelPct splits duration when GSPT is unavailable and
	// the pick changed location.
	FallbackCrossLocTravelPct = 0.70
)

const (
	// sortBlockBreakSec is the internal gap above which a sorting block is
	// considered interrupted by a break rather than continuous work.
	sortBlockBreakSec = 300.0
	// jobTimingOutlierSec excludes cross-day artifacts from job gap/cycle
	// statistics.
	jobTimingOutlierSec = 8 * 3600.0
	// maxUserSpanMin bounds a single user's shift span reconstruction.
	maxUserSpanMin = 24 * 60.0
	// flowMultiplier scales the interval-method throughput score. The
	// per-bucket rate is already per-hour, so the neutral value is 1.
	flowMultiplier = 1.0
)

// BufferConfig carries the caller-supplied tolerances and flow settings.
type BufferConfig struct {
	IntraJobBufferMin      float64    `json:"intraJobBufferMin" yaml:"intraJobBufferMin"`
	JobTransitionBufferMin float64    `json:"jobTransitionBufferMin" yaml:"jobTransitionBufferMin"`
	AlertThresholdMin      float64    `json:"alertThresholdMin" yaml:"alertThresholdMin"`
	FlowBucketIntervalMin  int        `json:"flowBucketIntervalMin" yaml:"flowBucketIntervalMin"`
	FlowExcludeEmpty       bool       `json:"flowExcludeEmpty" yaml:"flowExcludeEmpty"`
	FlowCalculationMethod  FlowMethod `json:"flowCalculationMethod" yaml:"flowCalculationMethod"`
	UtilizationCap         int        `json:"utilizationCap" yaml:"utilizationCap"`
}

// DefaultConfig returns the documented engine defaults.
func DefaultConfig() BufferConfig {
	return BufferConfig{
		IntraJobBufferMin:      5,
		JobTransitionBufferMin: 10,
		AlertThresholdMin:      15,
		FlowBucketIntervalMin:  10,
		FlowExcludeEmpty:       true,
		FlowCalculationMethod:  FlowMethodInterval,
		UtilizationCap:         5,
	}
}

// EnrichedRecord is an input record plus the derived normalization,
// decomposition and gap-classification fields. Built once per analysis run and
// never mutated afterwards.
type EnrichedRecord struct {
	shiftlog.Record

	// AdjustedDurationSec is the normalized task duration: the batch/sort-block
	// adjusted value when a normalization pass touched this record, otherwise
	// the clamped raw Finish-Start.
	AdjustedDurationSec float64 `json:"adjustedDurationSec"`

	RawGapMin      float64 `json:"rawGapMin"`
	NetGapMin      float64 `json:"netGapMin"`
	GapType        GapType `json:"gapType"`
	IsAnomaly      bool    `json:"isAnomaly"`
	ProcessTimeSec float64 `json:"processTimeSec"`
	TravelTimeSec  float64 `json:"travelTimeSec"`
	InterJobGapSec float64 `json:"interJobGapSec"`
}

// TelemetryEntry records a data-quality warning detected during the main pass.
type TelemetryEntry struct {
	User      string    `json:"user"`
	Timestamp time.Time `json:"timestamp"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
}

// IntervalData is the per-bucket drill-down behind the dynamic interval score.
type IntervalData struct {
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Volume      int            `json:"volume"`
	ActiveUsers int            `json:"activeUsers"`
	UserVolume  map[string]int `json:"userVolume"`
}

// ProcessStats holds the throughput/utilization block for one process subset.
type ProcessStats struct {
	TaskCount          int     `json:"taskCount"`
	TotalVolume        int     `json:"totalVolume"`
	ShiftSpanHours     float64 `json:"shiftSpanHours"`
	DirectHours        float64 `json:"directHours"`
	UPH                float64 `json:"uph"`
	UPHPure            float64 `json:"uphPure"`
	UPHHourlyFlow      float64 `json:"uphHourlyFlow"`
	TPH                float64 `json:"tph"`
	UtilizationPct     float64 `json:"utilizationPct"`
	DistinctLocations  int     `json:"distinctLocations"`
	LocationsPerUnit   float64 `json:"locationsPerUnit"`
	AvgTaskDurationSec float64 `json:"avgTaskDurationSec"`
	AvgProcessTimeSec  float64 `json:"avgProcessTimeSec"`
	AvgTravelTimeSec   float64 `json:"avgTravelTimeSec"`

	DynamicIntervalUPH float64        `json:"dynamicIntervalUph"`
	Intervals          []IntervalData `json:"intervals,omitempty"`
}

// Stats groups the per-process blocks.
type Stats struct {
	Picking ProcessStats `json:"picking"`
	Packing ProcessStats `json:"packing"`
	Sorting ProcessStats `json:"sorting"`
	Global  ProcessStats `json:"global"`
}

// JobCategory is one of the seven operational archetypes.
type JobCategory string

const (
	JobPutToWall       JobCategory = "PUT_TO_WALL"
	JobIdenticalItem   JobCategory = "IDENTICAL_ITEM"
	JobMixedSingles    JobCategory = "MIXED_SINGLES"
	JobIdenticalOrders JobCategory = "IDENTICAL_ORDERS"
	JobOrderBased      JobCategory = "ORDER_BASED"
	JobMultiItem       JobCategory = "MULTI_ITEM"
	JobComplex         JobCategory = "COMPLEX"
)

// JobSummary is the per-job aggregate.
type JobSummary struct {
	JobCode   string      `json:"jobCode"`
	JobType   string      `json:"jobType"`
	Category  JobCategory `json:"category"`
	Orders    int         `json:"orders"`
	SKUs      int         `json:"skus"`
	Locations int         `json:"locations"`
	Units     int         `json:"units"`
	IsAI      bool        `json:"isAI"`
}

// WaveSummary averages job shape per wave.
type WaveSummary struct {
	WaveCode  string  `json:"waveCode"`
	JobCount  int     `json:"jobCount"`
	AvgOrders float64 `json:"avgOrders"`
	AvgUnits  float64 `json:"avgUnits"`
}

// JobTypeSummary averages job shape per declared job type.
type JobTypeSummary struct {
	JobType   string  `json:"jobType"`
	JobCount  int     `json:"jobCount"`
	AvgOrders float64 `json:"avgOrders"`
	AvgUnits  float64 `json:"avgUnits"`
	AvgSKUs   float64 `json:"avgSkus"`
}

// TaskTypeSummary averages job shape per task type present in a job. A job
// mixing task types contributes its totals to every one of them.
type TaskTypeSummary struct {
	TaskType  string  `json:"taskType"`
	JobCount  int     `json:"jobCount"`
	AvgOrders float64 `json:"avgOrders"`
	AvgUnits  float64 `json:"avgUnits"`
	AvgSKUs   float64 `json:"avgSkus"`
}

// TimingDistribution reports average/median/P90 of a duration sample, minutes.
type TimingDistribution struct {
	AvgMin    float64 `json:"avgMin"`
	MedianMin float64 `json:"medianMin"`
	P90Min    float64 `json:"p90Min"`
}

// JobTimingMetrics covers job duration, inter-job gap and cycle time across
// each user's job sequence.
type JobTimingMetrics struct {
	JobCount         int                `json:"jobCount"`
	PairCount        int                `json:"pairCount"`
	Duration         TimingDistribution `json:"duration"`
	InterJobGap      TimingDistribution `json:"interJobGap"`
	CycleTime        TimingDistribution `json:"cycleTime"`
	OutliersExcluded int                `json:"outliersExcluded"`
}

// UserPerformance ranks one user's shift. Rank 1 is the highest occupancy UPH.
type UserPerformance struct {
	User           string  `json:"user"`
	Rank           int     `json:"rank"`
	TaskCount      int     `json:"taskCount"`
	TotalVolume    int     `json:"totalVolume"`
	ShiftSpanHours float64 `json:"shiftSpanHours"`
	DirectHours    float64 `json:"directHours"`
	UPH            float64 `json:"uph"`
	UtilizationPct float64 `json:"utilizationPct"`
}

// PhaseScore is one maturity phase, scored 0-10.
type PhaseScore struct {
	Phase  string  `json:"phase"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

// MaturityResult is the weighted 0-100 operational maturity overlay.
type MaturityResult struct {
	Score  float64      `json:"score"`
	Phases []PhaseScore `json:"phases"`
}

// AdvancedStats carries the calibration and rollup results.
type AdvancedStats struct {
	GSPTSec         *float64            `json:"gsptSec"`
	GSPTSampleCount int                 `json:"gsptSampleCount"`
	CapacityUPH     float64             `json:"capacityUph"`
	Jobs            []JobSummary        `json:"jobs"`
	Waves           []WaveSummary       `json:"waves"`
	JobTypes        []JobTypeSummary    `json:"jobTypes"`
	TaskTypes       []TaskTypeSummary   `json:"taskTypes"`
	JobMix          map[JobCategory]int `json:"jobMix"`
	Maturity        MaturityResult      `json:"maturity"`
}

// HealthStats summarizes data-quality findings. Anomalies are flagged, never
// rejected.
type HealthStats struct {
	AnomalyCount      int  `json:"anomalyCount"`
	OverlapCount      int  `json:"overlapCount"`
	NegativeDurations int  `json:"negativeDurations"`
	OutliersExcluded  int  `json:"outliersExcluded"`
	GSPTAvailable     bool `json:"gsptAvailable"`
}

// Result is the engine's single output. Immutable once returned.
type Result struct {
	Stats           Stats             `json:"stats"`
	Advanced        AdvancedStats     `json:"advanced"`
	Health          HealthStats       `json:"health"`
	JobTiming       JobTimingMetrics  `json:"jobTimingMetrics"`
	UserPerformance []UserPerformance `json:"userPerformance"`
	Records         []EnrichedRecord  `json:"records"`
	Telemetry       []TelemetryEntry  `json:"telemetry"`
}
