package analysis

import (
	"slices"
	"time"
)

// dynamicIntervalUPH scores throughput over fixed time buckets, normalized by
// active headcount per bucket. Two methods are supported: a straight interval
// average and a grand average of per-user daily averages.
func dynamicIntervalUPH(subset []EnrichedRecord, cfg BufferConfig) (float64, []IntervalData) {
	if len(subset) == 0 {
		return 0, nil
	}

	switch cfg.FlowCalculationMethod {
	case FlowMethodUserDaily:
		score := userDailyAverageUPH(subset)
		// Hourly drill-down keeps the detail structure meaningful for this
		// method, which is inherently hour-of-day based.
		intervals := buildIntervals(subset, 60)
		return score, intervals
	default:
		return intervalAverageUPH(subset, cfg)
	}
}

// buildIntervals partitions the subset's time range into fixed buckets keyed
// by the bucket containing each record's Finish. Empty buckets inside the
// range are materialized so drill-down views see the full timeline.
func buildIntervals(subset []EnrichedRecord, intervalMin int) []IntervalData {
	if len(subset) == 0 || intervalMin <= 0 {
		return nil
	}
	step := time.Duration(intervalMin) * time.Minute

	byBucket := make(map[time.Time]*IntervalData)
	var minBucket, maxBucket time.Time
	for _, r := range subset {
		bucket := r.Finish.Truncate(step)
		data, ok := byBucket[bucket]
		if !ok {
			data = &IntervalData{
				Start:      bucket,
				End:        bucket.Add(step),
				UserVolume: make(map[string]int),
			}
			byBucket[bucket] = data
		}
		data.Volume += r.Quantity
		data.UserVolume[r.User] += r.Quantity

		if minBucket.IsZero() || bucket.Before(minBucket) {
			minBucket = bucket
		}
		if bucket.After(maxBucket) {
			maxBucket = bucket
		}
	}

	var intervals []IntervalData
	for bucket := minBucket; !bucket.After(maxBucket); bucket = bucket.Add(step) {
		if data, ok := byBucket[bucket]; ok {
			data.ActiveUsers = len(data.UserVolume)
			intervals = append(intervals, *data)
			continue
		}
		intervals = append(intervals, IntervalData{
			Start:      bucket,
			End:        bucket.Add(step),
			UserVolume: map[string]int{},
		})
	}
	return intervals
}

// intervalAverageUPH computes the mean per-bucket rate, where a bucket's rate
// is its volume per active user scaled to an hourly figure.
func intervalAverageUPH(subset []EnrichedRecord, cfg BufferConfig) (float64, []IntervalData) {
	intervalMin := cfg.FlowBucketIntervalMin
	if intervalMin <= 0 {
		return 0, nil
	}

	intervals := buildIntervals(subset, intervalMin)

	var rates []float64
	for _, iv := range intervals {
		if cfg.FlowExcludeEmpty && iv.Volume == 0 {
			continue
		}
		rate := 0.0
		if iv.ActiveUsers > 0 {
			rate = float64(iv.Volume) / float64(iv.ActiveUsers) * (60.0 / float64(intervalMin))
		}
		rates = append(rates, rate)
	}

	return round2(mean(rates) * flowMultiplier), intervals
}

// userDailyAverageUPH computes the grand average of daily team averages:
// a user's daily rate is the mean of their per-active-hour volumes, a date's
// team rate is the mean of its users' daily rates, and the score is the mean
// over dates.
func userDailyAverageUPH(subset []EnrichedRecord) float64 {
	// volume[user][date][hour]
	volume := make(map[string]map[string]map[int]int)
	for _, r := range subset {
		user := r.User
		date := r.Finish.Format("2006-01-02")
		hour := r.Finish.Hour()

		if volume[user] == nil {
			volume[user] = make(map[string]map[int]int)
		}
		if volume[user][date] == nil {
			volume[user][date] = make(map[int]int)
		}
		volume[user][date][hour] += r.Quantity
	}

	// dailyRates[date] = each active user's daily rate
	dailyRates := make(map[string][]float64)
	for _, dates := range volume {
		for date, hours := range dates {
			var hourly []float64
			for _, v := range hours {
				hourly = append(hourly, float64(v))
			}
			dailyRates[date] = append(dailyRates[date], mean(hourly))
		}
	}

	dates := make([]string, 0, len(dailyRates))
	for date := range dailyRates {
		dates = append(dates, date)
	}
	slices.Sort(dates)

	var teamRates []float64
	for _, date := range dates {
		teamRates = append(teamRates, mean(dailyRates[date]))
	}
	return round2(mean(teamRates))
}
