package main

import (
	"math"
	"sort"
)

// AnalyzeSymptomCorrelations computes pairwise Pearson correlation across
// every symptom series observed in the logs and keeps the pairs that are
// both meaningful (|r| > 0.3) and observed together often enough. Results
// are sorted by correlation strength, strongest first.
func (a *PacingAnalyzer) AnalyzeSymptomCorrelations(logs []SymptomLog) []SymptomCorrelation {
	buckets := bucketSymptomSeverities(logs)

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	correlations := []SymptomCorrelation{}

	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			xs, ys := alignSeries(buckets[keys[i]], buckets[keys[j]])
			if len(xs) < CorrelationMinSharedDates {
				continue
			}

			r := pearsonCorrelation(xs, ys)
			if math.Abs(r) <= CorrelationMeaningfulR {
				continue
			}

			correlations = append(correlations, SymptomCorrelation{
				Symptom1:     keys[i],
				Symptom2:     keys[j],
				Correlation:  r,
				Significance: classifySignificance(r, len(xs)),
				SampleSize:   len(xs),
			})
		}
	}

	sort.SliceStable(correlations, func(i, j int) bool {
		return math.Abs(correlations[i].Correlation) > math.Abs(correlations[j].Correlation)
	})

	return correlations
}

// bucketSymptomSeverities builds, per symptom key, a map of calendar date to
// severity. Three core series come from dedicated fields; sleep disturbance
// is inverted (11 - quality) so higher always means worse. Additional
// free-form entries contribute their own series.
func bucketSymptomSeverities(logs []SymptomLog) map[string]map[string]float64 {
	buckets := make(map[string]map[string]float64)

	record := func(key, date string, severity float64) {
		if buckets[key] == nil {
			buckets[key] = make(map[string]float64)
		}
		buckets[key][date] = severity
	}

	for _, log := range logs {
		date := dateKey(log.Date)

		record(string(SymptomFatigue), date, float64(log.Fatigue))
		if log.BrainFog != nil {
			record(string(SymptomBrainFog), date, float64(*log.BrainFog))
		}
		if log.SleepQuality != nil {
			record(string(SymptomSleepDisturbance), date, float64(11-*log.SleepQuality))
		}

		for _, entry := range log.Additional {
			record(entry.SeriesKey(), date, float64(entry.Severity))
		}
	}

	return buckets
}

// alignSeries pairs up the severities recorded on dates both series share.
func alignSeries(s1, s2 map[string]float64) ([]float64, []float64) {
	dates := make([]string, 0, len(s1))
	for date := range s1 {
		if _, ok := s2[date]; ok {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)

	xs := make([]float64, 0, len(dates))
	ys := make([]float64, 0, len(dates))
	for _, date := range dates {
		xs = append(xs, s1[date])
		ys = append(ys, s2[date])
	}
	return xs, ys
}

// pearsonCorrelation computes the Pearson correlation coefficient of two
// equal-length series. A zero denominator (constant series) yields 0.
func pearsonCorrelation(xs, ys []float64) float64 {
	n := float64(len(xs))
	if n == 0 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
		sumYY += ys[i] * ys[i]
	}

	denominator := math.Sqrt((n*sumXX - sumX*sumX) * (n*sumYY - sumY*sumY))
	if denominator == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denominator
}

// classifySignificance gates by both strength and sample size: small samples
// are never more than "low" no matter how strong the coefficient.
func classifySignificance(r float64, sampleSize int) string {
	abs := math.Abs(r)
	switch {
	case sampleSize < CorrelationLowMaxN:
		return "low"
	case abs > CorrelationHighR && sampleSize >= CorrelationHighN:
		return "high"
	case abs > CorrelationModerateR && sampleSize >= CorrelationModerateN:
		return "moderate"
	default:
		return "low"
	}
}
