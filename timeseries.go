package main

import (
	"math"
	"sort"
	"time"
)

// datedValue is a generic (date, value) point used by the windowing helpers.
type datedValue struct {
	date  time.Time
	value float64
}

// calculateMean returns the arithmetic mean, or 0 for empty input.
func calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateVariance returns the population variance (mean of squared
// deviations), or 0 for empty input.
func calculateVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := calculateMean(values)
	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}
	return sumSquaredDiff / float64(len(values))
}

// windowedAverage averages the values dated within the last windowDays
// (relative to now), rounded to one decimal place. An empty window yields
// the neutral midpoint of the 1-10 scale rather than an error.
func windowedAverage(series []datedValue, windowDays int, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -windowDays)

	var values []float64
	for _, point := range series {
		if !point.date.Before(cutoff) {
			values = append(values, point.value)
		}
	}

	if len(values) == 0 {
		return NeutralEnergyLevel
	}
	return roundTo(calculateMean(values), 1)
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}

// dateKey collapses a timestamp to its calendar date. Only the date portion
// of a log entry is meaningful for bucketing.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// sameCalendarDay reports whether two timestamps fall on the same date.
func sameCalendarDay(a, b time.Time) bool {
	return dateKey(a) == dateKey(b)
}

// energySeries converts energy entries to dated values.
func energySeries(entries []EnergyEntry) []datedValue {
	series := make([]datedValue, 0, len(entries))
	for _, e := range entries {
		series = append(series, datedValue{date: e.Date, value: float64(e.Level)})
	}
	return series
}

// sortedByDate returns a date-ascending copy of the energy entries. Callers
// must not assume the snapshot arrives sorted.
func sortedByDate(entries []EnergyEntry) []EnergyEntry {
	sorted := make([]EnergyEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// sortedReadings returns a date-ascending copy of the biometric readings.
func sortedReadings(readings []BiometricReading) []BiometricReading {
	sorted := make([]BiometricReading, len(readings))
	copy(sorted, readings)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
