package main

import (
	"testing"
	"time"
)

func TestCalculateMean(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{
			name:     "empty slice",
			values:   []float64{},
			expected: 0,
		},
		{
			name:     "single value",
			values:   []float64{5.0},
			expected: 5.0,
		},
		{
			name:     "multiple values",
			values:   []float64{1.0, 2.0, 3.0, 4.0, 5.0},
			expected: 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calculateMean(tt.values)
			if result != tt.expected {
				t.Errorf("calculateMean() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestCalculateVariance(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{
			name:     "empty slice",
			values:   []float64{},
			expected: 0,
		},
		{
			name:     "constant series",
			values:   []float64{4, 4, 4, 4},
			expected: 0,
		},
		{
			// Population variance, not sample variance: divide by n.
			name:     "known variance",
			values:   []float64{2, 4, 4, 4, 5, 5, 7, 9},
			expected: 4.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := calculateVariance(tt.values)
			if result != tt.expected {
				t.Errorf("calculateVariance() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestWindowedAverage(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	series := []datedValue{
		{date: now.AddDate(0, 0, -1), value: 4},
		{date: now.AddDate(0, 0, -2), value: 5},
		{date: now.AddDate(0, 0, -3), value: 7},
		{date: now.AddDate(0, 0, -20), value: 10}, // outside every window below
	}

	t.Run("averages entries inside the window", func(t *testing.T) {
		result := windowedAverage(series, 7, now)
		expected := 5.3 // (4+5+7)/3 rounded to one decimal
		if result != expected {
			t.Errorf("windowedAverage() = %v, want %v", result, expected)
		}
	})

	t.Run("empty window returns neutral midpoint", func(t *testing.T) {
		result := windowedAverage(nil, 7, now)
		if result != NeutralEnergyLevel {
			t.Errorf("windowedAverage() = %v, want %v", result, NeutralEnergyLevel)
		}
	})

	t.Run("old entries are excluded", func(t *testing.T) {
		old := []datedValue{{date: now.AddDate(0, 0, -20), value: 10}}
		result := windowedAverage(old, 7, now)
		if result != NeutralEnergyLevel {
			t.Errorf("windowedAverage() = %v, want neutral default %v", result, NeutralEnergyLevel)
		}
	})
}

func TestSortedByDate(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	entries := []EnergyEntry{
		{Date: now, Level: 3},
		{Date: now.AddDate(0, 0, -2), Level: 1},
		{Date: now.AddDate(0, 0, -1), Level: 2},
	}

	sorted := sortedByDate(entries)

	for i, want := range []int{1, 2, 3} {
		if sorted[i].Level != want {
			t.Errorf("sorted[%d].Level = %d, want %d", i, sorted[i].Level, want)
		}
	}

	// Input order must be untouched; the snapshot is read-only.
	if entries[0].Level != 3 {
		t.Errorf("input slice was mutated")
	}
}
