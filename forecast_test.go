package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictEnergyLevels(t *testing.T) {
	analyzer := newTestAnalyzer(testNow)
	tomorrow := testNow.AddDate(0, 0, 1)

	t.Run("nil snapshot returns the degraded forecast", func(t *testing.T) {
		forecast := analyzer.PredictEnergyLevels(nil)

		assert.Equal(t, int(NeutralEnergyLevel), forecast.PredictedEnergyLevel)
		assert.Equal(t, DegradedConfidence, forecast.Confidence)
		assert.True(t, forecast.ForecastDate.Equal(tomorrow))
		require.Len(t, forecast.Factors, 1)
		assert.Equal(t, "neutral", forecast.Factors[0].Impact)
	})

	t.Run("fewer than seven entries returns the degraded forecast", func(t *testing.T) {
		data := &UserHealthData{EnergyLevels: energyHistory(testNow, 8, 8, 8, 8, 8, 8)}

		forecast := analyzer.PredictEnergyLevels(data)
		assert.Equal(t, int(NeutralEnergyLevel), forecast.PredictedEnergyLevel)
		assert.Equal(t, DegradedConfidence, forecast.Confidence)
		assert.NotEmpty(t, forecast.Recommendations)
	})

	t.Run("stable week predicts the windowed average", func(t *testing.T) {
		data := &UserHealthData{EnergyLevels: energyHistory(testNow, 6, 6, 6, 6, 6, 6, 6)}

		forecast := analyzer.PredictEnergyLevels(data)
		assert.Equal(t, 6, forecast.PredictedEnergyLevel)
		require.Len(t, forecast.Factors, 1)
		assert.Equal(t, "stable energy pattern", forecast.Factors[0].Factor)
		assert.Equal(t, SteadyFactorWeight, forecast.Factors[0].Weight)
	})

	t.Run("declining trend lowers the prediction", func(t *testing.T) {
		data := &UserHealthData{
			EnergyLevels: energyHistory(testNow, 8, 8, 8, 8, 8, 8, 8, 4, 4, 4, 4, 4, 4, 4),
		}

		forecast := analyzer.PredictEnergyLevels(data)
		// 7-day window averages 4.5; the declining trend subtracts 0.5.
		assert.Equal(t, 4, forecast.PredictedEnergyLevel)
		require.Len(t, forecast.Factors, 1)
		assert.Equal(t, "negative", forecast.Factors[0].Impact)
		assert.Equal(t, TrendFactorWeight, forecast.Factors[0].Weight)
	})

	t.Run("improving trend raises the prediction", func(t *testing.T) {
		data := &UserHealthData{
			EnergyLevels: energyHistory(testNow, 4, 4, 4, 4, 4, 4, 4, 6, 6, 6, 6, 6, 6, 6),
		}

		forecast := analyzer.PredictEnergyLevels(data)
		assert.Equal(t, 6, forecast.PredictedEnergyLevel)
		require.Len(t, forecast.Factors, 1)
		assert.Equal(t, "positive", forecast.Factors[0].Impact)
	})

	t.Run("fresh high post-activity fatigue subtracts a level", func(t *testing.T) {
		data := &UserHealthData{
			EnergyLevels: energyHistory(testNow, 6, 6, 6, 6, 6, 6, 6),
			ActivityLogs: []ActivityLog{
				{Date: testNow.Add(-3 * time.Hour), Type: ActivityMovementSession, Completed: true, PostActivityFatigue: intPtr(8)},
			},
		}

		forecast := analyzer.PredictEnergyLevels(data)
		assert.Equal(t, 5, forecast.PredictedEnergyLevel)

		var fatigueFactor *ForecastFactor
		for i := range forecast.Factors {
			if forecast.Factors[i].Weight == FatigueFactorWeight {
				fatigueFactor = &forecast.Factors[i]
			}
		}
		require.NotNil(t, fatigueFactor)
		assert.Equal(t, "negative", fatigueFactor.Impact)
	})

	t.Run("stale high fatigue is ignored", func(t *testing.T) {
		data := &UserHealthData{
			EnergyLevels: energyHistory(testNow, 6, 6, 6, 6, 6, 6, 6),
			ActivityLogs: []ActivityLog{
				{Date: testNow.AddDate(0, 0, -3), Type: ActivityMovementSession, Completed: true, PostActivityFatigue: intPtr(9)},
			},
		}

		forecast := analyzer.PredictEnergyLevels(data)
		assert.Equal(t, 6, forecast.PredictedEnergyLevel)
	})

	t.Run("low prediction recommends a rest day", func(t *testing.T) {
		data := &UserHealthData{EnergyLevels: energyHistory(testNow, 2, 2, 2, 2, 2, 2, 2)}

		forecast := analyzer.PredictEnergyLevels(data)
		assert.Equal(t, 2, forecast.PredictedEnergyLevel)
		require.NotEmpty(t, forecast.Recommendations)
		assert.Contains(t, forecast.Recommendations[0], "rest day")
	})
}

func TestCalculatePredictionConfidence(t *testing.T) {
	analyzer := newTestAnalyzer(testNow)

	fullLevels := make([]int, 14)
	for i := range fullLevels {
		fullLevels[i] = 5
	}

	t.Run("all sources saturated yields full confidence", func(t *testing.T) {
		data := &UserHealthData{
			EnergyLevels:      energyHistory(testNow, fullLevels...),
			BiometricReadings: readingHistory(testNow, []float64{70, 70, 70, 70, 70, 70, 70}, []float64{60, 60, 60, 60, 60, 60, 60}),
			ActivityLogs: []ActivityLog{
				{}, {}, {}, {}, {}, {}, {},
			},
		}

		assert.Equal(t, 1.0, analyzer.calculatePredictionConfidence(data))
	})

	t.Run("energy history alone contributes its share", func(t *testing.T) {
		data := &UserHealthData{EnergyLevels: energyHistory(testNow, 5, 5, 5, 5, 5, 5, 5)}
		// 7 of 14 entries fills half of the 0.6 energy share.
		assert.Equal(t, 0.3, analyzer.calculatePredictionConfidence(data))
	})

	t.Run("confidence never decreases as data accrues", func(t *testing.T) {
		prev := 0.0
		for days := 1; days <= 20; days++ {
			levels := make([]int, days)
			for i := range levels {
				levels[i] = 5
			}
			data := &UserHealthData{EnergyLevels: energyHistory(testNow, levels...)}

			confidence := analyzer.calculatePredictionConfidence(data)
			assert.GreaterOrEqual(t, confidence, prev, "confidence dipped at %d entries", days)
			prev = confidence
		}
	})
}
