package main

import (
	"math"
	"time"
)

// PredictEnergyLevels projects tomorrow's energy level from the recent
// 7-day average, adjusted by the detected trend and by fresh post-activity
// fatigue. Fewer than 7 energy entries returns a fixed degraded forecast
// instead of a guess dressed up as a prediction.
func (a *PacingAnalyzer) PredictEnergyLevels(data *UserHealthData) EnergyForecast {
	now := a.now()
	tomorrow := now.AddDate(0, 0, 1)

	if data == nil || len(data.EnergyLevels) < ForecastMinEntries {
		return EnergyForecast{
			ForecastDate:         tomorrow,
			PredictedEnergyLevel: int(NeutralEnergyLevel),
			Confidence:           DegradedConfidence,
			Factors: []ForecastFactor{
				{Factor: "insufficient data for a trend-based forecast", Impact: "neutral", Weight: 1.0},
			},
			Recommendations: []string{"Log your energy daily for a week to unlock trend-based forecasts"},
		}
	}

	predicted := windowedAverage(energySeries(data.EnergyLevels), ForecastWindowDays, now)
	factors := []ForecastFactor{}

	switch a.classifyEnergyPattern(data.EnergyLevels) {
	case PatternImproving:
		predicted = math.Min(predicted+TrendAdjustment, 10)
		factors = append(factors, ForecastFactor{Factor: "improving energy trend", Impact: "positive", Weight: TrendFactorWeight})
	case PatternDeclining:
		predicted = math.Max(predicted-TrendAdjustment, 1)
		factors = append(factors, ForecastFactor{Factor: "declining energy trend", Impact: "negative", Weight: TrendFactorWeight})
	case PatternVolatile:
		factors = append(factors, ForecastFactor{Factor: "volatile energy pattern", Impact: "neutral", Weight: SteadyFactorWeight})
	default:
		factors = append(factors, ForecastFactor{Factor: "stable energy pattern", Impact: "neutral", Weight: SteadyFactorWeight})
	}

	if hasRecentHighFatigueActivity(data.ActivityLogs, now) {
		predicted = math.Max(predicted-1, 1)
		factors = append(factors, ForecastFactor{Factor: "high post-activity fatigue in the last 24 hours", Impact: "negative", Weight: FatigueFactorWeight})
	}

	level := clampLevel(int(math.Round(predicted)))

	return EnergyForecast{
		ForecastDate:         tomorrow,
		PredictedEnergyLevel: level,
		Confidence:           a.calculatePredictionConfidence(data),
		Factors:              factors,
		Recommendations:      forecastRecommendations(level),
	}
}

// calculatePredictionConfidence rewards both volume and variety of data
// sources: energy history dominates, biometrics and activity logs each add a
// smaller share. Non-decreasing in each input count.
func (a *PacingAnalyzer) calculatePredictionConfidence(data *UserHealthData) float64 {
	energyShare := math.Min(float64(len(data.EnergyLevels))/ConfidenceEnergyFull, 1)
	bioShare := math.Min(float64(len(data.BiometricReadings))/ConfidenceBioFull, 1)
	actShare := math.Min(float64(len(data.ActivityLogs))/ConfidenceActFull, 1)

	confidence := ConfidenceEnergyShare*energyShare + ConfidenceBioShare*bioShare + ConfidenceActShare*actShare
	return roundTo(confidence, 2)
}

// hasRecentHighFatigueActivity reports whether any activity in the last 24
// hours recorded post-activity fatigue above the overreach threshold.
func hasRecentHighFatigueActivity(activities []ActivityLog, now time.Time) bool {
	cutoff := now.Add(-24 * time.Hour)
	for _, activity := range activities {
		if activity.Date.Before(cutoff) {
			continue
		}
		if activity.PostActivityFatigue != nil && *activity.PostActivityFatigue > HighPostFatigue {
			return true
		}
	}
	return false
}

// clampLevel keeps a predicted level on the 1-10 scale.
func clampLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 10 {
		return 10
	}
	return level
}

// forecastRecommendations keys short pacing advice off the predicted level.
func forecastRecommendations(level int) []string {
	switch {
	case level <= 3:
		return []string{
			"Plan tomorrow as a rest day with only essential activities",
			"Prepare meals or supplies today while energy is known",
		}
	case level >= 7:
		return []string{
			"Some extra capacity is likely; add at most one gentle activity",
			"Keep rest breaks scheduled even on better days",
		}
	default:
		return []string{
			"Plan a steady day at your usual baseline",
			"Hold something in reserve rather than spending the full forecast",
		}
	}
}
