package main

import "time"

// Analysis thresholds. Every cutoff the engine applies lives here so the
// values are documented and independently testable.
const (
	// Neutral midpoint of the 1-10 energy scale, returned when a window
	// holds no data.
	NeutralEnergyLevel = 5.0

	// Energy pattern classification
	PatternMinEntries    = 7
	PatternWindowEntries = 14
	VolatilityVariance   = 4.0 // population variance above this is "volatile"
	TrendMeanDelta       = 1.0 // half-mean difference beyond this is a trend

	// Crash detection
	CrashDropThreshold = 3 // day-over-day energy drop counted as a crash

	// Biometric risk
	BiometricMinReadings  = 3
	BiometricRecentWindow = 7
	ElevatedHeartRateBPM  = 90.0
	LowHRVMs              = 20.0
	HRVTrendMinReadings   = 5
	HRVDropMs             = 10.0

	// Symptom correlation
	CorrelationMinSharedDates = 5
	CorrelationMeaningfulR    = 0.3
	CorrelationModerateR      = 0.5
	CorrelationHighR          = 0.7
	CorrelationModerateN      = 15
	CorrelationHighN          = 20
	CorrelationLowMaxN        = 10

	// Forecasting
	ForecastMinEntries    = 7
	ForecastWindowDays    = 7
	TrendAdjustment       = 0.5
	TrendFactorWeight     = 0.7
	SteadyFactorWeight    = 0.5
	FatigueFactorWeight   = 0.9
	HighPostFatigue       = 6 // post-activity fatigue above this signals overreach
	DegradedConfidence    = 0.3
	ConfidenceEnergyShare = 0.6
	ConfidenceBioShare    = 0.2
	ConfidenceActShare    = 0.2
	ConfidenceEnergyFull  = 14.0
	ConfidenceBioFull     = 7.0
	ConfidenceActFull     = 7.0

	// Recommendation synthesis
	MinEntriesForGuidance  = 3
	CurrentStateWindowDays = 3
	LowEnergyAverage       = 3.0
	HighEnergyAverage      = 7.0
	HighFatigueActivities  = 2 // flagged activities before scaling back
	MaxRecommendations     = 5
)

// Recommendation validity windows.
const (
	RecommendationTTL = 24 * time.Hour
	WelcomeTTL        = 7 * 24 * time.Hour
)

// DisclaimerNotMedicalAdvice is attached to every recommendation the engine
// emits.
const DisclaimerNotMedicalAdvice = "This guidance is pacing support based on your own logs, not medical advice. Consult your healthcare provider about symptoms, diagnosis, or treatment."

// DisclaimerBiometricConfounds accompanies recommendations derived from
// wearable readings.
const DisclaimerBiometricConfounds = "Wearable heart rate and HRV readings are affected by medication, hydration, temperature, and sensor placement; treat single readings with caution."
