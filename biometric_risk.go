package main

import "fmt"

// AssessBiometricRisk evaluates heart-rate and HRV readings for patterns
// worth flagging. Fewer than 3 readings is not enough signal to assess, so
// the result reports no concerns rather than guessing. Concern order is
// fixed: elevated heart rate, low HRV, declining HRV trend.
func (a *PacingAnalyzer) AssessBiometricRisk(readings []BiometricReading) BiometricRisk {
	if len(readings) < BiometricMinReadings {
		return BiometricRisk{HasConcerns: false, Concerns: []string{}}
	}

	sorted := sortedReadings(readings)
	recent := sorted
	if len(recent) > BiometricRecentWindow {
		recent = recent[len(recent)-BiometricRecentWindow:]
	}

	var heartRates, hrvValues []float64
	for _, r := range recent {
		heartRates = append(heartRates, r.HeartRate)
		hrvValues = append(hrvValues, r.HRV)
	}

	concerns := []string{}

	if meanHR := calculateMean(heartRates); meanHR > ElevatedHeartRateBPM {
		concerns = append(concerns, fmt.Sprintf("Elevated resting heart rate: averaging %.0f bpm over recent readings", meanHR))
	}

	if meanHRV := calculateMean(hrvValues); meanHRV < LowHRVMs {
		concerns = append(concerns, fmt.Sprintf("Low heart rate variability: averaging %.0f ms over recent readings", meanHRV))
	}

	if len(recent) >= HRVTrendMinReadings {
		n := len(hrvValues)
		earlierMean := calculateMean(hrvValues[n-5 : n-2])
		latestMean := calculateMean(hrvValues[n-3:])
		if earlierMean-latestMean > HRVDropMs {
			concerns = append(concerns, fmt.Sprintf("Declining HRV trend: dropped from %.0f ms to %.0f ms across recent readings", earlierMean, latestMean))
		}
	}

	return BiometricRisk{
		HasConcerns: len(concerns) > 0,
		Concerns:    concerns,
	}
}
