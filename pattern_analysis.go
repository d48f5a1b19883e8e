package main

import "time"

// PacingAnalyzer turns a user's raw health logs into pacing guidance. It is
// stateless between calls; now is injectable so results are reproducible in
// tests.
type PacingAnalyzer struct {
	now func() time.Time
}

// NewPacingAnalyzer creates a new pacing analyzer instance.
func NewPacingAnalyzer() *PacingAnalyzer {
	return &PacingAnalyzer{
		now: time.Now,
	}
}

// Energy pattern labels.
const (
	PatternStable    = "stable"
	PatternImproving = "improving"
	PatternDeclining = "declining"
	PatternVolatile  = "volatile"
)

// classifyEnergyPattern labels the recent energy history. Fewer than 7
// entries always classify "stable": too little data to call a pattern.
// Volatility is checked before trend so a swinging series is never reported
// as merely improving because its tail averages higher.
func (a *PacingAnalyzer) classifyEnergyPattern(entries []EnergyEntry) string {
	if len(entries) < PatternMinEntries {
		return PatternStable
	}

	sorted := sortedByDate(entries)
	if len(sorted) > PatternWindowEntries {
		sorted = sorted[len(sorted)-PatternWindowEntries:]
	}

	levels := make([]float64, len(sorted))
	for i, e := range sorted {
		levels[i] = float64(e.Level)
	}

	if calculateVariance(levels) > VolatilityVariance {
		return PatternVolatile
	}

	half := len(levels) / 2
	firstMean := calculateMean(levels[:half])
	secondMean := calculateMean(levels[half:])

	switch delta := secondMean - firstMean; {
	case delta > TrendMeanDelta:
		return PatternImproving
	case delta < -TrendMeanDelta:
		return PatternDeclining
	default:
		return PatternStable
	}
}

// AnalyzePatterns derives the detected patterns and the trend summary for
// one user's snapshot. A nil or empty snapshot yields an empty pattern list
// with "unknown" secondary trends, never an error.
func (a *PacingAnalyzer) AnalyzePatterns(data *UserHealthData) PatternAnalysis {
	if data == nil {
		return PatternAnalysis{
			Patterns: []DetectedPattern{},
			Trends: TrendSummary{
				EnergyTrend:       PatternStable,
				SymptomTrend:      "unknown",
				ActivityTolerance: "unknown",
			},
		}
	}

	patterns := []DetectedPattern{}

	energyTrend := a.classifyEnergyPattern(data.EnergyLevels)
	if desc, recs := describeEnergyPattern(energyTrend); desc != "" {
		patterns = append(patterns, DetectedPattern{
			Type:            "energy_trend",
			Description:     desc,
			Confidence:      patternConfidence(len(data.EnergyLevels)),
			Timeframe:       "last 14 days",
			Recommendations: recs,
		})
	}

	for _, trigger := range a.identifyCrashTriggers(data.EnergyLevels, data.ActivityLogs) {
		patterns = append(patterns, DetectedPattern{
			Type:            "crash_trigger",
			Description:     trigger,
			Confidence:      0.6,
			Timeframe:       "observed in logged history",
			Recommendations: []string{"Plan a rest block after this kind of activity", "Split the activity into shorter segments with breaks"},
		})
	}

	return PatternAnalysis{
		Patterns: patterns,
		Trends: TrendSummary{
			EnergyTrend:       energyTrend,
			SymptomTrend:      a.analyzeSymptomTrend(data.SymptomLogs),
			ActivityTolerance: a.assessActivityTolerance(data.ActivityLogs),
		},
	}
}

// describeEnergyPattern maps a pattern label to its user-facing description
// and follow-up suggestions.
func describeEnergyPattern(label string) (string, []string) {
	switch label {
	case PatternImproving:
		return "Energy levels have been trending upward over the recent two weeks",
			[]string{"Keep current pacing; increase activity only in small steps"}
	case PatternDeclining:
		return "Energy levels have been trending downward over the recent two weeks",
			[]string{"Reduce planned activity load", "Review the past week for new stressors"}
	case PatternVolatile:
		return "Energy levels are swinging widely day to day",
			[]string{"Aim for a consistent daily baseline instead of pushing on good days"}
	default:
		// A stable pattern is the baseline, not a finding.
		return "", nil
	}
}

// patternConfidence scales with how much of the 14-day window is filled.
func patternConfidence(entryCount int) float64 {
	if entryCount >= PatternWindowEntries {
		return 0.8
	}
	return 0.6
}

// analyzeSymptomTrend compares the recent 7 days of fatigue and pain
// severity against the prior 7 days.
func (a *PacingAnalyzer) analyzeSymptomTrend(logs []SymptomLog) string {
	if len(logs) == 0 {
		return "unknown"
	}

	now := a.now()
	recentCutoff := now.AddDate(0, 0, -7)
	priorCutoff := now.AddDate(0, 0, -14)

	var recent, prior []float64
	for _, log := range logs {
		severity := float64(log.Fatigue)
		if log.Pain != nil {
			severity = (severity + float64(*log.Pain)) / 2
		}

		switch {
		case !log.Date.Before(recentCutoff):
			recent = append(recent, severity)
		case !log.Date.Before(priorCutoff):
			prior = append(prior, severity)
		}
	}

	if len(recent) == 0 || len(prior) == 0 {
		return "unknown"
	}

	switch delta := calculateMean(recent) - calculateMean(prior); {
	case delta > 0.5:
		return "worsening"
	case delta < -0.5:
		return "improving"
	default:
		return "stable"
	}
}

// assessActivityTolerance grades how often completed activities were
// followed by high fatigue.
func (a *PacingAnalyzer) assessActivityTolerance(logs []ActivityLog) string {
	completed := 0
	highFatigue := 0
	for _, log := range logs {
		if !log.Completed {
			continue
		}
		completed++
		if log.PostActivityFatigue != nil && *log.PostActivityFatigue > HighPostFatigue {
			highFatigue++
		}
	}

	if completed == 0 {
		return "unknown"
	}

	ratio := float64(highFatigue) / float64(completed)
	switch {
	case ratio > 0.5:
		return "poor"
	case ratio > 0.25:
		return "reduced"
	default:
		return "good"
	}
}
