package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestAnalyzer pins the analyzer clock so windowed checks are stable.
func newTestAnalyzer(now time.Time) *PacingAnalyzer {
	analyzer := NewPacingAnalyzer()
	analyzer.now = func() time.Time { return now }
	return analyzer
}

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// energyHistory builds one entry per day, oldest first, ending today.
func energyHistory(now time.Time, levels ...int) []EnergyEntry {
	entries := make([]EnergyEntry, len(levels))
	for i, level := range levels {
		entries[i] = EnergyEntry{
			Date:      now.AddDate(0, 0, -(len(levels) - 1 - i)),
			Level:     level,
			TimeOfDay: TimeOfDayMorning,
		}
	}
	return entries
}

func intPtr(v int) *int { return &v }

func TestClassifyEnergyPattern(t *testing.T) {
	analyzer := newTestAnalyzer(testNow)

	t.Run("seven flat entries are stable", func(t *testing.T) {
		entries := energyHistory(testNow, 5, 5, 5, 5, 5, 5, 5)
		assert.Equal(t, PatternStable, analyzer.classifyEnergyPattern(entries))
	})

	t.Run("fewer than seven entries always classify stable", func(t *testing.T) {
		// Wild swings, but not enough data to call a pattern.
		entries := energyHistory(testNow, 1, 10, 1, 10, 1, 10)
		assert.Equal(t, PatternStable, analyzer.classifyEnergyPattern(entries))
	})

	t.Run("empty series is stable", func(t *testing.T) {
		assert.Equal(t, PatternStable, analyzer.classifyEnergyPattern(nil))
	})

	t.Run("rising half means classify improving", func(t *testing.T) {
		entries := energyHistory(testNow, 4, 4, 4, 4, 4, 4, 4, 6, 6, 6, 6, 6, 6, 6)
		assert.Equal(t, PatternImproving, analyzer.classifyEnergyPattern(entries))
	})

	t.Run("falling half means classify declining", func(t *testing.T) {
		entries := energyHistory(testNow, 6, 6, 6, 6, 6, 6, 6, 4, 4, 4, 4, 4, 4, 4)
		assert.Equal(t, PatternDeclining, analyzer.classifyEnergyPattern(entries))
	})

	t.Run("volatility takes precedence over trend", func(t *testing.T) {
		// Second-half mean exceeds the first by far more than the trend
		// threshold, but the swings dominate.
		entries := energyHistory(testNow, 1, 2, 1, 2, 1, 2, 1, 9, 10, 9, 10, 9, 10, 9)
		assert.Equal(t, PatternVolatile, analyzer.classifyEnergyPattern(entries))
	})

	t.Run("only the most recent 14 entries are considered", func(t *testing.T) {
		// 10 ancient high entries followed by 14 recent flat ones.
		levels := []int{10, 10, 10, 10, 10, 10, 10, 10, 10, 10}
		for i := 0; i < 14; i++ {
			levels = append(levels, 5)
		}
		entries := energyHistory(testNow, levels...)
		assert.Equal(t, PatternStable, analyzer.classifyEnergyPattern(entries))
	})

	t.Run("unsorted input is sorted before windowing", func(t *testing.T) {
		entries := energyHistory(testNow, 6, 6, 6, 6, 6, 6, 6, 4, 4, 4, 4, 4, 4, 4)
		// Reverse: insertion order is not guaranteed sorted.
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
		assert.Equal(t, PatternDeclining, analyzer.classifyEnergyPattern(entries))
	})
}

func TestIdentifyCrashTriggers(t *testing.T) {
	analyzer := newTestAnalyzer(testNow)

	day := func(offset int) time.Time { return testNow.AddDate(0, 0, offset) }

	t.Run("movement session before a crash is attributed", func(t *testing.T) {
		entries := []EnergyEntry{
			{Date: day(-2), Level: 7},
			{Date: day(-1), Level: 3},
		}
		activities := []ActivityLog{
			{Date: day(-2), Type: ActivityMovementSession, Completed: true},
		}

		triggers := analyzer.identifyCrashTriggers(entries, activities)
		require.Len(t, triggers, 1)
		assert.Contains(t, triggers[0], "Movement session")
	})

	t.Run("daily anchor before a crash is attributed to routine load", func(t *testing.T) {
		entries := []EnergyEntry{
			{Date: day(-2), Level: 8},
			{Date: day(-1), Level: 4},
		}
		activities := []ActivityLog{
			{Date: day(-2), Type: ActivityDailyAnchor, Completed: true},
		}

		triggers := analyzer.identifyCrashTriggers(entries, activities)
		require.Len(t, triggers, 1)
		assert.Contains(t, triggers[0], "Daily anchor")
	})

	t.Run("no completed prior-day activity means no attribution", func(t *testing.T) {
		entries := []EnergyEntry{
			{Date: day(-2), Level: 7},
			{Date: day(-1), Level: 2},
		}
		activities := []ActivityLog{
			{Date: day(-2), Type: ActivityMovementSession, Completed: false},
		}

		assert.Empty(t, analyzer.identifyCrashTriggers(entries, activities))
	})

	t.Run("drop below the crash threshold is ignored", func(t *testing.T) {
		entries := []EnergyEntry{
			{Date: day(-2), Level: 6},
			{Date: day(-1), Level: 4},
		}
		activities := []ActivityLog{
			{Date: day(-2), Type: ActivityMovementSession, Completed: true},
		}

		assert.Empty(t, analyzer.identifyCrashTriggers(entries, activities))
	})

	t.Run("identical triggers are deduplicated", func(t *testing.T) {
		// Two identical crash/activity pairings on the same prior date can
		// happen with morning and evening energy logs.
		entries := []EnergyEntry{
			{Date: day(-2), Level: 7},
			{Date: day(-1), Level: 3},
			{Date: day(-1).Add(8 * time.Hour), Level: 7},
			{Date: day(0), Level: 3},
		}
		activities := []ActivityLog{
			{Date: day(-2), Type: ActivityMovementSession, Completed: true},
			{Date: day(-1), Type: ActivityMovementSession, Completed: true},
		}

		triggers := analyzer.identifyCrashTriggers(entries, activities)
		seen := map[string]bool{}
		for _, trigger := range triggers {
			assert.False(t, seen[trigger], "duplicate trigger: %s", trigger)
			seen[trigger] = true
		}
	})
}

func TestAnalyzePatterns(t *testing.T) {
	analyzer := newTestAnalyzer(testNow)

	t.Run("nil snapshot yields unknown trends and no patterns", func(t *testing.T) {
		analysis := analyzer.AnalyzePatterns(nil)
		assert.Empty(t, analysis.Patterns)
		assert.Equal(t, "unknown", analysis.Trends.SymptomTrend)
		assert.Equal(t, "unknown", analysis.Trends.ActivityTolerance)
	})

	t.Run("declining energy produces a trend pattern", func(t *testing.T) {
		data := &UserHealthData{
			UserID:       "user-1",
			EnergyLevels: energyHistory(testNow, 8, 8, 8, 8, 8, 8, 8, 4, 4, 4, 4, 4, 4, 4),
		}

		analysis := analyzer.AnalyzePatterns(data)
		assert.Equal(t, PatternDeclining, analysis.Trends.EnergyTrend)

		require.NotEmpty(t, analysis.Patterns)
		assert.Equal(t, "energy_trend", analysis.Patterns[0].Type)
		assert.True(t, strings.Contains(analysis.Patterns[0].Description, "downward"))
		assert.NotEmpty(t, analysis.Patterns[0].Recommendations)
	})

	t.Run("symptom trend compares recent week against prior week", func(t *testing.T) {
		var logs []SymptomLog
		for i := 13; i >= 7; i-- {
			logs = append(logs, SymptomLog{Date: testNow.AddDate(0, 0, -i), Fatigue: 3})
		}
		for i := 6; i >= 0; i-- {
			logs = append(logs, SymptomLog{Date: testNow.AddDate(0, 0, -i), Fatigue: 7, Pain: intPtr(7)})
		}

		analysis := analyzer.AnalyzePatterns(&UserHealthData{SymptomLogs: logs})
		assert.Equal(t, "worsening", analysis.Trends.SymptomTrend)
	})

	t.Run("activity tolerance reflects post-activity fatigue ratio", func(t *testing.T) {
		logs := []ActivityLog{
			{Date: testNow.AddDate(0, 0, -3), Type: ActivityMovementSession, Completed: true, PostActivityFatigue: intPtr(8)},
			{Date: testNow.AddDate(0, 0, -2), Type: ActivityMovementSession, Completed: true, PostActivityFatigue: intPtr(9)},
			{Date: testNow.AddDate(0, 0, -1), Type: ActivityDailyAnchor, Completed: true, PostActivityFatigue: intPtr(3)},
		}

		analysis := analyzer.AnalyzePatterns(&UserHealthData{ActivityLogs: logs})
		assert.Equal(t, "poor", analysis.Trends.ActivityTolerance)
	})
}
