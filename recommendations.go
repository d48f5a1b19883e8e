package main

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AnalyzePacingNeeds runs the full rule set over one user's snapshot and
// returns a ranked, bounded recommendation list. It never returns an empty
// list and never propagates an error: silence could read as "no guidance
// needed", which is unsafe in this domain, so any internal failure degrades
// to a fixed fallback recommendation instead.
func (a *PacingAnalyzer) AnalyzePacingNeeds(data *UserHealthData) (recommendations []PacingRecommendation) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("pacing analysis failed, returning fallback guidance: %v", r)
			recommendations = []PacingRecommendation{a.fallbackRecommendation()}
		}
	}()

	if data == nil {
		return []PacingRecommendation{a.fallbackRecommendation()}
	}

	if len(data.EnergyLevels) < MinEntriesForGuidance {
		return []PacingRecommendation{a.welcomeRecommendation()}
	}

	now := a.now()
	recommendations = []PacingRecommendation{}

	// Rule 1: current state. The two branches are mutually exclusive.
	avg := windowedAverage(energySeries(data.EnergyLevels), CurrentStateWindowDays, now)
	if avg <= LowEnergyAverage {
		recommendations = append(recommendations, PacingRecommendation{
			ID:       recommendationID("rest", "Prioritize rest today"),
			Type:     "rest",
			Priority: PriorityHigh,
			Title:    "Prioritize rest today",
			Message:  "Your recent energy levels are very low. Today is a day to protect, not push.",
			Reasoning: fmt.Sprintf("Average energy over the last %d days is %.1f out of 10.",
				CurrentStateWindowDays, avg),
			ActionItems: []string{
				"Cancel or postpone non-essential activities",
				"Keep movement to short, gentle stretches only",
				"Schedule horizontal rest blocks between tasks",
			},
			ValidUntil:  now.Add(RecommendationTTL),
			Confidence:  0.9,
			Disclaimers: []string{DisclaimerNotMedicalAdvice},
		})
	} else if avg >= HighEnergyAverage {
		recommendations = append(recommendations, PacingRecommendation{
			ID:       recommendationID("activity", "Some capacity for gentle activity"),
			Type:     "activity",
			Priority: PriorityLow,
			Title:    "Some capacity for gentle activity",
			Message:  "Your recent energy levels look comparatively good. A small, planned activity is reasonable if you stop well before tiring.",
			Reasoning: fmt.Sprintf("Average energy over the last %d days is %.1f out of 10.",
				CurrentStateWindowDays, avg),
			ActionItems: []string{
				"Pick one gentle activity and set a hard stop time",
				"Re-check how you feel halfway through and stop early if needed",
			},
			ValidUntil:  now.Add(RecommendationTTL),
			Confidence:  0.7,
			Disclaimers: []string{DisclaimerNotMedicalAdvice},
		})
	}

	// Rule 2: pattern.
	switch a.classifyEnergyPattern(data.EnergyLevels) {
	case PatternDeclining:
		recommendations = append(recommendations, PacingRecommendation{
			ID:        recommendationID("routine", "Scale back your routine"),
			Type:      "routine",
			Priority:  PriorityHigh,
			Title:     "Scale back your routine",
			Message:   "Your energy has been trending downward. Reducing your routine now can head off a deeper crash.",
			Reasoning: "The last two weeks of energy logs show a declining trend.",
			ActionItems: []string{
				"Drop one activity from your daily anchor routine",
				"Shorten movement sessions until the trend levels off",
			},
			ValidUntil:  now.Add(RecommendationTTL),
			Confidence:  0.8,
			Disclaimers: []string{DisclaimerNotMedicalAdvice},
		})
	case PatternVolatile:
		recommendations = append(recommendations, PacingRecommendation{
			ID:        recommendationID("routine", "Aim for consistency over intensity"),
			Type:      "routine",
			Priority:  PriorityMedium,
			Title:     "Aim for consistency over intensity",
			Message:   "Your energy is swinging widely day to day. A steadier baseline usually beats pushing hard on good days.",
			Reasoning: "The last two weeks of energy logs show high variance.",
			ActionItems: []string{
				"Set the same modest activity target for good and bad days",
				"Avoid 'catching up' on tasks during energy spikes",
			},
			ValidUntil:  now.Add(RecommendationTTL),
			Confidence:  0.7,
			Disclaimers: []string{DisclaimerNotMedicalAdvice},
		})
	}

	// Rule 3: biometrics.
	if risk := a.AssessBiometricRisk(data.BiometricReadings); risk.HasConcerns {
		recommendations = append(recommendations, PacingRecommendation{
			ID:        recommendationID("biometric", "Biometric readings suggest extra caution"),
			Type:      "biometric",
			Priority:  PriorityMedium,
			Title:     "Biometric readings suggest extra caution",
			Message:   "Recent heart rate or HRV readings point toward reduced recovery capacity. Consider a lighter plan while these persist.",
			Reasoning: strings.Join(risk.Concerns, "; "),
			ActionItems: []string{
				"Favor rest and low-exertion activities for the next few days",
				"Keep wearing conditions consistent so readings stay comparable",
			},
			ValidUntil:  now.Add(RecommendationTTL),
			Confidence:  0.75,
			Disclaimers: []string{DisclaimerNotMedicalAdvice, DisclaimerBiometricConfounds},
		})
	}

	// Rule 4: activity tolerance.
	if countHighFatigueActivities(data.ActivityLogs) >= HighFatigueActivities {
		recommendations = append(recommendations, PacingRecommendation{
			ID:        recommendationID("activity", "Current activity level exceeds your envelope"),
			Type:      "activity",
			Priority:  PriorityHigh,
			Title:     "Current activity level exceeds your envelope",
			Message:   "Several logged activities were followed by high fatigue. The current activity dose is likely too much right now.",
			Reasoning: fmt.Sprintf("%d activities recorded post-activity fatigue above %d out of 10.", countHighFatigueActivities(data.ActivityLogs), HighPostFatigue),
			ActionItems: []string{
				"Cut movement session duration by a third",
				"Add a planned rest day after any movement session",
				"Re-test the longer duration only after a week without high post-activity fatigue",
			},
			ValidUntil:  now.Add(RecommendationTTL),
			Confidence:  0.85,
			Disclaimers: []string{DisclaimerNotMedicalAdvice},
		})
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations, a.steadyStateRecommendation(now))
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority.Weight() > recommendations[j].Priority.Weight()
	})

	if len(recommendations) > MaxRecommendations {
		recommendations = recommendations[:MaxRecommendations]
	}

	return recommendations
}

// recommendationID derives a stable UUID from the rule that produced the
// recommendation. Content-derived rather than random so repeated analysis of
// identical input yields identical results.
func recommendationID(recType, slug string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("pacing-mcp/"+recType+"/"+slug)).String()
}

// countHighFatigueActivities counts logged activities whose post-activity
// fatigue exceeded the overreach threshold.
func countHighFatigueActivities(activities []ActivityLog) int {
	count := 0
	for _, activity := range activities {
		if activity.PostActivityFatigue != nil && *activity.PostActivityFatigue > HighPostFatigue {
			count++
		}
	}
	return count
}

// welcomeRecommendation greets a user who has not logged enough energy
// entries for any rule to fire. Valid for a week rather than a day.
func (a *PacingAnalyzer) welcomeRecommendation() PacingRecommendation {
	return PacingRecommendation{
		ID:        recommendationID("general", "welcome"),
		Type:      "general",
		Priority:  PriorityMedium,
		Title:     "Welcome - start logging to unlock pacing guidance",
		Message:   "Pacing guidance gets useful once there is a few days of history. Log your energy level once or twice a day to get started.",
		Reasoning: "Fewer than 3 energy entries are available, which is not enough for trend or state analysis.",
		ActionItems: []string{
			"Log your energy level each morning",
			"Record activities and how you feel afterwards",
			"Add symptom logs on days anything changes",
		},
		ValidUntil:  a.now().Add(WelcomeTTL),
		Confidence:  0.5,
		Disclaimers: []string{DisclaimerNotMedicalAdvice},
	}
}

// steadyStateRecommendation fills the gap when every rule passed without
// firing: the caller must still receive some guidance.
func (a *PacingAnalyzer) steadyStateRecommendation(now time.Time) PacingRecommendation {
	return PacingRecommendation{
		ID:        recommendationID("general", "steady-state"),
		Type:      "general",
		Priority:  PriorityLow,
		Title:     "Keep your current pacing",
		Message:   "Nothing in your recent logs calls for a change. Staying inside your current envelope is working.",
		Reasoning: "No low-energy state, adverse trend, biometric concern, or activity-tolerance signal was detected.",
		ActionItems: []string{
			"Continue logging daily",
			"Change only one variable at a time if you adjust your routine",
		},
		ValidUntil:  now.Add(RecommendationTTL),
		Confidence:  0.6,
		Disclaimers: []string{DisclaimerNotMedicalAdvice},
	}
}

// fallbackRecommendation is returned whenever analysis cannot run at all.
func (a *PacingAnalyzer) fallbackRecommendation() PacingRecommendation {
	return PacingRecommendation{
		ID:        recommendationID("general", "fallback"),
		Type:      "general",
		Priority:  PriorityMedium,
		Title:     "General pacing guidance",
		Message:   "Your data could not be analyzed right now. Until it can, pace conservatively: rest before you need to, and keep activity below the level that has caused crashes before.",
		Reasoning: "Analysis input was missing or malformed, so rule-based guidance is unavailable.",
		ActionItems: []string{
			"Rest proactively rather than reactively",
			"Keep activity well inside previously tolerated levels",
		},
		ValidUntil:  a.now().Add(RecommendationTTL),
		Confidence:  0.4,
		Disclaimers: []string{DisclaimerNotMedicalAdvice},
	}
}
