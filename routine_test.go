package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseRoutine() Routine {
	return Routine{
		Name: "weekday baseline",
		Activities: []RoutineActivity{
			{Name: "Morning hygiene", Type: ActivityDailyAnchor, DurationMinutes: 20, Intensity: "gentle"},
			{Name: "Short walk", Type: ActivityMovementSession, DurationMinutes: 30, Intensity: "moderate"},
			{Name: "Meal prep", Type: ActivityDailyAnchor, DurationMinutes: 40, Intensity: "moderate"},
		},
	}
}

func totalMinutes(activities []RoutineActivity) int {
	total := 0
	for _, a := range activities {
		total += a.DurationMinutes
	}
	return total
}

func TestAdaptRoutine(t *testing.T) {
	analyzer := newTestAnalyzer(testNow)

	t.Run("good state passes the routine through unchanged", func(t *testing.T) {
		adapted := analyzer.AdaptRoutine(baseRoutine(), UserState{CurrentEnergy: 7, RecentFatigue: 3})

		assert.Equal(t, baseRoutine().Activities, adapted.Activities)
		require.Len(t, adapted.Modifications, 1)
		assert.Contains(t, adapted.Modifications[0], "No changes")
	})

	t.Run("low energy drops movement and halves anchors", func(t *testing.T) {
		adapted := analyzer.AdaptRoutine(baseRoutine(), UserState{CurrentEnergy: 2, RecentFatigue: 5})

		for _, activity := range adapted.Activities {
			assert.NotEqual(t, ActivityMovementSession, activity.Type)
		}

		names := map[string]RoutineActivity{}
		for _, activity := range adapted.Activities {
			names[activity.Name] = activity
		}
		assert.Equal(t, 10, names["Morning hygiene"].DurationMinutes)
		assert.Equal(t, 20, names["Meal prep"].DurationMinutes)

		rest, ok := names["Scheduled rest"]
		require.True(t, ok, "low capacity should add a rest block")
		assert.Equal(t, ActivityRestDay, rest.Type)
	})

	t.Run("high recent fatigue alone triggers low capacity", func(t *testing.T) {
		adapted := analyzer.AdaptRoutine(baseRoutine(), UserState{CurrentEnergy: 6, RecentFatigue: 8})

		for _, activity := range adapted.Activities {
			assert.NotEqual(t, ActivityMovementSession, activity.Type)
		}
	})

	t.Run("moderate energy keeps movement but gentles it", func(t *testing.T) {
		adapted := analyzer.AdaptRoutine(baseRoutine(), UserState{CurrentEnergy: 5, RecentFatigue: 4})

		var walk *RoutineActivity
		for i := range adapted.Activities {
			if adapted.Activities[i].Name == "Short walk" {
				walk = &adapted.Activities[i]
			}
		}
		require.NotNil(t, walk)
		assert.Equal(t, 15, walk.DurationMinutes)
		assert.Equal(t, "gentle", walk.Intensity)

		// Anchors are untouched at moderate capacity.
		assert.Contains(t, adapted.Activities, baseRoutine().Activities[0])
		assert.Contains(t, adapted.Activities, baseRoutine().Activities[2])
	})

	t.Run("halved durations never fall below five minutes", func(t *testing.T) {
		routine := Routine{
			Name: "minimal",
			Activities: []RoutineActivity{
				{Name: "Teeth", Type: ActivityDailyAnchor, DurationMinutes: 6, Intensity: "gentle"},
			},
		}

		adapted := analyzer.AdaptRoutine(routine, UserState{CurrentEnergy: 1, RecentFatigue: 9})

		require.NotEmpty(t, adapted.Activities)
		assert.Equal(t, 5, adapted.Activities[0].DurationMinutes)
	})

	t.Run("adaptation never increases non-rest load", func(t *testing.T) {
		base := baseRoutine()
		baseTotal := totalMinutes(base.Activities)

		states := []UserState{
			{CurrentEnergy: 1, RecentFatigue: 9},
			{CurrentEnergy: 3, RecentFatigue: 5},
			{CurrentEnergy: 5, RecentFatigue: 4},
			{CurrentEnergy: 8, RecentFatigue: 2},
		}

		for _, state := range states {
			adapted := analyzer.AdaptRoutine(base, state)

			var active []RoutineActivity
			for _, activity := range adapted.Activities {
				if activity.Type != ActivityRestDay {
					active = append(active, activity)
				}
			}
			assert.LessOrEqual(t, totalMinutes(active), baseTotal,
				"active load grew for state %+v", state)
		}
	})

	t.Run("generated timestamp comes from the analyzer clock", func(t *testing.T) {
		adapted := analyzer.AdaptRoutine(baseRoutine(), UserState{CurrentEnergy: 7, RecentFatigue: 2})
		assert.True(t, adapted.GeneratedAt.Equal(testNow))
	})
}
