package main

import "fmt"

// AdaptRoutine fits a base routine to the user's current state. The adapted
// routine never exceeds the base load: adaptation only removes or shortens
// activities, since adding load on a good day is exactly the boom-bust cycle
// pacing tries to break.
func (a *PacingAnalyzer) AdaptRoutine(base Routine, state UserState) AdaptedRoutine {
	adapted := AdaptedRoutine{
		Name:          base.Name,
		Activities:    []RoutineActivity{},
		Modifications: []string{},
		GeneratedAt:   a.now(),
	}

	lowCapacity := state.CurrentEnergy <= 3 || state.RecentFatigue >= 7
	moderateCapacity := !lowCapacity && state.CurrentEnergy <= 5

	for _, activity := range base.Activities {
		switch {
		case lowCapacity && activity.Type == ActivityMovementSession:
			adapted.Modifications = append(adapted.Modifications,
				fmt.Sprintf("Dropped movement session %q: current capacity is too low for exertion", activity.Name))

		case lowCapacity:
			halved := halveDuration(activity)
			adapted.Activities = append(adapted.Activities, halved)
			if halved.DurationMinutes != activity.DurationMinutes {
				adapted.Modifications = append(adapted.Modifications,
					fmt.Sprintf("Shortened %q from %d to %d minutes", activity.Name, activity.DurationMinutes, halved.DurationMinutes))
			}

		case moderateCapacity && activity.Type == ActivityMovementSession:
			halved := halveDuration(activity)
			halved.Intensity = "gentle"
			adapted.Activities = append(adapted.Activities, halved)
			adapted.Modifications = append(adapted.Modifications,
				fmt.Sprintf("Reduced movement session %q to %d gentle minutes", activity.Name, halved.DurationMinutes))

		default:
			adapted.Activities = append(adapted.Activities, activity)
		}
	}

	if lowCapacity {
		adapted.Activities = append(adapted.Activities, RoutineActivity{
			Name:            "Scheduled rest",
			Type:            ActivityRestDay,
			DurationMinutes: 30,
			Intensity:       "gentle",
		})
		adapted.Modifications = append(adapted.Modifications,
			fmt.Sprintf("Added a scheduled rest block (energy %d/10, recent fatigue %d/10)", state.CurrentEnergy, state.RecentFatigue))
	}

	if len(adapted.Modifications) == 0 {
		adapted.Modifications = append(adapted.Modifications, "No changes: current state supports the base routine")
	}

	return adapted
}

// halveDuration returns a copy of the activity with its duration halved,
// keeping at least 5 minutes so the slot survives as a placeholder.
func halveDuration(activity RoutineActivity) RoutineActivity {
	halved := activity
	halved.DurationMinutes = activity.DurationMinutes / 2
	if halved.DurationMinutes < 5 {
		halved.DurationMinutes = 5
	}
	return halved
}
