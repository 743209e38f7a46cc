package analysis

// restSummary aggregates recovery laps into one average rest period. It
// returns ok=false when the rest laps are too inconsistent (coefficient of
// variation above the gate in either time or distance) to summarise without
// being misleading.
func (a *Analyzer) restSummary(restLaps []Lap) (RestPeriod, bool) {
	if len(restLaps) == 0 {
		return RestPeriod{}, false
	}

	var times, distances []float64
	for _, lap := range restLaps {
		times = append(times, lap.ElapsedTime)
		distances = append(distances, lap.Distance)
	}

	if coeffVar(times) > a.cfg.RestCVMax || coeffVar(distances) > a.cfg.RestCVMax {
		return RestPeriod{}, false
	}

	return RestPeriod{
		AverageTime:     mean(times),
		AverageDistance: mean(distances),
		LapCount:        len(restLaps),
	}, true
}

// restBetween picks the laps lying strictly between the first and last work
// lap indices that are not themselves work laps. Used when no clean
// separation produced an explicit rest set.
func restBetween(all, work []Lap) []Lap {
	if len(work) == 0 {
		return nil
	}
	isWork := map[int]bool{}
	for _, lap := range work {
		isWork[lap.LapIndex] = true
	}
	first, last := work[0].LapIndex, work[len(work)-1].LapIndex

	var rest []Lap
	for _, lap := range all {
		if lap.LapIndex > first && lap.LapIndex < last && !isWork[lap.LapIndex] {
			rest = append(rest, lap)
		}
	}
	return rest
}
