package analysis

import "sort"

// splitWorkRest partitions laps into work (fast) and rest (slow) using the
// single largest gap between consecutive paces in sorted order. Laps without
// positive distance and time carry no pace and are ignored.
//
// The split is only trusted when the work side is internally consistent in
// distance and at least one rest lap exists; otherwise the whole sequence is
// treated as work with no recovery.
func (a *Analyzer) splitWorkRest(laps []Lap) (work, rest []Lap) {
	type lapPace struct {
		lap  Lap
		pace float64
	}

	var paced []lapPace
	for _, lap := range laps {
		if lap.Distance > 0 && lap.ElapsedTime > 0 {
			paced = append(paced, lapPace{lap: lap, pace: lap.Pace()})
		}
	}
	if len(paced) < a.cfg.MinTotalLaps {
		return laps, nil
	}

	sort.Slice(paced, func(i, j int) bool { return paced[i].pace < paced[j].pace })

	gapIdx := -1
	var gapSize float64
	for i := 0; i < len(paced)-1; i++ {
		if gap := paced[i+1].pace - paced[i].pace; gap > gapSize {
			gapSize = gap
			gapIdx = i
		}
	}
	if gapIdx < 0 {
		return laps, nil
	}

	for i, lp := range paced {
		if i <= gapIdx {
			work = append(work, lp.lap)
		} else {
			rest = append(rest, lp.lap)
		}
	}

	if len(rest) == 0 || !a.workDistancesConsistent(work) {
		return laps, nil
	}

	sort.Slice(work, func(i, j int) bool { return work[i].LapIndex < work[j].LapIndex })
	sort.Slice(rest, func(i, j int) bool { return rest[i].LapIndex < rest[j].LapIndex })
	return work, rest
}

func (a *Analyzer) workDistancesConsistent(work []Lap) bool {
	if len(work) == 0 {
		return false
	}
	var distances []float64
	for _, lap := range work {
		distances = append(distances, lap.Distance)
	}
	avg := mean(distances)
	if avg == 0 {
		return false
	}
	matching := 0
	for _, d := range distances {
		if withinPct(d, avg, a.cfg.WorkDistanceTolerance) {
			matching++
		}
	}
	return float64(matching) >= a.cfg.WorkConsistencyRatio*float64(len(work))
}
