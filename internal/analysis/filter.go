package analysis

// isAutoLaps reports whether a sequence looks like device-generated
// fixed-distance splits rather than athlete-initiated intervals. A positive
// result short-circuits the whole analysis.
func (a *Analyzer) isAutoLaps(laps []Lap) bool {
	n := len(laps)
	if n < 2 {
		return false
	}

	for _, autoDist := range a.cfg.AutoLapDistances {
		var matched []Lap
		for _, lap := range laps {
			if withinPct(lap.Distance, autoDist, a.cfg.AutoLapTolerance) {
				matched = append(matched, lap)
			}
		}
		if len(matched) < n-1 || float64(len(matched)) < a.cfg.AutoLapShare*float64(n) {
			continue
		}
		// Repeats at a fixed distance with alternating hard/easy laps are
		// athlete intervals, not splits.
		if !a.steadyTimes(matched) {
			continue
		}
		last, prev := laps[n-1], laps[n-2]
		if withinPct(last.Distance, autoDist, a.cfg.AutoLapTolerance) {
			return true
		}
		if last.Distance <= prev.Distance*(1-a.cfg.TrailingPartialRatio) {
			return true
		}
	}

	// Splits at a distance outside the canonical list: all-but-the-last lap
	// clustered tightly around their own mean.
	if n >= 3 {
		head := laps[:n-1]
		var distances []float64
		for _, lap := range head {
			distances = append(distances, lap.Distance)
		}
		m := mean(distances)
		if m > 0 && a.steadyTimes(head) {
			matches := 0
			for _, d := range distances {
				if withinPct(d, m, a.cfg.AutoLapTolerance) {
					matches++
				}
			}
			if float64(matches) >= a.cfg.AutoLapSelfSimilarShare*float64(len(head)) {
				return true
			}
		}
	}

	return false
}

func (a *Analyzer) steadyTimes(laps []Lap) bool {
	var times []float64
	for _, lap := range laps {
		if lap.ElapsedTime > 0 {
			times = append(times, lap.ElapsedTime)
		}
	}
	return coeffVar(times) <= a.cfg.AutoLapTimeCV
}

// trimWarmupCooldown drops an abnormally long first and/or last lap. At most
// one lap is removed from each end; the check is not re-applied afterwards.
func (a *Analyzer) trimWarmupCooldown(laps []Lap) []Lap {
	if len(laps) <= 2 {
		return laps
	}

	n := len(laps)
	start, end := 0, n

	nextAvg := (laps[1].Distance + laps[2].Distance) / 2
	if nextAvg > 0 && laps[0].Distance > a.cfg.TrimFactor*nextAvg {
		start = 1
	}

	prevAvg := (laps[n-2].Distance + laps[n-3].Distance) / 2
	if prevAvg > 0 && laps[n-1].Distance > a.cfg.TrimFactor*prevAvg {
		end = n - 1
	}

	return laps[start:end]
}
