package analysis

import "math"

// classification is the outcome of the structural hierarchy. SubLen and
// Repetitions are only set for KindRepeated.
type classification struct {
	Kind        PatternKind
	SubLen      int
	Repetitions int
}

// commonDistances are the track/road distances a work set is matched against
// to decide whether a workout is distance-based: 100m steps to 2km, 500m
// steps to 50km, and whole-mile multiples to roughly 50km.
var commonDistances = buildCommonDistances()

func buildCommonDistances() []float64 {
	seen := map[int]bool{}
	var out []float64
	add := func(d float64) {
		key := int(math.Round(d))
		if !seen[key] {
			seen[key] = true
			out = append(out, d)
		}
	}
	for m := 100; m <= 2000; m += 100 {
		add(float64(m))
	}
	for m := 2500; m <= 50000; m += 500 {
		add(float64(m))
	}
	for i := 1; i <= 31; i++ {
		add(float64(i) * 1609.344)
	}
	return out
}

// isDistanceBased reports whether every lap distance matches a common
// running distance within the configured tolerance (minimum 10m absolute).
// Workouts failing this are classified on elapsed time instead.
func (a *Analyzer) isDistanceBased(laps []Lap) bool {
	for _, lap := range laps {
		if !a.isCommonDistance(lap.Distance) {
			return false
		}
	}
	return true
}

func (a *Analyzer) isCommonDistance(distance float64) bool {
	for _, common := range commonDistances {
		tolerance := math.Max(common*a.cfg.DistanceTolerance, 10)
		if math.Abs(distance-common) <= tolerance {
			return true
		}
	}
	return false
}

// classify applies the structural hierarchy in strict priority order:
// ladder, pyramid, repeated sub-pattern, mixed, consistent. More predictable
// shapes win so a genuine ladder is never flattened into "N x avg", and
// chaotic data is never forced into a bucket.
func (a *Analyzer) classify(values []float64) classification {
	if len(values) < a.cfg.MinWorkIntervals {
		return classification{Kind: KindNone}
	}
	if a.isLadder(values) {
		return classification{Kind: KindLadder}
	}
	if a.isPyramid(values) {
		return classification{Kind: KindPyramid}
	}
	if subLen, reps, ok := a.repeatedSubPattern(values); ok {
		return classification{Kind: KindRepeated, SubLen: subLen, Repetitions: reps}
	}
	if a.isMixed(values) {
		return classification{Kind: KindMixed}
	}
	if a.isConsistent(values) {
		return classification{Kind: KindConsistent}
	}
	return classification{Kind: KindNone}
}

// isLadder: every consecutive pair strictly rises (or strictly falls) by at
// least the minimum step, across four or more values.
func (a *Analyzer) isLadder(values []float64) bool {
	if len(values) < 4 {
		return false
	}

	increasing := true
	for i := 0; i < len(values)-1; i++ {
		if values[i+1] < values[i]*(1+a.cfg.LadderMinStep) {
			increasing = false
			break
		}
	}

	decreasing := true
	for i := 0; i < len(values)-1; i++ {
		if values[i+1] > values[i]*(1-a.cfg.LadderMinStep) {
			decreasing = false
			break
		}
	}

	return increasing || decreasing
}

// isPyramid: five or more values rising to an interior peak then falling,
// with tolerance for measurement noise on both slopes.
func (a *Analyzer) isPyramid(values []float64) bool {
	if len(values) < 5 {
		return false
	}

	peakIdx := 0
	for i, v := range values {
		if v > values[peakIdx] {
			peakIdx = i
		}
	}
	if peakIdx <= 1 || peakIdx >= len(values)-2 {
		return false
	}

	for i := 0; i < peakIdx; i++ {
		if values[i+1] < values[i]*(1-a.cfg.PyramidTolerance) {
			return false
		}
	}
	for i := peakIdx; i < len(values)-1; i++ {
		if values[i+1] > values[i]*(1+a.cfg.PyramidTolerance) {
			return false
		}
	}
	return true
}

// repeatedSubPattern searches block lengths that evenly divide the sequence,
// smallest first. A block length qualifies when every repetition matches the
// first block element-wise within tolerance and the block itself has
// internal structure (so "4-4-4-4" reads as consistent, not 2 x (4-4)).
func (a *Analyzer) repeatedSubPattern(values []float64) (subLen, reps int, ok bool) {
	if len(values) < 6 {
		return 0, 0, false
	}

	for length := 2; length <= len(values)/2; length++ {
		if len(values)%length != 0 {
			continue
		}
		reference := values[:length]
		repetitions := len(values) / length

		matches := true
		for rep := 1; rep < repetitions && matches; rep++ {
			block := values[rep*length : (rep+1)*length]
			for j := range reference {
				tolerance := math.Max(reference[j]*a.cfg.RepeatedTolerance, a.cfg.RepeatedMinAbs)
				if math.Abs(block[j]-reference[j]) > tolerance {
					matches = false
					break
				}
			}
		}

		if matches && a.hasSubStructure(reference) {
			return length, repetitions, true
		}
	}
	return 0, 0, false
}

// hasSubStructure rejects blocks of near-identical values: a qualifying
// block must itself look like a mini pyramid, a monotonic run, or at least
// vary meaningfully (CV above the floor).
func (a *Analyzer) hasSubStructure(block []float64) bool {
	if len(block) < 2 {
		return false
	}

	if len(block) >= 3 {
		peakIdx := 0
		for i, v := range block {
			if v > block[peakIdx] {
				peakIdx = i
			}
		}
		if peakIdx > 0 && peakIdx < len(block)-1 {
			return true
		}

		increasing, decreasing := true, true
		for i := 0; i < len(block)-1; i++ {
			if block[i] > block[i+1]*(1+a.cfg.PyramidTolerance) {
				increasing = false
			}
			if block[i] < block[i+1]*(1-a.cfg.PyramidTolerance) {
				decreasing = false
			}
		}
		// A flat block is monotone under tolerance; require real movement
		// end to end so identical values stay with the consistent bucket.
		if (increasing || decreasing) && block[0] != block[len(block)-1] {
			return true
		}
	}

	return coeffVar(block) > a.cfg.SubStructureMinCV
}

func (a *Analyzer) isMixed(values []float64) bool {
	if len(values) < 4 {
		return false
	}
	cv := coeffVar(values)
	return cv > a.cfg.MixedCVLow && cv < a.cfg.MixedCVHigh
}

func (a *Analyzer) isConsistent(values []float64) bool {
	if len(values) < a.cfg.MinWorkIntervals {
		return false
	}
	return coeffVar(values) <= a.cfg.ConsistentCVMax
}
