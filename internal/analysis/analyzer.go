package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Analyzer runs the lap-pattern engine with a fixed Config. It holds no
// per-call state: every method is a pure function of (laps, config), so one
// Analyzer is safe for concurrent use across activities.
type Analyzer struct {
	cfg Config
}

func NewAnalyzer(cfg Config) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// Analyze is the package-level entry point using the default config.
func Analyze(laps []Lap, activityName, activityType string) *WorkoutAnalysis {
	return NewAnalyzer(DefaultConfig()).Analyze(laps, activityName, activityType)
}

// Analyze assembles the full result for one lap sequence. Laps must arrive
// ordered ascending by LapIndex. When no structured pattern is found (or no
// laps exist) the result falls back to a basic description with fixed low
// confidence.
func (a *Analyzer) Analyze(laps []Lap, activityName, activityType string) *WorkoutAnalysis {
	var totalDistance, totalTime float64
	for _, lap := range laps {
		totalDistance += lap.Distance
		totalTime += lap.ElapsedTime
	}

	result := &WorkoutAnalysis{
		ActivityName:  activityName,
		ActivityType:  activityType,
		TotalDistance: totalDistance,
		TotalTime:     totalTime,
		HasLaps:       len(laps) > 0,
		LapCount:      len(laps),
	}

	patterns := a.AnalyzeLaps(laps)
	if len(patterns) == 0 {
		activityLabel := activityType
		if activityLabel == "" {
			activityLabel = "Activity"
		}
		result.AnalysisMethod = "basic"
		result.Confidence = 0.3
		result.ShortDescription = fmt.Sprintf("%s - %.1fkm in %dmin",
			activityLabel, totalDistance/1000, int(totalTime)/60)
		result.DetailedDescription = fmt.Sprintf("Completed a %.1fkm %s with %d laps.",
			totalDistance/1000, strings.ToLower(activityLabel), len(laps))
		return result
	}

	primary := primaryPattern(patterns)
	result.DetectedPatterns = patterns
	result.PrimaryPattern = primary
	result.AnalysisMethod = "laps"
	result.Confidence = primary.Confidence
	result.LapAnalysis = "Detected intervals: " + primary.Description
	result.ShortDescription = primary.Description
	result.DetailedDescription = fmt.Sprintf("Workout structure: %s. Total: %.1fkm in %d:%02d",
		primary.Description, totalDistance/1000, int(totalTime)/60, int(totalTime)%60)
	return result
}

// AnalyzeLaps runs filtering, separation and classification and returns the
// detected patterns, or nil when the sequence is auto-split, too short, or
// structureless.
func (a *Analyzer) AnalyzeLaps(laps []Lap) []WorkoutPattern {
	if len(laps) < a.cfg.MinTotalLaps {
		return nil
	}
	if a.isAutoLaps(laps) {
		return nil
	}

	trimmed := a.trimWarmupCooldown(laps)
	if len(trimmed) < a.cfg.MinTotalLaps {
		return nil
	}

	work, rest := a.splitWorkRest(trimmed)

	var patterns []WorkoutPattern
	if simple := a.simplePattern(laps, trimmed, work, rest); simple != nil {
		patterns = append(patterns, *simple)
	}

	if len(patterns) == 0 || !a.cfg.PreferSimple {
		if complexPat := a.complexPattern(trimmed); complexPat != nil {
			patterns = append(patterns, *complexPat)
		}
	}
	return patterns
}

// simplePattern classifies the ordered work values through the structural
// hierarchy and builds the resulting pattern, or returns nil on no match.
func (a *Analyzer) simplePattern(all, trimmed, work, rest []Lap) *WorkoutPattern {
	if len(work) < a.cfg.MinWorkIntervals {
		return nil
	}

	distanceBased := a.isDistanceBased(work)
	values := make([]float64, len(work))
	for i, lap := range work {
		if distanceBased {
			values[i] = lap.Distance
		} else {
			values[i] = lap.ElapsedTime
		}
	}

	c := a.classify(values)
	if c.Kind == KindNone {
		return nil
	}

	description := a.describePattern(work, distanceBased, c)

	restLaps := rest
	if len(restLaps) == 0 {
		restLaps = restBetween(trimmed, work)
	}
	var restPeriods []RestPeriod
	if summary, ok := a.restSummary(restLaps); ok {
		restPeriods = append(restPeriods, summary)
		description += a.recoveryClause(restLaps, summary)
	}

	intervals := make([]Interval, len(work))
	for i, lap := range work {
		intervals[i] = Interval{
			Number:   i + 1,
			Distance: lap.Distance,
			Time:     lap.ElapsedTime,
			LapIndex: lap.LapIndex,
		}
	}

	return &WorkoutPattern{
		PatternType: "intervals",
		Kind:        c.Kind,
		Intervals:   intervals,
		RestPeriods: restPeriods,
		Confidence:  a.simpleConfidence(work, len(all)),
		Description: description,
	}
}

// simpleConfidence blends distance consistency, time consistency and
// coverage of the lap sequence. Fewer than three work intervals caps the
// score at 0.5; the result always lands in [0.1, 1.0].
func (a *Analyzer) simpleConfidence(work []Lap, totalLaps int) float64 {
	var distances, times []float64
	for _, lap := range work {
		distances = append(distances, lap.Distance)
		times = append(times, lap.ElapsedTime)
	}

	distScore := math.Max(0, 1-5*coeffVar(distances))
	timeScore := math.Max(0, 1-3*coeffVar(times))
	coverage := 0.0
	if totalLaps > 0 {
		coverage = float64(len(work)) / float64(totalLaps)
	}

	confidence := 0.4*distScore + 0.4*timeScore + 0.2*coverage
	if len(work) < 3 {
		confidence = math.Min(confidence, 0.5)
	}
	return clamp(confidence, 0.1, 1.0)
}

// complexPattern searches the similarity-group sequence for an exactly
// repeating cycle of length 2..5, used when the hierarchy found no single
// clean group. Cycle positions keep their own averages so alternating sets
// like 400/800 with jog recoveries survive as structure.
func (a *Analyzer) complexPattern(laps []Lap) *WorkoutPattern {
	n := len(laps)
	if n < 4 {
		return nil
	}
	_, seq := a.similarityGroups(laps)

	for cycleLen := 2; cycleLen <= 5; cycleLen++ {
		if n%cycleLen != 0 || n/cycleLen < 2 {
			continue
		}
		if !isPeriodic(seq, cycleLen) {
			continue
		}
		if distinct(seq[:cycleLen]) < 2 {
			continue
		}
		return a.buildComplexPattern(laps, cycleLen, n/cycleLen)
	}
	return nil
}

func isPeriodic(seq []int, cycleLen int) bool {
	for i := cycleLen; i < len(seq); i++ {
		if seq[i] != seq[i-cycleLen] {
			return false
		}
	}
	return true
}

func distinct(seq []int) int {
	seen := map[int]bool{}
	for _, v := range seq {
		seen[v] = true
	}
	return len(seen)
}

func (a *Analyzer) buildComplexPattern(laps []Lap, cycleLen, reps int) *WorkoutPattern {
	intervals := make([]Interval, len(laps))
	posDistances := make([][]float64, cycleLen)
	posTimes := make([][]float64, cycleLen)
	for i, lap := range laps {
		pos := i % cycleLen
		intervals[i] = Interval{
			Number:     i + 1,
			Distance:   lap.Distance,
			Time:       lap.ElapsedTime,
			LapIndex:   lap.LapIndex,
			Repetition: i/cycleLen + 1,
			Position:   pos + 1,
		}
		posDistances[pos] = append(posDistances[pos], lap.Distance)
		posTimes[pos] = append(posTimes[pos], lap.ElapsedTime)
	}

	averages := make([]Lap, cycleLen)
	for p := 0; p < cycleLen; p++ {
		averages[p] = Lap{Distance: mean(posDistances[p]), ElapsedTime: mean(posTimes[p])}
	}
	description := fmt.Sprintf("%d x (%s)", reps, joinValues(averages, a.isDistanceBased(averages)))

	return &WorkoutPattern{
		PatternType: "complex_intervals",
		Kind:        KindRepeated,
		Intervals:   intervals,
		Confidence:  a.complexConfidence(posDistances, posTimes, reps),
		Description: description,
	}
}

// complexConfidence averages per-position consistency and adds a small
// bonus for higher repetition counts, clamped to [0.1, 1.0].
func (a *Analyzer) complexConfidence(posDistances, posTimes [][]float64, reps int) float64 {
	var total float64
	for p := range posDistances {
		distScore := math.Max(0, 1-5*coeffVar(posDistances[p]))
		timeScore := math.Max(0, 1-3*coeffVar(posTimes[p]))
		total += 0.4*distScore + 0.4*timeScore + 0.2
	}
	confidence := total / float64(len(posDistances))
	confidence += math.Min(0.1, 0.02*float64(reps))
	return clamp(confidence, 0.1, 1.0)
}

// primaryPattern prefers the best complex pattern when one exists,
// otherwise the highest-confidence simple pattern.
func primaryPattern(patterns []WorkoutPattern) *WorkoutPattern {
	var best *WorkoutPattern
	for i := range patterns {
		p := &patterns[i]
		if best == nil {
			best = p
			continue
		}
		bestComplex := best.PatternType == "complex_intervals"
		pComplex := p.PatternType == "complex_intervals"
		switch {
		case pComplex && !bestComplex:
			best = p
		case pComplex == bestComplex && p.Confidence > best.Confidence:
			best = p
		}
	}
	return best
}
