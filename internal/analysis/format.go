package analysis

import (
	"fmt"
	"math"
	"strings"
)

const metresPerMile = 1609.344

// imperialDistance reports whether a distance sits within 5% of a half-mile
// multiple between 1 and 10 miles, and if so returns its display form.
// Imperial renderings win over metric ones so "3 x 1 mile" never shows up
// as "3 x 1609m".
func imperialDistance(metres float64) (string, bool) {
	for k := 1.0; k <= 10.0; k += 0.5 {
		target := k * metresPerMile
		if math.Abs(metres-target) <= target*0.05 {
			if k == 1.0 {
				return "1 mile", true
			}
			if k == math.Trunc(k) {
				return fmt.Sprintf("%d miles", int(k)), true
			}
			return fmt.Sprintf("%.1f miles", k), true
		}
	}
	return "", false
}

// formatDistance renders metres for display: imperial form when one
// matches, "Nkm" when within 50m of a whole kilometre, rounded metres
// otherwise.
func formatDistance(metres float64) string {
	// whole kilometres win over near-miss mile multiples (5km, not 3 miles)
	if metres >= 1000 {
		km := metres / 1000
		if math.Abs(km-math.Round(km)) < 0.05 {
			return fmt.Sprintf("%dkm", int(math.Round(km)))
		}
	}
	if s, ok := imperialDistance(metres); ok {
		return s
	}
	return fmt.Sprintf("%dm", int(math.Round(metres)))
}

// formatTime renders seconds for display. Times over 10s round to the
// nearest 5s (display only, never for classification); whole minutes render
// as "Nmin", otherwise "M:SS" above a minute and "Ss" below.
func formatTime(seconds float64) string {
	rounded := math.Round(seconds)
	if seconds > 10 {
		rounded = math.Round(seconds/5) * 5
	}

	if rounded >= 60 {
		minutes := int(rounded) / 60
		secs := int(rounded) % 60
		if secs == 0 {
			return fmt.Sprintf("%dmin", minutes)
		}
		return fmt.Sprintf("%d:%02d", minutes, secs)
	}
	return fmt.Sprintf("%ds", int(rounded))
}

func formatValue(lap Lap, distanceBased bool) string {
	if distanceBased {
		return formatDistance(lap.Distance)
	}
	return formatTime(lap.ElapsedTime)
}

// describePattern renders the hierarchy outcome: consistent sets as
// "{count} x {avg}", shaped sets as a hyphen-joined list, repeated sets as
// "{reps} x (block)".
func (a *Analyzer) describePattern(work []Lap, distanceBased bool, c classification) string {
	switch c.Kind {
	case KindLadder, KindPyramid, KindMixed:
		return joinValues(work, distanceBased)
	case KindRepeated:
		block := joinValues(work[:c.SubLen], distanceBased)
		return fmt.Sprintf("%d x (%s)", c.Repetitions, block)
	default:
		return a.describeAverage(work, distanceBased)
	}
}

func joinValues(laps []Lap, distanceBased bool) string {
	parts := make([]string, len(laps))
	for i, lap := range laps {
		parts[i] = formatValue(lap, distanceBased)
	}
	return strings.Join(parts, "-")
}

func (a *Analyzer) describeAverage(work []Lap, distanceBased bool) string {
	avg := Lap{}
	var distances, times []float64
	for _, lap := range work {
		distances = append(distances, lap.Distance)
		times = append(times, lap.ElapsedTime)
	}
	avg.Distance = mean(distances)
	avg.ElapsedTime = mean(times)
	return fmt.Sprintf("%d x %s", len(work), formatValue(avg, distanceBased))
}

// recoveryClause renders the rest summary suffix, picking distance or time
// the same way work values are picked: recovery at common distances reads
// as distance, anything else as time.
func (a *Analyzer) recoveryClause(restLaps []Lap, rest RestPeriod) string {
	value := formatTime(rest.AverageTime)
	if a.isDistanceBased(restLaps) {
		value = formatDistance(rest.AverageDistance)
	}
	return fmt.Sprintf(" w/ %s recovery", value)
}
