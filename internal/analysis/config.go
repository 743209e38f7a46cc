package analysis

// Config carries every tolerance the engine uses. Zero values are not
// meaningful; start from DefaultConfig and override fields as needed so the
// engine stays a pure function of (laps, config).
type Config struct {
	// MinTotalLaps is the minimum sequence length worth analysing.
	MinTotalLaps int
	// MinWorkIntervals is the minimum number of work laps for any pattern.
	MinWorkIntervals int

	// AutoLapDistances are the fixed split distances devices commonly cut
	// laps at. AutoLapTolerance is the proportional match window,
	// AutoLapShare the fraction of laps that must match, and
	// AutoLapTimeCV the elapsed-time spread above which matching laps are
	// treated as athlete intervals rather than device splits (device splits
	// of a continuous effort run at a near-constant pace; athlete repeats at
	// a fixed distance alternate hard and easy laps).
	AutoLapDistances        []float64
	AutoLapTolerance        float64
	AutoLapShare            float64
	AutoLapSelfSimilarShare float64
	AutoLapTimeCV           float64
	// TrailingPartialRatio: a final lap at least this much shorter than its
	// predecessor reads as a partial device split.
	TrailingPartialRatio float64

	// TrimFactor: a first/last lap longer than TrimFactor times the average
	// of its two neighbours is dropped as warmup/cooldown.
	TrimFactor float64

	// WorkDistanceTolerance and WorkConsistencyRatio validate the work side
	// of the pace-gap split: at least WorkConsistencyRatio of work laps must
	// be within WorkDistanceTolerance of the group's average distance.
	WorkDistanceTolerance float64
	WorkConsistencyRatio  float64

	// SimilarityTolerance bounds distance and time when clustering laps into
	// similarity groups for the complex-pattern search.
	SimilarityTolerance float64

	// DistanceTolerance matches lap distances against common running
	// distances (minimum 10m absolute).
	DistanceTolerance float64

	// Classifier thresholds.
	LadderMinStep      float64
	PyramidTolerance   float64
	RepeatedTolerance  float64
	RepeatedMinAbs     float64
	SubStructureMinCV  float64
	MixedCVLow         float64
	MixedCVHigh        float64
	ConsistentCVMax    float64

	// RestCVMax gates the recovery clause: rest laps with a higher
	// coefficient of variation in either time or distance are too
	// inconsistent to summarise.
	RestCVMax float64

	// PreferSimple keeps single-group patterns ahead of the complex
	// repeating-group search; the complex search then only runs when the
	// hierarchy found nothing.
	PreferSimple bool
}

// DefaultConfig returns the tolerances the engine was tuned with.
func DefaultConfig() Config {
	return Config{
		MinTotalLaps:            3,
		MinWorkIntervals:        2,
		AutoLapDistances:        []float64{400, 800, 1000, 1609, 5000},
		AutoLapTolerance:        0.05,
		AutoLapShare:            0.8,
		AutoLapSelfSimilarShare: 0.9,
		AutoLapTimeCV:           0.30,
		TrailingPartialRatio:    0.3,
		TrimFactor:              3.0,
		WorkDistanceTolerance:   0.2,
		WorkConsistencyRatio:    0.6,
		SimilarityTolerance:     0.12,
		DistanceTolerance:       0.05,
		LadderMinStep:           0.05,
		PyramidTolerance:        0.10,
		RepeatedTolerance:       0.10,
		RepeatedMinAbs:          5,
		SubStructureMinCV:       0.05,
		MixedCVLow:              0.3,
		MixedCVHigh:             0.8,
		ConsistentCVMax:         0.15,
		RestCVMax:               0.4,
		PreferSimple:            true,
	}
}
