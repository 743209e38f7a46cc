package analysis

// Lap is one recorded workout segment. Distance is in metres, ElapsedTime in
// seconds. LapIndex ascends within a sequence; gaps are allowed when callers
// pass a filtered subset.
type Lap struct {
	Distance    float64 `json:"distance"`
	ElapsedTime float64 `json:"elapsed_time"`
	LapIndex    int     `json:"lap_index"`
}

// Pace returns seconds per kilometre, or 0 when the lap has no distance.
func (l Lap) Pace() float64 {
	if l.Distance <= 0 {
		return 0
	}
	return l.ElapsedTime / (l.Distance / 1000)
}

// PatternKind labels the structural shape the classifier matched.
type PatternKind int

const (
	KindNone PatternKind = iota
	KindLadder
	KindPyramid
	KindRepeated
	KindMixed
	KindConsistent
)

func (k PatternKind) String() string {
	switch k {
	case KindLadder:
		return "ladder"
	case KindPyramid:
		return "pyramid"
	case KindRepeated:
		return "repeated"
	case KindMixed:
		return "mixed"
	case KindConsistent:
		return "consistent"
	default:
		return "none"
	}
}

// Interval is one work effort inside a detected pattern, in chronological
// order. Repetition and Position are set only for repeating patterns.
type Interval struct {
	Number     int     `json:"number"`
	Distance   float64 `json:"distance"`
	Time       float64 `json:"time"`
	LapIndex   int     `json:"lap_index"`
	Repetition int     `json:"repetition,omitempty"`
	Position   int     `json:"position,omitempty"`
}

// RestPeriod summarises the recovery laps between work intervals as one
// aggregate average. It is only attached when the recovery laps are
// consistent enough to summarise (see restSummary).
type RestPeriod struct {
	AverageTime     float64 `json:"average_time"`
	AverageDistance float64 `json:"average_distance"`
	LapCount        int     `json:"lap_count"`
}

// WorkoutPattern is a detected interval structure. PatternType is
// "intervals" for the single-group hierarchy or "complex_intervals" for a
// repeating group cycle. Immutable once built.
type WorkoutPattern struct {
	PatternType string       `json:"pattern_type"`
	Kind        PatternKind  `json:"-"`
	Intervals   []Interval   `json:"intervals"`
	RestPeriods []RestPeriod `json:"rest_periods"`
	Confidence  float64      `json:"confidence"`
	Description string       `json:"description"`
}

// WorkoutAnalysis is the top-level result of one analysis call.
type WorkoutAnalysis struct {
	ActivityID   int64  `json:"activity_id"`
	ActivityName string `json:"activity_name"`
	ActivityType string `json:"activity_type"`

	TotalDistance float64 `json:"total_distance"`
	TotalTime     float64 `json:"total_time"`

	HasLaps     bool   `json:"has_laps"`
	LapCount    int    `json:"lap_count"`
	LapAnalysis string `json:"lap_analysis,omitempty"`

	DetectedPatterns []WorkoutPattern `json:"detected_patterns"`
	PrimaryPattern   *WorkoutPattern  `json:"primary_pattern,omitempty"`

	ShortDescription    string `json:"short_description"`
	DetailedDescription string `json:"detailed_description"`

	AnalysisMethod string  `json:"analysis_method"`
	Confidence     float64 `json:"confidence"`
}
