package history

import (
	"encoding/json"
	"time"
)

// Record is one stored analysis outcome. Analysis holds the full result
// document as produced at the time; re-running an activity replaces its
// record.
type Record struct {
	ID           string          `json:"id"`
	AthleteID    int64           `json:"athlete_id"`
	ActivityID   int64           `json:"activity_id"`
	ActivityName string          `json:"activity_name"`
	ActivityType string          `json:"activity_type"`
	Description  string          `json:"description"`
	Confidence   float64         `json:"confidence"`
	Applied      bool            `json:"applied"`
	Analysis     json.RawMessage `json:"analysis"`
	CreatedAt    time.Time       `json:"created_at"`
}
