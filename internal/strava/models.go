package strava

import "time"

// Athlete is the summary representation returned by /athlete and embedded
// in token responses.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Profile   string `json:"profile"`
}

// TokenResponse is the payload of the OAuth token endpoint, for both the
// initial code exchange and refreshes. Athlete is only present on exchange.
type TokenResponse struct {
	TokenType    string   `json:"token_type"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresAt    int64    `json:"expires_at"`
	ExpiresIn    int      `json:"expires_in"`
	Athlete      *Athlete `json:"athlete,omitempty"`
}

func (t TokenResponse) Expiry() time.Time {
	if t.ExpiresAt != 0 {
		return time.Unix(t.ExpiresAt, 0)
	}
	return time.Now().Add(time.Duration(t.ExpiresIn) * time.Second)
}

type Activity struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Distance    float64   `json:"distance"`
	MovingTime  int       `json:"moving_time"`
	ElapsedTime int       `json:"elapsed_time"`
	Type        string    `json:"type"`
	SportType   string    `json:"sport_type"`
	StartDate   time.Time `json:"start_date"`
	Description string    `json:"description"`
	Private     bool      `json:"private"`
}

type Lap struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Distance     float64 `json:"distance"`
	ElapsedTime  float64 `json:"elapsed_time"`
	MovingTime   float64 `json:"moving_time"`
	LapIndex     int     `json:"lap_index"`
	AverageSpeed float64 `json:"average_speed"`
	MaxSpeed     float64 `json:"max_speed"`
	Split        int     `json:"split"`
}
