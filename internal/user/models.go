package user

import "time"

// User is one connected Strava athlete and the OAuth tokens we hold for
// them. AthleteID is Strava's athlete id and our primary key.
type User struct {
	AthleteID      int64     `json:"athlete_id"`
	Username       string    `json:"username"`
	Firstname      string    `json:"firstname"`
	Lastname       string    `json:"lastname"`
	Profile        string    `json:"profile"`
	AccessToken    string    `json:"access_token"`
	RefreshToken   string    `json:"refresh_token"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
