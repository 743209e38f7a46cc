package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/swfrancis/strava-workout-description-generator/internal/strava"
	"github.com/swfrancis/strava-workout-description-generator/internal/user"
)

const (
	sessionTTL = 24 * time.Hour

	defaultAuthorizeURL = "https://www.strava.com/oauth/authorize"

	// activity:write is needed for description write-back
	oauthScope = "activity:read_all,activity:write"
)

type Service struct {
	secret       []byte
	oauth        *strava.OAuth
	users        *user.Service
	clientID     string
	redirectURI  string
	authorizeURL string
}

type Claims struct {
	AthleteID int64 `json:"athlete_id"`
	jwt.RegisteredClaims
}

func NewService(secret string, oauth *strava.OAuth, users *user.Service, redirectURI string) *Service {
	s := &Service{
		secret:       []byte(secret),
		oauth:        oauth,
		users:        users,
		redirectURI:  redirectURI,
		authorizeURL: defaultAuthorizeURL,
	}
	if oauth != nil {
		s.clientID = oauth.ClientID
	}
	return s
}

// AuthorizeURL builds the Strava consent URL the login endpoint redirects
// to. state is echoed back on the callback.
func (s *Service) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", s.clientID)
	q.Set("redirect_uri", s.redirectURI)
	q.Set("response_type", "code")
	q.Set("approval_prompt", "force")
	q.Set("scope", oauthScope)
	if state != "" {
		q.Set("state", state)
	}
	return s.authorizeURL + "?" + q.Encode()
}

// HandleCallback exchanges the authorization code, stores the athlete with
// their tokens, and issues a session token.
func (s *Service) HandleCallback(ctx context.Context, code string) (user.User, string, error) {
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return user.User{}, "", fmt.Errorf("code exchange: %w", err)
	}
	if token.Athlete == nil {
		return user.User{}, "", errors.New("token response missing athlete")
	}

	u, err := s.users.Upsert(ctx, user.User{
		AthleteID:      token.Athlete.ID,
		Username:       token.Athlete.Username,
		Firstname:      token.Athlete.Firstname,
		Lastname:       token.Athlete.Lastname,
		Profile:        token.Athlete.Profile,
		AccessToken:    token.AccessToken,
		RefreshToken:   token.RefreshToken,
		TokenExpiresAt: token.Expiry(),
	})
	if err != nil {
		return user.User{}, "", err
	}

	session, err := s.SessionToken(u.AthleteID)
	if err != nil {
		return user.User{}, "", err
	}
	return u, session, nil
}

// RefreshStravaToken force-rotates the stored Strava tokens for an athlete.
func (s *Service) RefreshStravaToken(ctx context.Context, athleteID int64) (user.User, error) {
	u, err := s.users.ByAthleteID(ctx, athleteID)
	if err != nil {
		return user.User{}, err
	}

	token, err := s.oauth.Refresh(ctx, u.RefreshToken)
	if err != nil {
		return user.User{}, fmt.Errorf("strava refresh: %w", err)
	}

	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = u.RefreshToken
	}
	if err := s.users.UpdateTokens(ctx, athleteID, token.AccessToken, refreshToken, token.Expiry()); err != nil {
		return user.User{}, err
	}

	u.AccessToken = token.AccessToken
	u.RefreshToken = refreshToken
	u.TokenExpiresAt = token.Expiry()
	return u, nil
}

// SessionToken signs a short-lived JWT identifying the athlete.
func (s *Service) SessionToken(athleteID int64) (string, error) {
	claims := Claims{
		AthleteID: athleteID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateSession returns the athlete id carried by a session token.
func (s *Service) ValidateSession(token string) (int64, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	if err != nil {
		return 0, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return 0, errors.New("session invalid")
	}
	return claims.AthleteID, nil
}
