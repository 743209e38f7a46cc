package activity

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sort"
	"strings"

	"github.com/swfrancis/strava-workout-description-generator/internal/analysis"
	"github.com/swfrancis/strava-workout-description-generator/internal/strava"
	"github.com/swfrancis/strava-workout-description-generator/internal/user"
)

const recentCount = 10

// Config carries the Strava API settings shared by every per-athlete
// client. BaseURL and TokenURL are overridable for tests.
type Config struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
	TokenURL     string
	HTTPClient   *http.Client
}

type Service struct {
	cfg      Config
	users    *user.Service
	analyzer *analysis.Analyzer
}

func NewService(cfg Config, users *user.Service, analyzer *analysis.Analyzer) *Service {
	return &Service{cfg: cfg, users: users, analyzer: analyzer}
}

// clientFor builds a Strava client bound to one athlete's tokens. Rotated
// tokens are written back to storage as a side effect of API calls.
func (s *Service) clientFor(u user.User) *strava.Client {
	return strava.NewClient(strava.ClientConfig{
		ClientID:     s.cfg.ClientID,
		ClientSecret: s.cfg.ClientSecret,
		AccessToken:  u.AccessToken,
		RefreshToken: u.RefreshToken,
		BaseURL:      s.cfg.BaseURL,
		TokenURL:     s.cfg.TokenURL,
		HTTPClient:   s.cfg.HTTPClient,
		OnTokenRefresh: func(ctx context.Context, token strava.TokenResponse) error {
			refreshToken := token.RefreshToken
			if refreshToken == "" {
				refreshToken = u.RefreshToken
			}
			return s.users.UpdateTokens(ctx, u.AthleteID, token.AccessToken, refreshToken, token.Expiry())
		},
	})
}

func (s *Service) client(ctx context.Context, athleteID int64) (*strava.Client, error) {
	u, err := s.users.ByAthleteID(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	return s.clientFor(u), nil
}

// List pages through the athlete's activities, newest first.
func (s *Service) List(ctx context.Context, athleteID int64, opts strava.ActivityListOptions) ([]strava.Activity, error) {
	client, err := s.client(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	return client.Activities(ctx, opts)
}

// Recent returns the athlete's latest activities.
func (s *Service) Recent(ctx context.Context, athleteID int64) ([]strava.Activity, error) {
	return s.List(ctx, athleteID, strava.ActivityListOptions{Page: 1, PerPage: recentCount})
}

// Detail fetches one activity.
func (s *Service) Detail(ctx context.Context, athleteID, activityID int64) (*strava.Activity, error) {
	client, err := s.client(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	return client.Activity(ctx, activityID)
}

// Laps fetches the recorded laps of an activity.
func (s *Service) Laps(ctx context.Context, athleteID, activityID int64) ([]strava.Lap, error) {
	client, err := s.client(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	return client.ActivityLaps(ctx, activityID)
}

// Analyse runs pattern detection over the activity's laps.
func (s *Service) Analyse(ctx context.Context, athleteID, activityID int64) (*analysis.WorkoutAnalysis, error) {
	client, err := s.client(ctx, athleteID)
	if err != nil {
		return nil, err
	}
	result, _, err := s.analyseWith(ctx, client, activityID)
	return result, err
}

func (s *Service) analyseWith(ctx context.Context, client *strava.Client, activityID int64) (*analysis.WorkoutAnalysis, *strava.Activity, error) {
	act, err := client.Activity(ctx, activityID)
	if err != nil {
		return nil, nil, err
	}
	laps, err := client.ActivityLaps(ctx, activityID)
	if err != nil && !errors.Is(err, strava.ErrNotFound) {
		return nil, nil, err
	}

	result := s.analyzer.Analyze(toAnalysisLaps(laps), act.Name, act.Type)
	result.ActivityID = act.ID
	return result, act, nil
}

// DescriptionResult is the outcome of generating (and optionally applying)
// a workout description.
type DescriptionResult struct {
	ActivityID  int64                     `json:"activity_id"`
	Description string                    `json:"description"`
	Applied     bool                      `json:"applied"`
	Reason      string                    `json:"reason,omitempty"`
	Analysis    *analysis.WorkoutAnalysis `json:"analysis"`
}

// GenerateDescription produces the workout description for an activity and,
// when apply is set, writes it back to Strava. The generated line is
// prepended to any existing description; an activity already carrying the
// line is left untouched.
func (s *Service) GenerateDescription(ctx context.Context, athleteID, activityID int64, apply bool) (*DescriptionResult, error) {
	client, err := s.client(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	result, act, err := s.analyseWith(ctx, client, activityID)
	if err != nil {
		return nil, err
	}

	out := &DescriptionResult{
		ActivityID:  activityID,
		Description: result.ShortDescription,
		Analysis:    result,
	}
	if !apply {
		return out, nil
	}

	merged, changed := MergeDescription(act.Description, result.ShortDescription)
	if !changed {
		return out, nil
	}
	if _, err := client.UpdateActivityDescription(ctx, activityID, merged); err != nil {
		return nil, err
	}
	out.Applied = true
	return out, nil
}

// AutoDescribeOptions gate the unattended write-back path. Zero values
// disable the corresponding check.
type AutoDescribeOptions struct {
	MinConfidence float64
	MinLaps       int
	AllowedTypes  []string
}

// AutoDescribe analyses an activity and writes the description back only
// when every gate passes. Skipped activities return with Applied false and
// the reason filled in.
func (s *Service) AutoDescribe(ctx context.Context, athleteID, activityID int64, opts AutoDescribeOptions) (*DescriptionResult, error) {
	client, err := s.client(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	result, act, err := s.analyseWith(ctx, client, activityID)
	if err != nil {
		return nil, err
	}

	out := &DescriptionResult{
		ActivityID:  activityID,
		Description: result.ShortDescription,
		Analysis:    result,
	}
	if len(opts.AllowedTypes) > 0 && !containsType(opts.AllowedTypes, act.Type) {
		out.Reason = "activity type " + act.Type + " not eligible"
		return out, nil
	}
	if result.LapCount < opts.MinLaps {
		out.Reason = "not enough laps"
		return out, nil
	}
	if result.Confidence <= opts.MinConfidence {
		out.Reason = "confidence too low"
		return out, nil
	}

	merged, changed := MergeDescription(act.Description, result.ShortDescription)
	if !changed {
		out.Reason = "description already present"
		return out, nil
	}
	if _, err := client.UpdateActivityDescription(ctx, activityID, merged); err != nil {
		return nil, err
	}
	out.Applied = true
	return out, nil
}

func containsType(types []string, activityType string) bool {
	for _, t := range types {
		if t == activityType {
			return true
		}
	}
	return false
}

// MergeDescription prepends the generated line to an existing description.
// Reports false when the description already carries the line.
func MergeDescription(existing, generated string) (string, bool) {
	if generated == "" {
		return existing, false
	}
	if strings.Contains(existing, generated) {
		return existing, false
	}
	if strings.TrimSpace(existing) == "" {
		return generated, true
	}
	return generated + "\n\n" + existing, true
}

func toAnalysisLaps(laps []strava.Lap) []analysis.Lap {
	out := make([]analysis.Lap, 0, len(laps))
	for _, lap := range laps {
		if lap.ElapsedTime <= 0 || lap.Distance < 0 {
			log.Printf("activity: skipping malformed lap %d (distance=%v time=%v)", lap.LapIndex, lap.Distance, lap.ElapsedTime)
			continue
		}
		out = append(out, analysis.Lap{
			Distance:    lap.Distance,
			ElapsedTime: lap.ElapsedTime,
			LapIndex:    lap.LapIndex,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LapIndex < out[j].LapIndex })
	return out
}
