package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/swfrancis/strava-workout-description-generator/internal/db"
)

const cacheTTL = 10 * time.Minute

var ErrNotFound = errors.New("user not found")

type Service struct {
	db    db.Querier
	redis *redis.Client
}

func NewService(querier db.Querier, redisClient *redis.Client) *Service {
	return &Service{db: querier, redis: redisClient}
}

// Upsert creates or updates the athlete record, replacing the stored
// tokens. Returns the persisted user with timestamps filled in.
func (s *Service) Upsert(ctx context.Context, u User) (User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (athlete_id, username, firstname, lastname, profile, access_token, refresh_token, token_expires_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (athlete_id) DO UPDATE SET
			username = EXCLUDED.username,
			firstname = EXCLUDED.firstname,
			lastname = EXCLUDED.lastname,
			profile = EXCLUDED.profile,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			updated_at = now()
		RETURNING created_at, updated_at
	`, u.AthleteID, u.Username, u.Firstname, u.Lastname, u.Profile, u.AccessToken, u.RefreshToken, u.TokenExpiresAt)
	if err := row.Scan(&u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}

	s.cacheSet(ctx, u)
	return u, nil
}

// ByAthleteID loads a user, preferring the redis cache.
func (s *Service) ByAthleteID(ctx context.Context, athleteID int64) (User, error) {
	if u, ok := s.cacheGet(ctx, athleteID); ok {
		return u, nil
	}

	row := s.db.QueryRow(ctx, `
		SELECT athlete_id, username, firstname, lastname, profile, access_token, refresh_token, token_expires_at, created_at, updated_at
		FROM users WHERE athlete_id = $1
	`, athleteID)

	var u User
	err := row.Scan(&u.AthleteID, &u.Username, &u.Firstname, &u.Lastname, &u.Profile,
		&u.AccessToken, &u.RefreshToken, &u.TokenExpiresAt, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}

	s.cacheSet(ctx, u)
	return u, nil
}

// UpdateTokens persists rotated OAuth tokens and drops the cached copy.
func (s *Service) UpdateTokens(ctx context.Context, athleteID int64, accessToken, refreshToken string, expiresAt time.Time) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE users SET access_token = $2, refresh_token = $3, token_expires_at = $4, updated_at = now()
		WHERE athlete_id = $1
	`, athleteID, accessToken, refreshToken, expiresAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.cacheDel(ctx, athleteID)
	return nil
}

// Delete removes an athlete and their stored tokens.
func (s *Service) Delete(ctx context.Context, athleteID int64) error {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM users WHERE athlete_id = $1
	`, athleteID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.cacheDel(ctx, athleteID)
	return nil
}

func cacheKey(athleteID int64) string {
	return fmt.Sprintf("user:%d", athleteID)
}

func (s *Service) cacheGet(ctx context.Context, athleteID int64) (User, bool) {
	if s.redis == nil {
		return User{}, false
	}
	raw, err := s.redis.Get(ctx, cacheKey(athleteID)).Bytes()
	if err != nil {
		return User{}, false
	}
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, false
	}
	return u, true
}

func (s *Service) cacheSet(ctx context.Context, u User) {
	if s.redis == nil {
		return
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(u.AthleteID), raw, cacheTTL).Err(); err != nil {
		log.Printf("user cache set error: %v", err)
	}
}

func (s *Service) cacheDel(ctx context.Context, athleteID int64) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, cacheKey(athleteID)).Err(); err != nil {
		log.Printf("user cache del error: %v", err)
	}
}
