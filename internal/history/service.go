package history

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/swfrancis/strava-workout-description-generator/internal/db"
)

var ErrNotFound = errors.New("history record not found")

type Service struct {
	db db.Querier
}

func NewService(querier db.Querier) *Service {
	return &Service{db: querier}
}

// Save stores an analysis outcome. One record per activity: a re-run
// replaces the stored result.
func (s *Service) Save(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	row := s.db.QueryRow(ctx, `
		INSERT INTO analysis_history (id, athlete_id, activity_id, activity_name, activity_type, description, confidence, applied, analysis)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (athlete_id, activity_id) DO UPDATE SET
			activity_name = EXCLUDED.activity_name,
			activity_type = EXCLUDED.activity_type,
			description = EXCLUDED.description,
			confidence = EXCLUDED.confidence,
			applied = EXCLUDED.applied,
			analysis = EXCLUDED.analysis
		RETURNING id, created_at
	`, rec.ID, rec.AthleteID, rec.ActivityID, rec.ActivityName, rec.ActivityType,
		rec.Description, rec.Confidence, rec.Applied, []byte(rec.Analysis))
	if err := row.Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// ForAthlete lists an athlete's stored analyses, newest first.
func (s *Service) ForAthlete(ctx context.Context, athleteID int64, limit int) ([]Record, error) {
	if limit < 1 {
		limit = 20
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, athlete_id, activity_id, activity_name, activity_type, description, confidence, applied, analysis, created_at
		FROM analysis_history WHERE athlete_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, athleteID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var raw []byte
		if err := rows.Scan(&rec.ID, &rec.AthleteID, &rec.ActivityID, &rec.ActivityName, &rec.ActivityType,
			&rec.Description, &rec.Confidence, &rec.Applied, &raw, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Analysis = raw
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ForActivity loads the stored analysis of one activity.
func (s *Service) ForActivity(ctx context.Context, athleteID, activityID int64) (Record, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, athlete_id, activity_id, activity_name, activity_type, description, confidence, applied, analysis, created_at
		FROM analysis_history WHERE athlete_id = $1 AND activity_id = $2
	`, athleteID, activityID)

	var rec Record
	var raw []byte
	err := row.Scan(&rec.ID, &rec.AthleteID, &rec.ActivityID, &rec.ActivityName, &rec.ActivityType,
		&rec.Description, &rec.Confidence, &rec.Applied, &raw, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	rec.Analysis = raw
	return rec, nil
}

// Delete removes the stored analysis of one activity.
func (s *Service) Delete(ctx context.Context, athleteID, activityID int64) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM analysis_history WHERE athlete_id = $1 AND activity_id = $2
	`, athleteID, activityID)
	return err
}
