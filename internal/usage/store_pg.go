package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed profile store.
func NewPGStore(db *sql.DB) *pgStore {
	return &pgStore{DB: db}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Profile, error) {
	p, err := s.scanOne(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return Profile{}, err
	}
	return s.insertDefault(ctx, userID)
}

func (s *pgStore) Increment(ctx context.Context, userID string) (Profile, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return Profile{}, err
	}
	const query = `
UPDATE user_profiles
SET analyses_used = analyses_used + 1, updated_at = $2
WHERE user_id = $1
RETURNING user_id, plan_id, analyses_used, admin, updated_at`
	return s.scanRow(s.DB.QueryRowContext(ctx, query, userID, time.Now().UTC()))
}

func (s *pgStore) SetPlan(ctx context.Context, userID, planID string) (Profile, error) {
	if _, err := s.Get(ctx, userID); err != nil {
		return Profile{}, err
	}
	const query = `
UPDATE user_profiles
SET plan_id = $2, updated_at = $3
WHERE user_id = $1
RETURNING user_id, plan_id, analyses_used, admin, updated_at`
	return s.scanRow(s.DB.QueryRowContext(ctx, query, userID, PlanByID(planID).ID, time.Now().UTC()))
}

func (s *pgStore) scanOne(ctx context.Context, userID string) (Profile, error) {
	const query = `
SELECT user_id, plan_id, analyses_used, admin, updated_at
FROM user_profiles
WHERE user_id = $1`
	return s.scanRow(s.DB.QueryRowContext(ctx, query, userID))
}

func (s *pgStore) insertDefault(ctx context.Context, userID string) (Profile, error) {
	p := defaultProfile(userID)
	const query = `
INSERT INTO user_profiles (user_id, plan_id, analyses_used, admin, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING user_id, plan_id, analyses_used, admin, updated_at`
	return s.scanRow(s.DB.QueryRowContext(ctx, query, p.UserID, p.PlanID, p.AnalysesUsed, p.Admin, p.UpdatedAt))
}

func (s *pgStore) scanRow(row *sql.Row) (Profile, error) {
	var p Profile
	if err := row.Scan(&p.UserID, &p.PlanID, &p.AnalysesUsed, &p.Admin, &p.UpdatedAt); err != nil {
		return Profile{}, err
	}
	return p, nil
}
