package usage

import "context"

type store interface {
	Get(ctx context.Context, userID string) (Profile, error)
	Increment(ctx context.Context, userID string) (Profile, error)
	SetPlan(ctx context.Context, userID, planID string) (Profile, error)
}

// Service gates analysis creation against plan allowances.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService() *Service {
	return &Service{store: newMemoryStore()}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Get returns the user's profile, initializing defaults if absent.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	return s.store.Get(ctx, userID)
}

// Plan returns the plan backing the user's profile.
func (s *Service) Plan(ctx context.Context, userID string) (Plan, error) {
	profile, err := s.store.Get(ctx, userID)
	if err != nil {
		return Plan{}, err
	}
	return PlanByID(profile.PlanID), nil
}

// CheckQuota rejects with ErrQuotaExceeded when a finite plan allowance is
// already consumed. Unbounded plans never reject.
func (s *Service) CheckQuota(ctx context.Context, userID string) error {
	profile, err := s.store.Get(ctx, userID)
	if err != nil {
		return err
	}
	plan := PlanByID(profile.PlanID)
	if plan.Unlimited() {
		return nil
	}
	if profile.AnalysesUsed >= plan.Limit {
		return ErrQuotaExceeded
	}
	return nil
}

// Consume increments the usage counter after a successful creation. Callers
// treat a failure here as best-effort: the created record is never rolled
// back over an increment failure.
func (s *Service) Consume(ctx context.Context, userID string) (Profile, error) {
	return s.store.Increment(ctx, userID)
}

// SetPlan assigns a plan to a user; consumed read-only by the pipeline, the
// write exists for the external account workflow.
func (s *Service) SetPlan(ctx context.Context, userID, planID string) (Profile, error) {
	return s.store.SetPlan(ctx, userID, planID)
}
