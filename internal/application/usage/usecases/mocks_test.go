package usecases

import (
	"context"
	"time"

	"github.com/fammo-app/fammo/internal/domain/pet"
	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/domain/user"
)

type mockTransactor struct {
	calls int
}

func (m *mockTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockLedgerRepository struct {
	GetOrCreateCurrentFunc func(ctx context.Context, userID uint, month time.Time) (*usage.Record, error)
	LockCurrentFunc        func(ctx context.Context, userID uint, month time.Time) (*usage.Record, error)
	IncrementFunc          func(ctx context.Context, recordID uint, action usage.ActionType) error
	ResetStaleFunc         func(ctx context.Context, month time.Time) (int64, error)
}

func (m *mockLedgerRepository) GetOrCreateCurrent(ctx context.Context, userID uint, month time.Time) (*usage.Record, error) {
	if m.GetOrCreateCurrentFunc != nil {
		return m.GetOrCreateCurrentFunc(ctx, userID, month)
	}
	return usage.ReconstructRecord(1, userID, month, 0, 0, month), nil
}

func (m *mockLedgerRepository) LockCurrent(ctx context.Context, userID uint, month time.Time) (*usage.Record, error) {
	if m.LockCurrentFunc != nil {
		return m.LockCurrentFunc(ctx, userID, month)
	}
	return usage.ReconstructRecord(1, userID, month, 0, 0, month), nil
}

func (m *mockLedgerRepository) Increment(ctx context.Context, recordID uint, action usage.ActionType) error {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, recordID, action)
	}
	return nil
}

func (m *mockLedgerRepository) ResetStale(ctx context.Context, month time.Time) (int64, error) {
	if m.ResetStaleFunc != nil {
		return m.ResetStaleFunc(ctx, month)
	}
	return 0, nil
}

type mockRecommendationRepository struct {
	CreateFunc     func(ctx context.Context, r *recommendation.Recommendation) error
	CountSinceFunc func(ctx context.Context, userID uint, kind usage.ActionType, since time.Time) (int, error)
	ListByUserFunc func(ctx context.Context, userID uint, limit int) ([]*recommendation.Recommendation, error)
}

func (m *mockRecommendationRepository) Create(ctx context.Context, r *recommendation.Recommendation) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, r)
	}
	r.SetID(1)
	return nil
}

func (m *mockRecommendationRepository) CountSince(ctx context.Context, userID uint, kind usage.ActionType, since time.Time) (int, error) {
	if m.CountSinceFunc != nil {
		return m.CountSinceFunc(ctx, userID, kind, since)
	}
	return 0, nil
}

func (m *mockRecommendationRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]*recommendation.Recommendation, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID, limit)
	}
	return nil, nil
}

type mockPlanRepository struct {
	GetByIDFunc    func(ctx context.Context, id uint) (*usage.Plan, error)
	GetByTierFunc  func(ctx context.Context, tier usage.Tier) (*usage.Plan, error)
	ListActiveFunc func(ctx context.Context) ([]*usage.Plan, error)
	UpsertFunc     func(ctx context.Context, plan *usage.Plan) error
}

func (m *mockPlanRepository) GetByID(ctx context.Context, id uint) (*usage.Plan, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPlanRepository) GetByTier(ctx context.Context, tier usage.Tier) (*usage.Plan, error) {
	if m.GetByTierFunc != nil {
		return m.GetByTierFunc(ctx, tier)
	}
	return nil, nil
}

func (m *mockPlanRepository) ListActive(ctx context.Context) ([]*usage.Plan, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func (m *mockPlanRepository) Upsert(ctx context.Context, plan *usage.Plan) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, plan)
	}
	return nil
}

type mockUserRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*user.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, u *user.User) error { return nil }
func (m *mockUserRepository) Update(ctx context.Context, u *user.User) error { return nil }

func (m *mockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (m *mockUserRepository) GetByActivationTokenHash(ctx context.Context, hash string) (*user.User, error) {
	return nil, nil
}

type mockProfileRepository struct {
	GetByUserIDFunc func(ctx context.Context, userID uint) (*profile.Profile, error)
}

func (m *mockProfileRepository) Create(ctx context.Context, p *profile.Profile) error { return nil }
func (m *mockProfileRepository) Update(ctx context.Context, p *profile.Profile) error { return nil }

func (m *mockProfileRepository) GetByUserID(ctx context.Context, userID uint) (*profile.Profile, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, nil
}

func (m *mockProfileRepository) ListSharingLocation(ctx context.Context) ([]*profile.Profile, error) {
	return nil, nil
}

type mockPetRepository struct {
	GetByIDFunc func(ctx context.Context, id uint) (*pet.Pet, error)
}

func (m *mockPetRepository) Create(ctx context.Context, p *pet.Pet) error { return nil }

func (m *mockPetRepository) GetByID(ctx context.Context, id uint) (*pet.Pet, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockPetRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*pet.Pet, error) {
	return nil, nil
}

func (m *mockPetRepository) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	return 0, nil
}

type mockGenerator struct {
	GenerateMealPlanFunc     func(ctx context.Context, profile string) (*recommendation.MealPlan, error)
	GenerateHealthReportFunc func(ctx context.Context, profile string) (*recommendation.HealthReport, error)
}

func (m *mockGenerator) GenerateMealPlan(ctx context.Context, profile string) (*recommendation.MealPlan, error) {
	if m.GenerateMealPlanFunc != nil {
		return m.GenerateMealPlanFunc(ctx, profile)
	}
	return &recommendation.MealPlan{DERKcal: 540}, nil
}

func (m *mockGenerator) GenerateHealthReport(ctx context.Context, profile string) (*recommendation.HealthReport, error) {
	if m.GenerateHealthReportFunc != nil {
		return m.GenerateHealthReportFunc(ctx, profile)
	}
	return &recommendation.HealthReport{HealthSummary: "Healthy adult"}, nil
}
