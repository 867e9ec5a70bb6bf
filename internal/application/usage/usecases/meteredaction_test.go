package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/shared/authorization"
	apperrors "github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

func testUser(id uint, role authorization.UserRole) *user.User {
	return user.ReconstructUser(user.State{ID: id, Email: "owner@example.com", Role: role, IsActive: true})
}

func usersWith(u *user.User) *mockUserRepository {
	return &mockUserRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*user.User, error) {
			if u != nil && u.ID() == id {
				return u, nil
			}
			return nil, nil
		},
	}
}

type runnerDeps struct {
	users    *mockUserRepository
	profiles *mockProfileRepository
	plans    *mockPlanRepository
	ledger   *mockLedgerRepository
	recs     *mockRecommendationRepository
}

func newRunner(d runnerDeps) *MeteredActionRunner {
	if d.users == nil {
		d.users = usersWith(testUser(7, authorization.RoleUser))
	}
	if d.profiles == nil {
		d.profiles = &mockProfileRepository{}
	}
	if d.plans == nil {
		d.plans = &mockPlanRepository{}
	}
	if d.ledger == nil {
		d.ledger = &mockLedgerRepository{}
	}
	if d.recs == nil {
		d.recs = &mockRecommendationRepository{}
	}
	log := logger.NewNop()
	subjects := NewSubjectResolver(d.users, d.profiles, d.plans, log)
	r := NewMeteredActionRunner(&mockTransactor{}, d.ledger, d.recs, subjects, usage.NewPolicy(usage.DefaultLimits), log)
	r.now = func() time.Time { return time.Date(2024, time.June, 14, 10, 0, 0, 0, time.UTC) }
	return r
}

func countReturning(n int) *mockRecommendationRepository {
	return &mockRecommendationRepository{
		CountSinceFunc: func(ctx context.Context, userID uint, kind usage.ActionType, since time.Time) (int, error) {
			return n, nil
		},
	}
}

func TestMeteredActionRunner_Run_UnderLimit(t *testing.T) {
	var incremented []usage.ActionType
	ledger := &mockLedgerRepository{
		IncrementFunc: func(ctx context.Context, recordID uint, action usage.ActionType) error {
			incremented = append(incremented, action)
			return nil
		},
	}
	runner := newRunner(runnerDeps{ledger: ledger, recs: countReturning(2)})

	called := false
	d, err := runner.Run(context.Background(), 7, usage.ActionMeal, func(ctx context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []usage.ActionType{usage.ActionMeal}, incremented)
	assert.Equal(t, 3, d.Used)
	assert.Equal(t, 3, d.Limit)
	assert.Equal(t, 0, d.Remaining())
}

func TestMeteredActionRunner_Run_LimitReached(t *testing.T) {
	tests := []struct {
		name       string
		action     usage.ActionType
		ledgerUsed int
		logged     int
		wantMsg    string
	}{
		{"meal log at default limit", usage.ActionMeal, 0, 3, "You’ve reached your monthly limit of 3 AI meal suggestions."},
		{"health log at default limit", usage.ActionHealth, 0, 1, "You’ve reached your monthly limit of 1 AI health reports."},
		{"ledger ahead of log", usage.ActionMeal, 3, 0, "You’ve reached your monthly limit of 3 AI meal suggestions."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := &mockLedgerRepository{
				LockCurrentFunc: func(ctx context.Context, userID uint, month time.Time) (*usage.Record, error) {
					if tt.action == usage.ActionMeal {
						return usage.ReconstructRecord(1, userID, month, tt.ledgerUsed, 0, month), nil
					}
					return usage.ReconstructRecord(1, userID, month, 0, tt.ledgerUsed, month), nil
				},
				IncrementFunc: func(ctx context.Context, recordID uint, action usage.ActionType) error {
					t.Fatal("ledger must not be incremented")
					return nil
				},
			}
			runner := newRunner(runnerDeps{ledger: ledger, recs: countReturning(tt.logged)})

			_, err := runner.Run(context.Background(), 7, tt.action, func(ctx context.Context) error {
				t.Fatal("action must not run")
				return nil
			})

			require.Error(t, err)
			assert.True(t, apperrors.IsLimitExceededError(err))
			assert.Equal(t, tt.wantMsg, apperrors.GetAppError(err).Message)
			assert.Equal(t, 429, apperrors.GetAppError(err).Code)
		})
	}
}

func TestMeteredActionRunner_Run_PrivilegedBypassesLedger(t *testing.T) {
	ledger := &mockLedgerRepository{
		LockCurrentFunc: func(ctx context.Context, userID uint, month time.Time) (*usage.Record, error) {
			t.Fatal("ledger must not be touched")
			return nil, nil
		},
		IncrementFunc: func(ctx context.Context, recordID uint, action usage.ActionType) error {
			t.Fatal("ledger must not be touched")
			return nil
		},
	}
	runner := newRunner(runnerDeps{
		users:  usersWith(testUser(7, authorization.RoleAdmin)),
		ledger: ledger,
		recs:   countReturning(500),
	})

	called := false
	d, err := runner.Run(context.Background(), 7, usage.ActionHealth, func(ctx context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	assert.True(t, d.Bypass)
	assert.Equal(t, -1, d.Remaining())
}

func TestMeteredActionRunner_Run_ActionFailureConsumesNothing(t *testing.T) {
	ledger := &mockLedgerRepository{
		IncrementFunc: func(ctx context.Context, recordID uint, action usage.ActionType) error {
			t.Fatal("ledger must not be incremented")
			return nil
		},
	}
	runner := newRunner(runnerDeps{ledger: ledger})
	boom := errors.New("model timeout")

	_, err := runner.Run(context.Background(), 7, usage.ActionMeal, func(ctx context.Context) error {
		return boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestMeteredActionRunner_Run_UsesProfilePlan(t *testing.T) {
	planID := uint(5)
	wellness := usage.ReconstructPlan(planID, usage.PlanParams{
		Tier: usage.TierWellness, Name: "Wellness", MonthlyMealLimit: 10, MonthlyHealthLimit: 4, IsActive: true,
	})
	profiles := &mockProfileRepository{
		GetByUserIDFunc: func(ctx context.Context, userID uint) (*profile.Profile, error) {
			return profile.ReconstructProfile(profile.State{ID: 1, UserID: userID, PlanID: &planID}), nil
		},
	}
	plans := &mockPlanRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*usage.Plan, error) {
			assert.Equal(t, planID, id)
			return wellness, nil
		},
	}
	runner := newRunner(runnerDeps{profiles: profiles, plans: plans, recs: countReturning(5)})

	d, err := runner.Run(context.Background(), 7, usage.ActionMeal, func(ctx context.Context) error { return nil })

	require.NoError(t, err)
	assert.Equal(t, 10, d.Limit)
	assert.Equal(t, 6, d.Used)
}

func TestMeteredActionRunner_Run_Errors(t *testing.T) {
	t.Run("unknown user", func(t *testing.T) {
		runner := newRunner(runnerDeps{users: usersWith(nil)})
		_, err := runner.Run(context.Background(), 7, usage.ActionMeal, func(ctx context.Context) error { return nil })
		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("invalid action", func(t *testing.T) {
		runner := newRunner(runnerDeps{})
		_, err := runner.Run(context.Background(), 7, usage.ActionType("chat"), func(ctx context.Context) error { return nil })
		assert.True(t, apperrors.IsValidationError(err))
	})

	t.Run("ledger failure", func(t *testing.T) {
		ledger := &mockLedgerRepository{
			LockCurrentFunc: func(ctx context.Context, userID uint, month time.Time) (*usage.Record, error) {
				return nil, errors.New("deadlock")
			},
		}
		runner := newRunner(runnerDeps{ledger: ledger})
		_, err := runner.Run(context.Background(), 7, usage.ActionMeal, func(ctx context.Context) error { return nil })
		assert.ErrorContains(t, err, "deadlock")
	})
}

func TestMeteredActionRunner_Run_CountsFromMonthStart(t *testing.T) {
	var since time.Time
	var month time.Time
	recs := &mockRecommendationRepository{
		CountSinceFunc: func(ctx context.Context, userID uint, kind usage.ActionType, s time.Time) (int, error) {
			since = s
			return 0, nil
		},
	}
	ledger := &mockLedgerRepository{
		LockCurrentFunc: func(ctx context.Context, userID uint, m time.Time) (*usage.Record, error) {
			month = m
			return usage.ReconstructRecord(1, userID, m, 0, 0, m), nil
		},
	}
	runner := newRunner(runnerDeps{ledger: ledger, recs: recs})

	_, err := runner.Run(context.Background(), 7, usage.ActionMeal, func(ctx context.Context) error { return nil })
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), month)
	assert.Equal(t, time.June, since.In(time.UTC).Add(12*time.Hour).Month())
	assert.False(t, since.After(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
}
