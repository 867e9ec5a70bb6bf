package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/domain/pet"
	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/infrastructure/repository"
	"github.com/fammo-app/fammo/internal/infrastructure/repository/repotest"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/db"
	apperrors "github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type ledgerFixture struct {
	gdb    *gorm.DB
	ledger usage.LedgerRepository
	recs   recommendation.Repository
	runner *MeteredActionRunner
	pets   pet.Repository
	userID uint
	petID  uint
}

// newLedgerFixture stores a user on the essentials plan (3 meals a month)
// with one pet, backed by SQLite.
func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	ctx := t.Context()
	gdb := repotest.NewDB(t)
	log := logger.NewNop()

	users := repository.NewUserRepository(gdb, log)
	profiles := repository.NewProfileRepository(gdb, log)
	plans := repository.NewSubscriptionPlanRepository(gdb, log)
	pets := repository.NewPetRepository(gdb, log)
	ledger := repository.NewAIUsageRepository(gdb, log)
	recs := repository.NewAIRecommendationRepository(gdb, log)

	plan, err := usage.NewPlan(usage.PlanParams{
		Tier: usage.TierEssentials, Name: "Essentials", MonthlyMealLimit: 3, MonthlyHealthLimit: 1, IsActive: true,
	})
	require.NoError(t, err)
	require.NoError(t, plans.Upsert(ctx, plan))

	u, err := user.NewUser("owner@example.com", "hash")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, u))

	p, err := profile.NewProfile(u.ID(), "Anna", "de Vries")
	require.NoError(t, err)
	planID := plan.ID()
	p.SetPlan(&planID)
	require.NoError(t, profiles.Create(ctx, p))

	bella, err := pet.NewPet(u.ID(), pet.Attributes{Name: "Bella", Species: "dog"})
	require.NoError(t, err)
	require.NoError(t, pets.Create(ctx, bella))

	subjects := NewSubjectResolver(users, profiles, plans, log)
	runner := NewMeteredActionRunner(db.NewTransactionManager(gdb), ledger, recs, subjects, usage.NewPolicy(usage.DefaultLimits), log)

	return &ledgerFixture{
		gdb:    gdb,
		ledger: ledger,
		recs:   recs,
		runner: runner,
		pets:   pets,
		userID: u.ID(),
		petID:  bella.ID(),
	}
}

func (f *ledgerFixture) mealCount(t *testing.T) int {
	t.Helper()
	rec, err := f.ledger.GetOrCreateCurrent(t.Context(), f.userID, biztime.MonthBucket(biztime.NowUTC()))
	require.NoError(t, err)
	return rec.MealCount()
}

func (f *ledgerFixture) storedRecommendations(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.gdb.Model(&models.AIRecommendationModel{}).Where("user_id = ?", f.userID).Count(&n).Error)
	return n
}

func TestMealPlan_FourthRequestInMonthIsRejected(t *testing.T) {
	f := newLedgerFixture(t)
	uc := NewGenerateMealPlanUseCase(f.runner, f.pets, f.recs, &mockGenerator{}, logger.NewNop())
	cmd := GenerateCommand{UserID: f.userID, PetID: f.petID}

	for i := 1; i <= 3; i++ {
		result, err := uc.Execute(t.Context(), cmd)
		require.NoError(t, err, "request %d", i)
		assert.Equal(t, i, result.Usage.Used)
		assert.Equal(t, i, f.mealCount(t))
	}

	_, err := uc.Execute(t.Context(), cmd)
	require.Error(t, err)
	assert.True(t, apperrors.IsLimitExceededError(err))
	assert.Equal(t, "You’ve reached your monthly limit of 3 AI meal suggestions.", apperrors.GetAppError(err).Message)
	assert.Equal(t, 3, f.mealCount(t))
	assert.Equal(t, int64(3), f.storedRecommendations(t))
}

func TestMealPlan_ConcurrentRequestsNeverExceedLimit(t *testing.T) {
	f := newLedgerFixture(t)
	uc := NewGenerateMealPlanUseCase(f.runner, f.pets, f.recs, &mockGenerator{}, logger.NewNop())
	cmd := GenerateCommand{UserID: f.userID, PetID: f.petID}

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		limited   int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), cmd)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperrors.IsLimitExceededError(err):
				limited++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded)
	assert.Equal(t, workers-3, limited)
	assert.Equal(t, 3, f.mealCount(t))
	assert.Equal(t, int64(3), f.storedRecommendations(t))
}

func TestMealPlan_FailedModelCallLeavesLedgerUntouched(t *testing.T) {
	f := newLedgerFixture(t)
	llm := &mockGenerator{
		GenerateMealPlanFunc: func(ctx context.Context, profile string) (*recommendation.MealPlan, error) {
			return nil, errors.New("upstream 503")
		},
	}
	uc := NewGenerateMealPlanUseCase(f.runner, f.pets, f.recs, llm, logger.NewNop())

	_, err := uc.Execute(t.Context(), GenerateCommand{UserID: f.userID, PetID: f.petID})

	require.Error(t, err)
	assert.Equal(t, 0, f.mealCount(t))
	assert.Equal(t, int64(0), f.storedRecommendations(t))
}

func TestMealPlan_StoreFailureRollsBackLedger(t *testing.T) {
	f := newLedgerFixture(t)
	failing := &mockRecommendationRepository{
		CreateFunc: func(ctx context.Context, r *recommendation.Recommendation) error {
			return errors.New("disk full")
		},
		CountSinceFunc: f.recs.CountSince,
	}
	uc := NewGenerateMealPlanUseCase(f.runner, f.pets, failing, &mockGenerator{}, logger.NewNop())

	_, err := uc.Execute(t.Context(), GenerateCommand{UserID: f.userID, PetID: f.petID})

	require.Error(t, err)
	assert.Equal(t, 0, f.mealCount(t))
}
