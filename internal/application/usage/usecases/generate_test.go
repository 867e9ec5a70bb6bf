package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fammo-app/fammo/internal/domain/pet"
	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/domain/usage"
	apperrors "github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

func petsWith(p *pet.Pet) *mockPetRepository {
	return &mockPetRepository{
		GetByIDFunc: func(ctx context.Context, id uint) (*pet.Pet, error) {
			if p != nil && p.ID() == id {
				return p, nil
			}
			return nil, nil
		},
	}
}

func bella(ownerID uint) *pet.Pet {
	now := time.Now().UTC()
	return pet.ReconstructPet(3, ownerID, pet.Attributes{Name: "Bella", Species: "dog", Breed: "Beagle"}, now, now)
}

func TestGenerateMealPlanUseCase_Execute(t *testing.T) {
	var stored *recommendation.Recommendation
	recs := &mockRecommendationRepository{
		CountSinceFunc: func(ctx context.Context, userID uint, kind usage.ActionType, since time.Time) (int, error) {
			return 1, nil
		},
		CreateFunc: func(ctx context.Context, r *recommendation.Recommendation) error {
			r.SetID(42)
			stored = r
			return nil
		},
	}
	var prompt string
	llm := &mockGenerator{
		GenerateMealPlanFunc: func(ctx context.Context, profile string) (*recommendation.MealPlan, error) {
			prompt = profile
			return &recommendation.MealPlan{DERKcal: 610, SafetyNotes: []string{"No grapes"}}, nil
		},
	}
	runner := newRunner(runnerDeps{recs: recs})
	uc := NewGenerateMealPlanUseCase(runner, petsWith(bella(7)), recs, llm, logger.NewNop())

	result, err := uc.Execute(context.Background(), GenerateCommand{UserID: 7, PetID: 3, IPAddress: "203.0.113.9"})

	require.NoError(t, err)
	assert.Equal(t, uint(42), result.RecommendationID)
	assert.Equal(t, 610, result.MealPlan.DERKcal)
	assert.Equal(t, 2, result.Usage.Used)
	assert.Equal(t, 1, result.Usage.Remaining)
	assert.True(t, strings.Contains(prompt, "Name: Bella"))

	require.NotNil(t, stored)
	assert.Equal(t, usage.ActionMeal, stored.Kind())
	assert.Equal(t, "203.0.113.9", stored.IPAddress())
	assert.JSONEq(t, `{"der_kcal":610,"nutrient_targets":{"protein_percent":"","fat_percent":"","carbs_percent":""},"options":null,"feeding_schedule":null,"safety_notes":["No grapes"]}`, string(stored.Payload()))
}

func TestGenerateHealthReportUseCase_Execute(t *testing.T) {
	runner := newRunner(runnerDeps{})
	uc := NewGenerateHealthReportUseCase(runner, petsWith(bella(7)), &mockRecommendationRepository{}, &mockGenerator{}, logger.NewNop())

	result, err := uc.Execute(context.Background(), GenerateCommand{UserID: 7, PetID: 3})

	require.NoError(t, err)
	assert.Equal(t, "Healthy adult", result.HealthReport.HealthSummary)
	assert.Equal(t, "health", result.Usage.Action)
	assert.Equal(t, 1, result.Usage.Limit)
}

func TestGenerateMealPlanUseCase_PetMustBelongToUser(t *testing.T) {
	tests := []struct {
		name string
		pets *mockPetRepository
	}{
		{"missing pet", petsWith(nil)},
		{"someone else's pet", petsWith(bella(99))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockGenerator{
				GenerateMealPlanFunc: func(ctx context.Context, profile string) (*recommendation.MealPlan, error) {
					t.Fatal("model must not be called")
					return nil, nil
				},
			}
			uc := NewGenerateMealPlanUseCase(newRunner(runnerDeps{}), tt.pets, &mockRecommendationRepository{}, llm, logger.NewNop())

			_, err := uc.Execute(context.Background(), GenerateCommand{UserID: 7, PetID: 3})
			assert.True(t, apperrors.IsNotFoundError(err))
		})
	}
}

func TestGenerateMealPlanUseCase_ModelFailureStoresNothing(t *testing.T) {
	recs := &mockRecommendationRepository{
		CreateFunc: func(ctx context.Context, r *recommendation.Recommendation) error {
			t.Fatal("nothing must be stored")
			return nil
		},
	}
	ledger := &mockLedgerRepository{
		IncrementFunc: func(ctx context.Context, recordID uint, action usage.ActionType) error {
			t.Fatal("ledger must not be incremented")
			return nil
		},
	}
	llm := &mockGenerator{
		GenerateMealPlanFunc: func(ctx context.Context, profile string) (*recommendation.MealPlan, error) {
			return nil, context.DeadlineExceeded
		},
	}
	runner := newRunner(runnerDeps{ledger: ledger, recs: recs})
	uc := NewGenerateMealPlanUseCase(runner, petsWith(bella(7)), recs, llm, logger.NewNop())

	_, err := uc.Execute(context.Background(), GenerateCommand{UserID: 7, PetID: 3})

	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, 500, appErr.Code)
	assert.False(t, errors.Is(err, context.DeadlineExceeded), "provider errors are not leaked")
}
