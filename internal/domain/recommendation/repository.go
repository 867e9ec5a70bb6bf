package recommendation

import (
	"context"
	"time"

	"github.com/fammo-app/fammo/internal/domain/usage"
)

type Repository interface {
	Create(ctx context.Context, r *Recommendation) error
	// CountSince counts the user's recommendations of kind created at or after since.
	CountSince(ctx context.Context, userID uint, kind usage.ActionType, since time.Time) (int, error)
	ListByUser(ctx context.Context, userID uint, limit int) ([]*Recommendation, error)
}

// Generator is the language model collaborator. profile is the pet's plain
// text profile. Implementations must honour ctx cancellation.
type Generator interface {
	GenerateMealPlan(ctx context.Context, profile string) (*MealPlan, error)
	GenerateHealthReport(ctx context.Context, profile string) (*HealthReport, error)
}
