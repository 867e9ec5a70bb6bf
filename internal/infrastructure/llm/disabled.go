package llm

import (
	"context"
	"errors"

	"github.com/fammo-app/fammo/internal/domain/recommendation"
)

var ErrNotConfigured = errors.New("llm generator is not configured")

// DisabledGenerator stands in when no API key is set, so the server still
// starts and AI requests fail before any quota is charged.
type DisabledGenerator struct{}

func (DisabledGenerator) GenerateMealPlan(context.Context, string) (*recommendation.MealPlan, error) {
	return nil, ErrNotConfigured
}

func (DisabledGenerator) GenerateHealthReport(context.Context, string) (*recommendation.HealthReport, error) {
	return nil, ErrNotConfigured
}
