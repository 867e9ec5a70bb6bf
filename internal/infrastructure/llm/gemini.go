// Package llm generates meal plans and health reports with Gemini using
// structured JSON output.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/fammo-app/fammo/internal/domain/recommendation"
	sharedConfig "github.com/fammo-app/fammo/internal/shared/config"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const (
	defaultModel   = "gemini-1.5-flash"
	defaultTimeout = 60 * time.Second

	mealPlanPrompt = "You are a professional pet nutritionist. Based on the pet profile below, generate a detailed one-day meal plan. " +
		"Provide practical, safe, and nutritionally appropriate recommendations.\n\nPet Profile:\n"
	healthReportPrompt = "You are a professional pet health consultant. Based on the pet profile below, generate a comprehensive health insight report. " +
		"Be informative, concise, and provide actionable recommendations.\n\nPet Profile:\n"
)

var ErrEmptyResponse = errors.New("model returned no content")

// completer sends one prompt constrained to schema and returns the raw JSON text.
type completer interface {
	complete(ctx context.Context, schema *genai.Schema, prompt string) (string, error)
}

var _ recommendation.Generator = (*GeminiGenerator)(nil)

type GeminiGenerator struct {
	client  *genai.Client
	backend completer
	timeout time.Duration
	logger  logger.Interface
}

func NewGeminiGenerator(ctx context.Context, cfg sharedConfig.LLMConfig, log logger.Interface) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("llm api key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultModel
	}
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &GeminiGenerator{
		client:  client,
		backend: &geminiCompleter{client: client, model: modelName},
		timeout: timeout,
		logger:  log,
	}, nil
}

func (g *GeminiGenerator) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *GeminiGenerator) GenerateMealPlan(ctx context.Context, profile string) (*recommendation.MealPlan, error) {
	var plan recommendation.MealPlan
	if err := g.generate(ctx, mealPlanSchema, mealPlanPrompt+profile, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (g *GeminiGenerator) GenerateHealthReport(ctx context.Context, profile string) (*recommendation.HealthReport, error) {
	var report recommendation.HealthReport
	if err := g.generate(ctx, healthReportSchema, healthReportPrompt+profile, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (g *GeminiGenerator) generate(ctx context.Context, schema *genai.Schema, prompt string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := g.backend.complete(ctx, schema, prompt)
	if err != nil {
		g.logger.Warnw("llm request failed", "error", err, "duration", time.Since(start))
		return fmt.Errorf("llm request failed: %w", err)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrEmptyResponse
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		g.logger.Warnw("llm returned malformed json", "error", err)
		return fmt.Errorf("decode llm response: %w", err)
	}

	g.logger.Debugw("llm request completed", "duration", time.Since(start))
	return nil
}

type geminiCompleter struct {
	client *genai.Client
	model  string
}

func (c *geminiCompleter) complete(ctx context.Context, schema *genai.Schema, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schema

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
