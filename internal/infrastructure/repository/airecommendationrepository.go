package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type AIRecommendationRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAIRecommendationRepository(gdb *gorm.DB, logger logger.Interface) recommendation.Repository {
	return &AIRecommendationRepositoryImpl{db: gdb, logger: logger}
}

func (r *AIRecommendationRepositoryImpl) Create(ctx context.Context, rec *recommendation.Recommendation) error {
	model := &models.AIRecommendationModel{
		UserID:      rec.UserID(),
		PetID:       rec.PetID(),
		Kind:        rec.Kind().String(),
		Content:     rec.Content(),
		ContentJSON: datatypes.JSON(rec.Payload()),
		IPAddress:   rec.IPAddress(),
		CreatedAt:   rec.CreatedAt(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create recommendation", "error", err, "user_id", rec.UserID())
		return fmt.Errorf("failed to create recommendation: %w", err)
	}
	rec.SetID(model.ID)
	return nil
}

func (r *AIRecommendationRepositoryImpl) CountSince(ctx context.Context, userID uint, kind usage.ActionType, since time.Time) (int, error) {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.AIRecommendationModel{}).
		Where("user_id = ? AND kind = ? AND created_at >= ?", userID, kind.String(), since.UTC()).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count recommendations: %w", err)
	}
	return int(n), nil
}

func (r *AIRecommendationRepositoryImpl) ListByUser(ctx context.Context, userID uint, limit int) ([]*recommendation.Recommendation, error) {
	if limit <= 0 {
		limit = 50
	}
	var ms []models.AIRecommendationModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	out := make([]*recommendation.Recommendation, 0, len(ms))
	for _, m := range ms {
		out = append(out, recommendation.Reconstruct(
			m.ID, m.UserID, m.PetID, usage.ActionType(m.Kind), m.Content, json.RawMessage(m.ContentJSON), m.IPAddress, m.CreatedAt,
		))
	}
	return out, nil
}
