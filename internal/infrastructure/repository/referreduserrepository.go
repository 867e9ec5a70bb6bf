package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/mappers"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type ReferredUserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewReferredUserRepository(gdb *gorm.DB, logger logger.Interface) clinic.ReferredUserRepository {
	return &ReferredUserRepositoryImpl{db: gdb, logger: logger}
}

func (r *ReferredUserRepositoryImpl) Create(ctx context.Context, ru *clinic.ReferredUser) error {
	model := mappers.ReferredUserToModel(ru)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create referred user: %w", err)
	}
	ru.SetID(model.ID)
	return nil
}

func (r *ReferredUserRepositoryImpl) Update(ctx context.Context, ru *clinic.ReferredUser) error {
	model := mappers.ReferredUserToModel(ru)
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.ReferredUserModel{}).
		Where("id = ?", ru.ID()).
		Updates(map[string]any{
			"referral_code_id": model.ReferralCodeID,
			"user_id":          model.UserID,
			"email_capture":    model.EmailCapture,
			"pending_email":    model.PendingEmail,
			"status":           model.Status,
			"updated_at":       model.UpdatedAt,
		}).Error; err != nil {
		r.logger.Errorw("failed to update referred user", "error", err, "referred_user_id", ru.ID())
		return fmt.Errorf("failed to update referred user: %w", err)
	}
	return nil
}

func (r *ReferredUserRepositoryImpl) GetByID(ctx context.Context, id uint) (*clinic.ReferredUser, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *ReferredUserRepositoryImpl) ListByIDs(ctx context.Context, ids []uint) ([]*clinic.ReferredUser, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Order("id ASC"))
}

func (r *ReferredUserRepositoryImpl) FindByClinicAndUser(ctx context.Context, clinicID, userID uint) (*clinic.ReferredUser, error) {
	return r.first(ctx, "clinic_id = ? AND user_id = ?", clinicID, userID)
}

func (r *ReferredUserRepositoryImpl) FindByClinicAndEmail(ctx context.Context, clinicID uint, email string) (*clinic.ReferredUser, error) {
	return r.first(ctx, "clinic_id = ? AND pending_email = ?", clinicID, strings.ToLower(strings.TrimSpace(email)))
}

func (r *ReferredUserRepositoryImpl) FindByClinicAndVisitor(ctx context.Context, clinicID uint, visitorKey string) (*clinic.ReferredUser, error) {
	if visitorKey == "" {
		return nil, nil
	}
	return r.first(ctx, "clinic_id = ? AND visitor_key = ?", clinicID, visitorKey)
}

func (r *ReferredUserRepositoryImpl) ListByClinic(ctx context.Context, clinicID uint, limit int) ([]*clinic.ReferredUser, error) {
	q := db.GetTxFromContext(ctx, r.db).Where("clinic_id = ?", clinicID).Order("created_at DESC, id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return r.find(ctx, q)
}

type statusCount struct {
	Status string
	N      int64
}

type codeCount struct {
	ReferralCodeID uint
	N              int64
}

func (r *ReferredUserRepositoryImpl) Stats(ctx context.Context, clinicID uint, now time.Time) (*clinic.ReferralStats, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	base := func() *gorm.DB {
		return tx.Model(&models.ReferredUserModel{}).Where("clinic_id = ?", clinicID)
	}

	stats := &clinic.ReferralStats{CountsByCode: make(map[uint]int64)}

	var byStatus []statusCount
	if err := base().Select("status, COUNT(*) AS n").Group("status").Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to count referrals by status: %w", err)
	}
	for _, row := range byStatus {
		stats.Total += row.N
		switch clinic.Status(row.Status) {
		case clinic.StatusNew:
			stats.New = row.N
		case clinic.StatusActive:
			stats.Active = row.N
		case clinic.StatusInactive:
			stats.Inactive = row.N
		}
	}

	if err := base().Where("created_at >= ?", now.UTC().AddDate(0, 0, -30)).Count(&stats.Last30Days).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent referrals: %w", err)
	}
	if err := base().Where("created_at >= ?", now.UTC().AddDate(0, 0, -7)).Count(&stats.Last7Days).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent referrals: %w", err)
	}

	var byCode []codeCount
	if err := base().Select("referral_code_id, COUNT(*) AS n").
		Where("referral_code_id IS NOT NULL").
		Group("referral_code_id").
		Scan(&byCode).Error; err != nil {
		return nil, fmt.Errorf("failed to count referrals by code: %w", err)
	}
	for _, row := range byCode {
		stats.CountsByCode[row.ReferralCodeID] = row.N
	}
	return stats, nil
}

func (r *ReferredUserRepositoryImpl) first(ctx context.Context, query string, args ...any) (*clinic.ReferredUser, error) {
	var model models.ReferredUserModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, args...).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get referred user", "error", err)
		return nil, fmt.Errorf("failed to get referred user: %w", err)
	}
	return mappers.ReferredUserToEntity(&model), nil
}

func (r *ReferredUserRepositoryImpl) find(_ context.Context, q *gorm.DB) ([]*clinic.ReferredUser, error) {
	var ms []models.ReferredUserModel
	if err := q.Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list referred users: %w", err)
	}
	out := make([]*clinic.ReferredUser, 0, len(ms))
	for i := range ms {
		out = append(out, mappers.ReferredUserToEntity(&ms[i]))
	}
	return out, nil
}
