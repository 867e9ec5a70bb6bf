package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/authorization"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserRepository(gdb *gorm.DB, logger logger.Interface) user.Repository {
	return &UserRepositoryImpl{db: gdb, logger: logger}
}

func (r *UserRepositoryImpl) Create(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return user.ErrEmailTaken
		}
		r.logger.Errorw("failed to create user", "error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}
	u.SetID(model.ID)
	return nil
}

func (r *UserRepositoryImpl) Update(ctx context.Context, u *user.User) error {
	model := toUserModel(u)
	result := db.GetTxFromContext(ctx, r.db).Model(&models.UserModel{}).Where("id = ?", u.ID()).Updates(map[string]any{
		"email":                 model.Email,
		"password_hash":         model.PasswordHash,
		"role":                  model.Role,
		"is_active":             model.IsActive,
		"activation_token_hash": model.ActivationTokenHash,
		"activation_expires_at": model.ActivationExpiresAt,
		"updated_at":            model.UpdatedAt,
	})
	if result.Error != nil {
		r.logger.Errorw("failed to update user", "error", result.Error, "user_id", u.ID())
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, id uint) (*user.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepositoryImpl) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", user.NormalizeEmail(email))
}

func (r *UserRepositoryImpl) GetByActivationTokenHash(ctx context.Context, hash string) (*user.User, error) {
	if hash == "" {
		return nil, nil
	}
	return r.first(ctx, "activation_token_hash = ?", hash)
}

func (r *UserRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ms []models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where("id IN ?", ids).Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	out := make([]*user.User, 0, len(ms))
	for i := range ms {
		out = append(out, toUser(&ms[i]))
	}
	return out, nil
}

func (r *UserRepositoryImpl) first(ctx context.Context, query string, arg any) (*user.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user", "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUser(&model), nil
}

func toUserModel(u *user.User) *models.UserModel {
	var token *string
	if h := u.ActivationTokenHash(); h != "" {
		token = &h
	}
	return &models.UserModel{
		ID:                  u.ID(),
		Email:               u.Email(),
		PasswordHash:        u.PasswordHash(),
		Role:                u.Role().String(),
		IsActive:            u.IsActive(),
		ActivationTokenHash: token,
		ActivationExpiresAt: u.ActivationExpiresAt(),
		CreatedAt:           u.CreatedAt(),
		UpdatedAt:           u.UpdatedAt(),
	}
}

func toUser(m *models.UserModel) *user.User {
	token := ""
	if m.ActivationTokenHash != nil {
		token = *m.ActivationTokenHash
	}
	return user.ReconstructUser(user.State{
		ID:                  m.ID,
		Email:               m.Email,
		PasswordHash:        m.PasswordHash,
		Role:                authorization.UserRole(m.Role),
		IsActive:            m.IsActive,
		ActivationTokenHash: token,
		ActivationExpiresAt: m.ActivationExpiresAt,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	})
}
