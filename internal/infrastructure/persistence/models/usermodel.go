package models

import (
	"time"

	"github.com/fammo-app/fammo/internal/shared/constants"
)

// UserModel is the persistence model for accounts.
type UserModel struct {
	ID                  uint      `gorm:"primarykey"`
	Email               string    `gorm:"uniqueIndex:uk_users_email;size:255;not null"`
	PasswordHash        string    `gorm:"size:255;not null"`
	Role                string    `gorm:"size:20;not null;default:user"`
	IsActive            bool      `gorm:"not null;default:false"`
	ActivationTokenHash *string   `gorm:"uniqueIndex:uk_users_activation_token;size:64"`
	ActivationExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
