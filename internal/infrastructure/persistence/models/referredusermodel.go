package models

import (
	"time"

	"github.com/fammo-app/fammo/internal/shared/constants"
)

// ReferredUserModel enforces one row per (clinic, user), per
// (clinic, visitor) and per (clinic, pending email). PendingEmail mirrors
// EmailCapture only while UserID is NULL. NULL values do not collide.
type ReferredUserModel struct {
	ID             uint    `gorm:"primarykey"`
	ClinicID       uint    `gorm:"not null;uniqueIndex:uk_referred_clinic_user,priority:1;uniqueIndex:uk_referred_clinic_visitor,priority:1;uniqueIndex:uk_referred_clinic_pending,priority:1;index:idx_referred_clinic_email,priority:1"`
	ReferralCodeID *uint   `gorm:"index:idx_referred_code"`
	UserID         *uint   `gorm:"uniqueIndex:uk_referred_clinic_user,priority:2"`
	EmailCapture   string  `gorm:"size:255;index:idx_referred_clinic_email,priority:2"`
	PendingEmail   *string `gorm:"size:255;uniqueIndex:uk_referred_clinic_pending,priority:2"`
	VisitorKey     *string `gorm:"size:64;uniqueIndex:uk_referred_clinic_visitor,priority:2"`
	Status         string  `gorm:"size:10;not null;default:NEW;index:idx_referred_status"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (ReferredUserModel) TableName() string {
	return constants.TableReferredUsers
}
