package models

import (
	"time"

	"github.com/fammo-app/fammo/internal/shared/constants"
)

type ReferralCodeModel struct {
	ID        uint   `gorm:"primarykey"`
	ClinicID  uint   `gorm:"not null;index:idx_referral_codes_clinic_active,priority:1"`
	Code      string `gorm:"uniqueIndex:uk_referral_codes_code;size:40;not null"`
	IsActive  bool   `gorm:"not null;default:true;index:idx_referral_codes_clinic_active,priority:2"`
	CreatedAt time.Time
}

func (ReferralCodeModel) TableName() string {
	return constants.TableReferralCodes
}
