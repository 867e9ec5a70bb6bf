package models

import (
	"time"

	"github.com/fammo-app/fammo/internal/shared/constants"
)

type ProfileModel struct {
	ID                uint     `gorm:"primarykey"`
	UserID            uint     `gorm:"uniqueIndex:uk_profiles_user;not null"`
	FirstName         string   `gorm:"size:100"`
	LastName          string   `gorm:"size:100"`
	City              string   `gorm:"size:120"`
	PlanID            *uint    `gorm:"index:idx_profiles_plan"`
	Latitude          *float64 `gorm:"type:decimal(9,6)"`
	Longitude         *float64 `gorm:"type:decimal(9,6)"`
	LocationConsent   bool     `gorm:"not null;default:false;index:idx_profiles_consent"`
	LocationUpdatedAt *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (ProfileModel) TableName() string {
	return constants.TableProfiles
}
