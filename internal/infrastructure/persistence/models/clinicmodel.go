package models

import (
	"time"

	"github.com/fammo-app/fammo/internal/shared/constants"
)

type ClinicModel struct {
	ID                    uint     `gorm:"primarykey"`
	OwnerUserID           *uint    `gorm:"uniqueIndex:uk_clinics_owner"`
	Name                  string   `gorm:"uniqueIndex:uk_clinics_name;size:160;not null"`
	Slug                  string   `gorm:"uniqueIndex:uk_clinics_slug;size:190;not null"`
	Email                 string   `gorm:"size:255;not null"`
	Phone                 string   `gorm:"size:50"`
	Website               string   `gorm:"size:255"`
	Address               string   `gorm:"size:255"`
	City                  string   `gorm:"size:120;index:idx_clinics_city"`
	WorkingHours          string   `gorm:"size:255"`
	Specializations       string   `gorm:"size:255"`
	Bio                   string   `gorm:"type:text"`
	LogoURL               string   `gorm:"size:255"`
	Latitude              *float64 `gorm:"type:decimal(9,6)"`
	Longitude             *float64 `gorm:"type:decimal(9,6)"`
	EmailConfirmed        bool     `gorm:"not null;default:false;index:idx_clinics_gates,priority:1"`
	AdminApproved         bool     `gorm:"not null;default:false;index:idx_clinics_gates,priority:2"`
	IsVerified            bool     `gorm:"not null;default:false"`
	ConfirmationTokenHash *string  `gorm:"size:64"`
	ConfirmationSentAt    *time.Time
	VetName               string `gorm:"size:120"`
	VetDegrees            string `gorm:"size:255"`
	VetCertifications     string `gorm:"size:255"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func (ClinicModel) TableName() string {
	return constants.TableClinics
}
