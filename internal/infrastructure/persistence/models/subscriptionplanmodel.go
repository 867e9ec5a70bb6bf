package models

import (
	"time"

	"github.com/fammo-app/fammo/internal/shared/constants"
)

type SubscriptionPlanModel struct {
	ID                 uint   `gorm:"primarykey"`
	Tier               string `gorm:"uniqueIndex:uk_plans_tier;size:20;not null"`
	Name               string `gorm:"size:100;not null"`
	Description        string `gorm:"type:text"`
	PriceCents         int64  `gorm:"not null;default:0"`
	MonthlyMealLimit   int    `gorm:"not null;default:3"`
	MonthlyHealthLimit int    `gorm:"not null;default:1"`
	UnlimitedMeals     bool   `gorm:"not null;default:false"`
	UnlimitedHealth    bool   `gorm:"not null;default:false"`
	IsActive           bool   `gorm:"not null;default:true"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (SubscriptionPlanModel) TableName() string {
	return constants.TableSubscriptionPlans
}
