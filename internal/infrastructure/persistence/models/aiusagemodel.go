package models

import (
	"time"

	"github.com/fammo-app/fammo/internal/shared/constants"
)

// AIUsageModel is the per-user ledger row. The unique key is on user_id only:
// the month column moves forward in place.
type AIUsageModel struct {
	ID         uint      `gorm:"primarykey"`
	UserID     uint      `gorm:"uniqueIndex:uk_ai_usage_user;not null"`
	Month      time.Time `gorm:"type:date;not null;index:idx_ai_usage_month"`
	MealUsed   int       `gorm:"not null;default:0"`
	HealthUsed int       `gorm:"not null;default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (AIUsageModel) TableName() string {
	return constants.TableAIUsage
}
