package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fammo-app/fammo/internal/shared/constants"
)

type AIRecommendationModel struct {
	ID          uint           `gorm:"primarykey"`
	UserID      uint           `gorm:"not null;index:idx_ai_rec_user_kind_created,priority:1"`
	Kind        string         `gorm:"size:20;not null;index:idx_ai_rec_user_kind_created,priority:2"`
	PetID       uint           `gorm:"not null;index:idx_ai_rec_pet"`
	Content     string         `gorm:"type:text"`
	ContentJSON datatypes.JSON `gorm:"type:json"`
	IPAddress   string         `gorm:"size:45"`
	CreatedAt   time.Time      `gorm:"index:idx_ai_rec_user_kind_created,priority:3"`
}

func (AIRecommendationModel) TableName() string {
	return constants.TableAIRecommendations
}
