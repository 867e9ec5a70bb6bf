package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/fammo-app/fammo/internal/shared/constants"
)

// PetModel stores the pet name in its own column for listing and the rest of
// the attributes as JSON.
type PetModel struct {
	ID         uint           `gorm:"primarykey"`
	OwnerID    uint           `gorm:"index:idx_pets_owner;not null"`
	Name       string         `gorm:"size:100;not null"`
	Attributes datatypes.JSON `gorm:"type:json"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (PetModel) TableName() string {
	return constants.TablePets
}
