package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fammo-app/fammo/internal/domain/pet"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type PetRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewPetRepository(gdb *gorm.DB, logger logger.Interface) pet.Repository {
	return &PetRepositoryImpl{db: gdb, logger: logger}
}

func (r *PetRepositoryImpl) Create(ctx context.Context, p *pet.Pet) error {
	attrs, err := json.Marshal(p.Attributes())
	if err != nil {
		return fmt.Errorf("failed to encode pet attributes: %w", err)
	}
	model := &models.PetModel{
		OwnerID:    p.OwnerID(),
		Name:       p.Name(),
		Attributes: datatypes.JSON(attrs),
		CreatedAt:  p.CreatedAt(),
		UpdatedAt:  p.UpdatedAt(),
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create pet", "error", err, "owner_id", p.OwnerID())
		return fmt.Errorf("failed to create pet: %w", err)
	}
	p.SetID(model.ID)
	return nil
}

func (r *PetRepositoryImpl) GetByID(ctx context.Context, id uint) (*pet.Pet, error) {
	var model models.PetModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return toPet(&model)
}

func (r *PetRepositoryImpl) ListByOwner(ctx context.Context, ownerID uint) ([]*pet.Pet, error) {
	var ms []models.PetModel
	if err := db.GetTxFromContext(ctx, r.db).Where("owner_id = ?", ownerID).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	out := make([]*pet.Pet, 0, len(ms))
	for i := range ms {
		p, err := toPet(&ms[i])
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PetRepositoryImpl) CountByOwner(ctx context.Context, ownerID uint) (int64, error) {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).Model(&models.PetModel{}).Where("owner_id = ?", ownerID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count pets: %w", err)
	}
	return n, nil
}

func toPet(m *models.PetModel) (*pet.Pet, error) {
	var attrs pet.Attributes
	if len(m.Attributes) > 0 {
		if err := json.Unmarshal(m.Attributes, &attrs); err != nil {
			return nil, fmt.Errorf("failed to decode pet %d attributes: %w", m.ID, err)
		}
	}
	attrs.Name = m.Name
	return pet.ReconstructPet(m.ID, m.OwnerID, attrs, m.CreatedAt, m.UpdatedAt), nil
}
