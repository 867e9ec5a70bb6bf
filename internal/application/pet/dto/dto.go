package dto

import (
	"time"

	"github.com/fammo-app/fammo/internal/domain/pet"
)

type PetDTO struct {
	ID        uint           `json:"id"`
	Name      string         `json:"name"`
	Profile   pet.Attributes `json:"profile"`
	CreatedAt time.Time      `json:"created_at"`
}

// WizardStateDTO tells the client which step to render next.
type WizardStateDTO struct {
	Token     string         `json:"token"`
	Step      string         `json:"step,omitempty"`
	Steps     []string       `json:"steps"`
	Completed bool           `json:"completed"`
	Draft     pet.Attributes `json:"draft"`
}

func ToPetDTO(p *pet.Pet) *PetDTO {
	if p == nil {
		return nil
	}
	return &PetDTO{
		ID:        p.ID(),
		Name:      p.Name(),
		Profile:   p.Attributes(),
		CreatedAt: p.CreatedAt(),
	}
}

func ToPetDTOs(pets []*pet.Pet) []*PetDTO {
	out := make([]*PetDTO, 0, len(pets))
	for _, p := range pets {
		out = append(out, ToPetDTO(p))
	}
	return out
}
