package mappers

import (
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
)

// ClinicMapper converts between the clinic aggregate and its persistence model.
type ClinicMapper interface {
	ToEntity(model *models.ClinicModel) *clinic.Clinic
	ToModel(entity *clinic.Clinic) *models.ClinicModel
	ToEntities(models []*models.ClinicModel) []*clinic.Clinic
}

type clinicMapper struct{}

func NewClinicMapper() ClinicMapper {
	return &clinicMapper{}
}

func (m *clinicMapper) ToEntity(model *models.ClinicModel) *clinic.Clinic {
	if model == nil {
		return nil
	}
	tokenHash := ""
	if model.ConfirmationTokenHash != nil {
		tokenHash = *model.ConfirmationTokenHash
	}
	return clinic.ReconstructClinic(clinic.State{
		ID:          model.ID,
		OwnerUserID: model.OwnerUserID,
		Slug:        model.Slug,
		Details: clinic.Details{
			Name:            model.Name,
			Email:           model.Email,
			Phone:           model.Phone,
			Website:         model.Website,
			Address:         model.Address,
			City:            model.City,
			WorkingHours:    model.WorkingHours,
			Specializations: model.Specializations,
			Bio:             model.Bio,
			LogoURL:         model.LogoURL,
			Vet: clinic.VetProfile{
				Name:           model.VetName,
				Degrees:        model.VetDegrees,
				Certifications: model.VetCertifications,
			},
		},
		Latitude:              model.Latitude,
		Longitude:             model.Longitude,
		EmailConfirmed:        model.EmailConfirmed,
		AdminApproved:         model.AdminApproved,
		ConfirmationTokenHash: tokenHash,
		ConfirmationSentAt:    model.ConfirmationSentAt,
		CreatedAt:             model.CreatedAt,
		UpdatedAt:             model.UpdatedAt,
	})
}

func (m *clinicMapper) ToModel(c *clinic.Clinic) *models.ClinicModel {
	if c == nil {
		return nil
	}
	var tokenHash *string
	if h := c.ConfirmationTokenHash(); h != "" {
		tokenHash = &h
	}
	vet := c.Vet()
	return &models.ClinicModel{
		ID:                    c.ID(),
		OwnerUserID:           c.OwnerUserID(),
		Name:                  c.Name(),
		Slug:                  c.Slug(),
		Email:                 c.Email(),
		Phone:                 c.Phone(),
		Website:               c.Website(),
		Address:               c.Address(),
		City:                  c.City(),
		WorkingHours:          c.WorkingHours(),
		Specializations:       c.Specializations(),
		Bio:                   c.Bio(),
		LogoURL:               c.LogoURL(),
		Latitude:              c.Latitude(),
		Longitude:             c.Longitude(),
		EmailConfirmed:        c.EmailConfirmed(),
		AdminApproved:         c.AdminApproved(),
		IsVerified:            c.IsVerified(),
		ConfirmationTokenHash: tokenHash,
		ConfirmationSentAt:    c.ConfirmationSentAt(),
		VetName:               vet.Name,
		VetDegrees:            vet.Degrees,
		VetCertifications:     vet.Certifications,
		CreatedAt:             c.CreatedAt(),
		UpdatedAt:             c.UpdatedAt(),
	}
}

func (m *clinicMapper) ToEntities(ms []*models.ClinicModel) []*clinic.Clinic {
	out := make([]*clinic.Clinic, 0, len(ms))
	for _, model := range ms {
		out = append(out, m.ToEntity(model))
	}
	return out
}
