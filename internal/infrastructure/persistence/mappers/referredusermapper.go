package mappers

import (
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
)

func ReferredUserToEntity(model *models.ReferredUserModel) *clinic.ReferredUser {
	if model == nil {
		return nil
	}
	visitor := ""
	if model.VisitorKey != nil {
		visitor = *model.VisitorKey
	}
	return clinic.ReconstructReferredUser(clinic.ReferredUserState{
		ID:             model.ID,
		ClinicID:       model.ClinicID,
		ReferralCodeID: model.ReferralCodeID,
		UserID:         model.UserID,
		EmailCapture:   model.EmailCapture,
		VisitorKey:     visitor,
		Status:         clinic.Status(model.Status),
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	})
}

func ReferredUserToModel(r *clinic.ReferredUser) *models.ReferredUserModel {
	var visitor, pending *string
	if v := r.VisitorKey(); v != "" {
		visitor = &v
	}
	if e := r.EmailCapture(); e != "" && r.UserID() == nil {
		pending = &e
	}
	return &models.ReferredUserModel{
		ID:             r.ID(),
		ClinicID:       r.ClinicID(),
		ReferralCodeID: r.ReferralCodeID(),
		UserID:         r.UserID(),
		EmailCapture:   r.EmailCapture(),
		PendingEmail:   pending,
		VisitorKey:     visitor,
		Status:         r.Status().String(),
		CreatedAt:      r.CreatedAt(),
		UpdatedAt:      r.UpdatedAt(),
	}
}

func ReferralCodeToEntity(model *models.ReferralCodeModel) *clinic.ReferralCode {
	if model == nil {
		return nil
	}
	return clinic.ReconstructReferralCode(model.ID, model.ClinicID, model.Code, model.IsActive, model.CreatedAt)
}

func ReferralCodeToModel(c *clinic.ReferralCode) *models.ReferralCodeModel {
	return &models.ReferralCodeModel{
		ID:        c.ID(),
		ClinicID:  c.ClinicID(),
		Code:      c.Code(),
		IsActive:  c.IsActive(),
		CreatedAt: c.CreatedAt(),
	}
}
