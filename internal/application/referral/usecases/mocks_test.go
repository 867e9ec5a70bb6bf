package usecases

import (
	"context"

	"github.com/fammo-app/fammo/internal/domain/clinic"
)

type mockReferralCodeRepository struct {
	CreateFunc          func(ctx context.Context, code *clinic.ReferralCode) error
	UpdateFunc          func(ctx context.Context, code *clinic.ReferralCode) error
	GetByIDFunc         func(ctx context.Context, id uint) (*clinic.ReferralCode, error)
	GetActiveByCodeFunc func(ctx context.Context, code string) (*clinic.ReferralCode, error)
	HasActiveCodeFunc   func(ctx context.Context, clinicID uint) (bool, error)
	ListByClinicFunc    func(ctx context.Context, clinicID uint) ([]*clinic.ReferralCode, error)
}

func (m *mockReferralCodeRepository) Create(ctx context.Context, code *clinic.ReferralCode) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, code)
	}
	return nil
}

func (m *mockReferralCodeRepository) Update(ctx context.Context, code *clinic.ReferralCode) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, code)
	}
	return nil
}

func (m *mockReferralCodeRepository) GetByID(ctx context.Context, id uint) (*clinic.ReferralCode, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockReferralCodeRepository) GetActiveByCode(ctx context.Context, code string) (*clinic.ReferralCode, error) {
	if m.GetActiveByCodeFunc != nil {
		return m.GetActiveByCodeFunc(ctx, code)
	}
	return nil, nil
}

func (m *mockReferralCodeRepository) HasActiveCode(ctx context.Context, clinicID uint) (bool, error) {
	if m.HasActiveCodeFunc != nil {
		return m.HasActiveCodeFunc(ctx, clinicID)
	}
	return false, nil
}

func (m *mockReferralCodeRepository) ListByClinic(ctx context.Context, clinicID uint) ([]*clinic.ReferralCode, error) {
	if m.ListByClinicFunc != nil {
		return m.ListByClinicFunc(ctx, clinicID)
	}
	return nil, nil
}
