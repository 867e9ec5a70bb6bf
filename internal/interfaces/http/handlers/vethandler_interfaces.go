package handlers

import (
	"context"

	clinicdto "github.com/fammo-app/fammo/internal/application/clinic/dto"
	clinicusecases "github.com/fammo-app/fammo/internal/application/clinic/usecases"
	refdto "github.com/fammo-app/fammo/internal/application/referral/dto"
	refusecases "github.com/fammo-app/fammo/internal/application/referral/usecases"
)

// Use case interfaces for VetHandler

type findNearbyClinicsUseCase interface {
	Execute(ctx context.Context, query clinicusecases.FindNearbyClinicsQuery) (*clinicdto.NearbyClinicsDTO, error)
}

type findClinicsByCityUseCase interface {
	Execute(ctx context.Context, query clinicusecases.FindClinicsByCityQuery) (*clinicdto.CityClinicsDTO, error)
}

type trackReferralUseCase interface {
	Execute(ctx context.Context, cmd refusecases.TrackReferralCommand) (*refdto.ReferredUserDTO, error)
}

type recordReferralVisitUseCase interface {
	Execute(ctx context.Context, cmd refusecases.RecordReferralVisitCommand) (*refdto.LandingDTO, error)
}

type registerClinicUseCase interface {
	Execute(ctx context.Context, cmd clinicusecases.RegisterClinicCommand) (*clinicusecases.RegisterClinicResult, error)
}

type confirmClinicEmailUseCase interface {
	Execute(ctx context.Context, cmd clinicusecases.ConfirmClinicEmailCommand) (*clinicusecases.ConfirmClinicEmailResult, error)
}

type getClinicDashboardUseCase interface {
	Execute(ctx context.Context, query clinicusecases.GetClinicDashboardQuery) (*clinicdto.DashboardDTO, error)
}

type issueReferralCodeUseCase interface {
	Execute(ctx context.Context, cmd refusecases.IssueReferralCodeCommand) (*refdto.ReferralCodeDTO, error)
}

type deactivateReferralCodeUseCase interface {
	Execute(ctx context.Context, cmd refusecases.DeactivateReferralCodeCommand) error
}
