package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/application/clinic/dto"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/geo"
	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const DefaultReportRadiusKm = 10.0

type NearbyUsersReportQuery struct {
	ClinicID uint
	RadiusKm float64
}

// NearbyUsersReportUseCase lists users who shared their location within a
// radius of a clinic. Staff only.
type NearbyUsersReportUseCase struct {
	clinics  clinic.ClinicRepository
	profiles profile.Repository
	users    user.Repository
	logger   logger.Interface
}

func NewNearbyUsersReportUseCase(
	clinics clinic.ClinicRepository,
	profiles profile.Repository,
	users user.Repository,
	logger logger.Interface,
) *NearbyUsersReportUseCase {
	return &NearbyUsersReportUseCase{clinics: clinics, profiles: profiles, users: users, logger: logger}
}

func (uc *NearbyUsersReportUseCase) Execute(ctx context.Context, query NearbyUsersReportQuery) (*dto.NearbyUsersReportDTO, error) {
	radius := query.RadiusKm
	if radius <= 0 {
		radius = DefaultReportRadiusKm
	}

	c, err := uc.clinics.GetByID(ctx, query.ClinicID)
	if err != nil {
		uc.logger.Errorw("failed to load clinic", "error", err, "clinic_id", query.ClinicID)
		return nil, fmt.Errorf("failed to load clinic: %w", err)
	}
	if c == nil {
		return nil, errors.NewNotFoundError("clinic not found")
	}

	report := &dto.NearbyUsersReportDTO{
		Clinic:   dto.ToClinicDTO(c),
		RadiusKm: radius,
		Users:    []*dto.NearbyUserDTO{},
	}
	origin, ok := c.Location()
	if !ok {
		return report, nil
	}
	report.ClinicHasCoords = true

	profiles, err := uc.profiles.ListSharingLocation(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list located profiles", "error", err)
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	ranked := geo.WithinRadius(origin, radius, profiles, (*profile.Profile).Location)
	if len(ranked) == 0 {
		return report, nil
	}

	ids := make([]uint, len(ranked))
	for i, r := range ranked {
		ids[i] = r.Item.UserID()
	}
	accounts, err := uc.users.GetByIDs(ctx, ids)
	if err != nil {
		uc.logger.Errorw("failed to load users for report", "error", err)
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	emails := make(map[uint]string, len(accounts))
	for _, u := range accounts {
		emails[u.ID()] = u.Email()
	}

	for _, r := range ranked {
		p := r.Item
		report.Users = append(report.Users, &dto.NearbyUserDTO{
			UserID:            p.UserID(),
			Email:             emails[p.UserID()],
			FirstName:         p.FirstName(),
			LastName:          p.LastName(),
			City:              p.City(),
			DistanceKm:        r.DistanceKm,
			LocationUpdatedAt: p.LocationUpdatedAt(),
		})
	}
	return report, nil
}
