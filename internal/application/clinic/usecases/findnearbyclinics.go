package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/fammo-app/fammo/internal/application/clinic/dto"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/geo"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const (
	DefaultClinicRadiusKm = 50.0
	DefaultCityRadiusKm   = 10.0
)

// FindNearbyClinicsQuery searches publicly verified clinics around a point.
// A nil radius falls back to DefaultClinicRadiusKm; zero matches only the
// exact origin.
type FindNearbyClinicsQuery struct {
	Latitude  float64
	Longitude float64
	RadiusKm  *float64
}

type FindNearbyClinicsUseCase struct {
	clinics clinic.ClinicRepository
	logger  logger.Interface
}

func NewFindNearbyClinicsUseCase(clinics clinic.ClinicRepository, logger logger.Interface) *FindNearbyClinicsUseCase {
	return &FindNearbyClinicsUseCase{clinics: clinics, logger: logger}
}

func (uc *FindNearbyClinicsUseCase) Execute(ctx context.Context, query FindNearbyClinicsQuery) (*dto.NearbyClinicsDTO, error) {
	origin := geo.Point{Lat: query.Latitude, Lng: query.Longitude}
	if err := origin.Validate(); err != nil {
		return nil, errors.NewValidationError("Invalid coordinates")
	}
	radius := DefaultClinicRadiusKm
	if query.RadiusKm != nil {
		radius = *query.RadiusKm
	}
	if radius < 0 {
		return nil, errors.NewValidationError("Radius must not be negative")
	}

	candidates, err := uc.clinics.ListSearchable(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list searchable clinics", "error", err)
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}

	ranked := geo.WithinRadius(origin, radius, candidates, (*clinic.Clinic).Location)
	return &dto.NearbyClinicsDTO{
		Count:   len(ranked),
		Clinics: dto.ToRankedClinicDTOs(ranked),
		SearchParams: dto.NearbySearchParams{
			Latitude:  query.Latitude,
			Longitude: query.Longitude,
			RadiusKm:  radius,
		},
	}, nil
}

// FindClinicsByCityQuery matches the city as a case-insensitive substring.
// RadiusKm is echoed back and does not filter.
type FindClinicsByCityQuery struct {
	City     string
	RadiusKm float64
}

type FindClinicsByCityUseCase struct {
	clinics clinic.ClinicRepository
	logger  logger.Interface
}

func NewFindClinicsByCityUseCase(clinics clinic.ClinicRepository, logger logger.Interface) *FindClinicsByCityUseCase {
	return &FindClinicsByCityUseCase{clinics: clinics, logger: logger}
}

func (uc *FindClinicsByCityUseCase) Execute(ctx context.Context, query FindClinicsByCityQuery) (*dto.CityClinicsDTO, error) {
	city := strings.TrimSpace(query.City)
	if city == "" {
		return nil, errors.NewValidationError("City name is required")
	}
	radius := query.RadiusKm
	if radius <= 0 {
		radius = DefaultCityRadiusKm
	}

	clinics, err := uc.clinics.ListByCity(ctx, city)
	if err != nil {
		uc.logger.Errorw("failed to list clinics by city", "error", err, "city", city)
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}

	return &dto.CityClinicsDTO{
		Count:        len(clinics),
		Clinics:      dto.ToClinicDTOs(clinics),
		SearchParams: dto.CitySearchParams{City: city, RadiusKm: radius},
	}, nil
}
