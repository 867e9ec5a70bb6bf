package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/application/clinic/dto"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// GeocodeClinicsCommand back-fills coordinates. Force re-geocodes clinics
// that already have them; Limit <= 0 processes everything.
type GeocodeClinicsCommand struct {
	Force bool
	Limit int
}

type GeocodeClinicsUseCase struct {
	clinics    clinic.ClinicRepository
	geocoder   Geocoder
	batchLimit int
	logger     logger.Interface
}

func NewGeocodeClinicsUseCase(clinics clinic.ClinicRepository, geocoder Geocoder, logger logger.Interface) *GeocodeClinicsUseCase {
	return &GeocodeClinicsUseCase{clinics: clinics, geocoder: geocoder, logger: logger}
}

// WithBatchLimit caps how many clinics one scheduled run may geocode.
func (uc *GeocodeClinicsUseCase) WithBatchLimit(limit int) *GeocodeClinicsUseCase {
	uc.batchLimit = limit
	return uc
}

func (uc *GeocodeClinicsUseCase) Execute(ctx context.Context, cmd GeocodeClinicsCommand) (*dto.GeocodeResultDTO, error) {
	pending, err := uc.clinics.ListForGeocoding(ctx, cmd.Force, cmd.Limit)
	if err != nil {
		uc.logger.Errorw("failed to list clinics for geocoding", "error", err)
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}

	result := &dto.GeocodeResultDTO{}
	for _, c := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Processed++

		p, found := uc.geocoder.Geocode(ctx, c.Address(), c.City())
		metrics.RecordGeocode(found)
		if !found {
			result.Failed++
			uc.logger.Infow("no coordinates found for clinic", "clinic_id", c.ID(), "city", c.City())
			continue
		}
		if err := c.SetCoordinates(p); err != nil {
			result.Failed++
			uc.logger.Warnw("geocoder returned invalid coordinates", "error", err, "clinic_id", c.ID())
			continue
		}
		if err := uc.clinics.Update(ctx, c); err != nil {
			uc.logger.Errorw("failed to save clinic coordinates", "error", err, "clinic_id", c.ID())
			return result, fmt.Errorf("failed to save clinic %d: %w", c.ID(), err)
		}
		result.Updated++
	}

	uc.logger.Infow("clinic geocoding finished",
		"processed", result.Processed,
		"updated", result.Updated,
		"failed", result.Failed,
	)
	return result, nil
}

// RunBatch geocodes clinics still missing coordinates for the scheduler.
func (uc *GeocodeClinicsUseCase) RunBatch(ctx context.Context) (int, error) {
	result, err := uc.Execute(ctx, GeocodeClinicsCommand{Limit: uc.batchLimit})
	if result == nil {
		return 0, err
	}
	return result.Updated, err
}
