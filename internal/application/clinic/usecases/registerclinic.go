package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/fammo-app/fammo/internal/application/clinic/dto"
	"github.com/fammo-app/fammo/internal/domain/clinic"
	"github.com/fammo-app/fammo/internal/domain/geo"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/infrastructure/token"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const (
	fallbackSlug  = "clinic"
	maxSlugSuffix = 1000
)

// RegisterClinicCommand registers a clinic. OwnerUserID is set for a
// signed-in caller; otherwise OwnerEmail and OwnerPassword create the
// owner account.
type RegisterClinicCommand struct {
	OwnerUserID   *uint
	OwnerEmail    string
	OwnerPassword string

	Name            string
	Email           string
	Phone           string
	Website         string
	Address         string
	City            string
	WorkingHours    string
	Specializations string
	Bio             string
	LogoURL         string
	Latitude        *float64
	Longitude       *float64

	VetName        string
	Degrees        string
	Certifications string
}

type RegisterClinicResult struct {
	Clinic    *dto.ClinicDetailDTO `json:"clinic"`
	EmailSent bool                 `json:"email_sent"`
}

type RegisterClinicUseCase struct {
	tx       db.Transactor
	clinics  clinic.ClinicRepository
	users    user.Repository
	hasher   user.PasswordHasher
	tokens   TokenGenerator
	email    EmailService
	geocoder Geocoder
	now      func() time.Time
	logger   logger.Interface
}

func NewRegisterClinicUseCase(
	tx db.Transactor,
	clinics clinic.ClinicRepository,
	users user.Repository,
	hasher user.PasswordHasher,
	tokens TokenGenerator,
	email EmailService,
	geocoder Geocoder,
	logger logger.Interface,
) *RegisterClinicUseCase {
	return &RegisterClinicUseCase{
		tx:       tx,
		clinics:  clinics,
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		email:    email,
		geocoder: geocoder,
		now:      biztime.NowUTC,
		logger:   logger,
	}
}

func (uc *RegisterClinicUseCase) Execute(ctx context.Context, cmd RegisterClinicCommand) (*RegisterClinicResult, error) {
	c, err := clinic.NewClinic(nil, clinic.Details{
		Name:            cmd.Name,
		Email:           cmd.Email,
		Phone:           cmd.Phone,
		Website:         cmd.Website,
		Address:         cmd.Address,
		City:            cmd.City,
		WorkingHours:    cmd.WorkingHours,
		Specializations: cmd.Specializations,
		Bio:             cmd.Bio,
		LogoURL:         cmd.LogoURL,
		Vet: clinic.VetProfile{
			Name:           strings.TrimSpace(cmd.VetName),
			Degrees:        strings.TrimSpace(cmd.Degrees),
			Certifications: strings.TrimSpace(cmd.Certifications),
		},
	})
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if cmd.OwnerUserID == nil {
		if err := validateOwnerCredentials(cmd.OwnerEmail, cmd.OwnerPassword); err != nil {
			return nil, err
		}
	}

	if err := uc.locate(ctx, c, cmd.Latitude, cmd.Longitude); err != nil {
		return nil, err
	}

	plainToken, tokenHash, err := uc.tokens.Generate(token.PrefixConfirmation)
	if err != nil {
		uc.logger.Errorw("failed to generate confirmation token", "error", err)
		return nil, fmt.Errorf("failed to generate confirmation token: %w", err)
	}
	c.IssueConfirmationToken(tokenHash, uc.now())

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		ownerID, err := uc.resolveOwner(txCtx, cmd)
		if err != nil {
			return err
		}
		c.AssignOwner(ownerID)

		slugValue, err := uc.uniqueSlug(txCtx, c.Name())
		if err != nil {
			return err
		}
		c.SetSlug(slugValue)

		return uc.clinics.Create(txCtx, c)
	})
	if err != nil {
		if errors.IsAppError(err) {
			return nil, err
		}
		uc.logger.Errorw("failed to register clinic", "error", err, "name", c.Name())
		return nil, fmt.Errorf("failed to register clinic: %w", err)
	}

	emailSent := true
	if err := uc.email.SendClinicConfirmationEmail(c.Email(), c.Name(), c.ID(), plainToken); err != nil {
		emailSent = false
		uc.logger.Warnw("failed to send clinic confirmation email", "error", err, "clinic_id", c.ID())
	}

	uc.logger.Infow("clinic registered",
		"clinic_id", c.ID(),
		"slug", c.Slug(),
		"has_coordinates", c.HasCoordinates(),
	)
	return &RegisterClinicResult{Clinic: dto.ToClinicDetailDTO(c), EmailSent: emailSent}, nil
}

// locate applies submitted coordinates, or geocodes the address when none
// were given. A failed lookup leaves the clinic without coordinates.
func (uc *RegisterClinicUseCase) locate(ctx context.Context, c *clinic.Clinic, lat, lng *float64) error {
	if lat != nil && lng != nil {
		if err := c.SetCoordinates(geo.Point{Lat: *lat, Lng: *lng}); err != nil {
			return errors.NewValidationError("Invalid coordinates")
		}
		return nil
	}
	if uc.geocoder == nil || !c.CanGeocode() {
		return nil
	}

	p, found := uc.geocoder.Geocode(ctx, c.Address(), c.City())
	metrics.RecordGeocode(found)
	if !found {
		uc.logger.Infow("clinic address could not be geocoded", "name", c.Name(), "city", c.City())
		return nil
	}
	if err := c.SetCoordinates(p); err != nil {
		uc.logger.Warnw("geocoder returned invalid coordinates", "error", err, "name", c.Name())
	}
	return nil
}

func (uc *RegisterClinicUseCase) resolveOwner(ctx context.Context, cmd RegisterClinicCommand) (uint, error) {
	if cmd.OwnerUserID != nil {
		existing, err := uc.clinics.GetByOwner(ctx, *cmd.OwnerUserID)
		if err != nil {
			return 0, err
		}
		if existing != nil {
			return 0, errors.NewConflictError("this account already manages a clinic")
		}
		return *cmd.OwnerUserID, nil
	}

	email := user.NormalizeEmail(cmd.OwnerEmail)
	taken, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		return 0, err
	}
	if taken != nil {
		return 0, errors.NewConflictError("an account with this email already exists")
	}

	hash, err := uc.hasher.Hash(cmd.OwnerPassword)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}
	owner, err := user.NewUser(email, hash)
	if err != nil {
		return 0, errors.NewValidationError("Invalid email address")
	}
	owner.ActivateWithoutToken(uc.now())
	if err := uc.users.Create(ctx, owner); err != nil {
		return 0, err
	}
	uc.logger.Infow("clinic owner account created", "user_id", owner.ID())
	return owner.ID(), nil
}

// uniqueSlug derives a slug from name and appends -2, -3, ... until it is free.
func (uc *RegisterClinicUseCase) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = fallbackSlug
	}

	candidate := base
	for n := 2; n <= maxSlugSuffix; n++ {
		exists, err := uc.clinics.SlugExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", errors.NewConflictError("could not allocate a clinic slug")
}

func validateOwnerCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return errors.NewValidationError("owner email and password are required")
	}
	if err := user.ValidatePassword(password); err != nil {
		return errors.NewValidationError(user.PasswordMessage(err))
	}
	return nil
}
