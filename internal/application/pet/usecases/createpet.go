package usecases

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/fammo-app/fammo/internal/application/pet/dto"
	"github.com/fammo-app/fammo/internal/domain/pet"
	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// DefaultPetLimit applies to users without a plan or on a tier that grants
// no pets of its own.
const DefaultPetLimit = 1

type CreatePetCommand struct {
	OwnerID    uint
	Attributes pet.Attributes
}

type CreatePetUseCase struct {
	tx       db.Transactor
	pets     pet.Repository
	profiles profile.Repository
	plans    usage.PlanRepository
	logger   logger.Interface
}

func NewCreatePetUseCase(
	tx db.Transactor,
	pets pet.Repository,
	profiles profile.Repository,
	plans usage.PlanRepository,
	logger logger.Interface,
) *CreatePetUseCase {
	return &CreatePetUseCase{
		tx:       tx,
		pets:     pets,
		profiles: profiles,
		plans:    plans,
		logger:   logger,
	}
}

func (uc *CreatePetUseCase) Execute(ctx context.Context, cmd CreatePetCommand) (*dto.PetDTO, error) {
	p, err := pet.NewPet(cmd.OwnerID, cmd.Attributes)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	limit, err := uc.petLimit(ctx, cmd.OwnerID)
	if err != nil {
		return nil, err
	}

	err = uc.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		count, err := uc.pets.CountByOwner(txCtx, cmd.OwnerID)
		if err != nil {
			return fmt.Errorf("failed to count pets: %w", err)
		}
		if count >= int64(limit) {
			return pet.ErrPetLimitReached
		}
		return uc.pets.Create(txCtx, p)
	})
	if err != nil {
		if stderrors.Is(err, pet.ErrPetLimitReached) {
			return nil, errors.NewLimitExceededError(
				fmt.Sprintf("Your plan allows up to %d pet(s)", limit),
			)
		}
		uc.logger.Errorw("failed to create pet", "error", err, "owner_id", cmd.OwnerID)
		return nil, fmt.Errorf("failed to create pet: %w", err)
	}

	uc.logger.Infow("pet created", "pet_id", p.ID(), "owner_id", cmd.OwnerID)
	return dto.ToPetDTO(p), nil
}

func (uc *CreatePetUseCase) petLimit(ctx context.Context, userID uint) (int, error) {
	prof, err := uc.profiles.GetByUserID(ctx, userID)
	if err != nil {
		uc.logger.Errorw("failed to load profile", "error", err, "user_id", userID)
		return 0, fmt.Errorf("failed to load profile: %w", err)
	}
	if prof == nil || prof.PlanID() == nil {
		return DefaultPetLimit, nil
	}

	plan, err := uc.plans.GetByID(ctx, *prof.PlanID())
	if err != nil {
		uc.logger.Errorw("failed to load plan", "error", err, "plan_id", *prof.PlanID())
		return 0, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil || plan.PetLimit() == 0 {
		return DefaultPetLimit, nil
	}
	return plan.PetLimit(), nil
}

type ListPetsUseCase struct {
	pets   pet.Repository
	logger logger.Interface
}

func NewListPetsUseCase(pets pet.Repository, logger logger.Interface) *ListPetsUseCase {
	return &ListPetsUseCase{pets: pets, logger: logger}
}

func (uc *ListPetsUseCase) Execute(ctx context.Context, ownerID uint) ([]*dto.PetDTO, error) {
	pets, err := uc.pets.ListByOwner(ctx, ownerID)
	if err != nil {
		uc.logger.Errorw("failed to list pets", "error", err, "owner_id", ownerID)
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	return dto.ToPetDTOs(pets), nil
}
