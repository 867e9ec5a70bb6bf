package usecases

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/fammo-app/fammo/internal/application/pet/dto"
	"github.com/fammo-app/fammo/internal/domain/pet"
	"github.com/fammo-app/fammo/internal/domain/shared"
	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const (
	wizardTTL     = 24 * time.Hour
	pendingPetTTL = 7 * 24 * time.Hour
)

// wizardState is the driver state kept in the pending store between steps.
type wizardState struct {
	Token     string         `json:"token"`
	Step      int            `json:"step"`
	Draft     pet.Attributes `json:"draft"`
	Completed bool           `json:"completed"`
}

type SubmitWizardStepCommand struct {
	Token   string
	Step    string
	Payload json.RawMessage
}

type FinishWizardCommand struct {
	Token  string
	UserID uint
}

// PetCreator persists a finished draft for its owner.
type PetCreator interface {
	Execute(ctx context.Context, cmd CreatePetCommand) (*dto.PetDTO, error)
}

// WizardService drives the onboarding questionnaire. Anonymous visitors can
// fill it in; the draft becomes a pet on finish or after signup activation.
type WizardService struct {
	pending shared.PendingStore
	creator PetCreator
	steps   []step
	logger  logger.Interface
}

func NewWizardService(pending shared.PendingStore, creator PetCreator, logger logger.Interface) *WizardService {
	return &WizardService{
		pending: pending,
		creator: creator,
		steps:   wizardSteps(),
		logger:  logger,
	}
}

func (s *WizardService) Start(ctx context.Context) (*dto.WizardStateDTO, error) {
	state := &wizardState{Token: uuid.NewString()}
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	s.logger.Debugw("pet wizard started", "token", state.Token)
	return s.toDTO(state), nil
}

// Submit applies the answer for the current step and advances past steps
// that no longer apply to the draft.
func (s *WizardService) Submit(ctx context.Context, cmd SubmitWizardStepCommand) (*dto.WizardStateDTO, error) {
	state, err := s.load(ctx, cmd.Token)
	if err != nil {
		return nil, err
	}
	if state.Completed {
		return nil, errors.NewConflictError("Wizard is already completed")
	}

	current := s.steps[state.Step]
	if cmd.Step != current.name() {
		return nil, errors.NewValidationError(
			"Unexpected wizard step",
			fmt.Sprintf("expected %q, got %q", current.name(), cmd.Step),
		)
	}

	draft := state.Draft
	if err := current.submit(cmd.Payload, &draft); err != nil {
		return nil, err
	}
	state.Draft = draft
	s.advance(state)

	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	return s.toDTO(state), nil
}

// Finish turns a completed draft into a pet owned by the signed-in user.
func (s *WizardService) Finish(ctx context.Context, cmd FinishWizardCommand) (*dto.PetDTO, error) {
	state, err := s.load(ctx, cmd.Token)
	if err != nil {
		return nil, err
	}
	if !state.Completed {
		return nil, errors.NewValidationError("Wizard is not completed yet")
	}

	created, err := s.creator.Execute(ctx, CreatePetCommand{OwnerID: cmd.UserID, Attributes: state.Draft})
	if err != nil {
		return nil, err
	}

	if err := s.pending.Delete(ctx, constants.PendingPetWizard, state.Token); err != nil {
		s.logger.Warnw("failed to clear wizard state", "error", err, "token", state.Token)
	}
	return created, nil
}

// ParkForUser moves a completed draft under the new user's id so it can be
// created once the account is activated.
func (s *WizardService) ParkForUser(ctx context.Context, token string, userID uint) error {
	var state wizardState
	if err := s.pending.Take(ctx, constants.PendingPetWizard, token, &state); err != nil {
		return fmt.Errorf("failed to read wizard state: %w", err)
	}
	if !state.Completed {
		return errors.NewValidationError("Wizard is not completed yet")
	}

	if err := s.pending.Put(ctx, constants.PendingPet, strconv.FormatUint(uint64(userID), 10), state.Draft, pendingPetTTL); err != nil {
		return fmt.Errorf("failed to park pet draft: %w", err)
	}
	s.logger.Infow("pet draft parked for activation", "user_id", userID)
	return nil
}

// CreatePending creates the pet parked for userID. It returns nil when
// nothing was parked.
func (s *WizardService) CreatePending(ctx context.Context, userID uint) (*dto.PetDTO, error) {
	var draft pet.Attributes
	if err := s.pending.Take(ctx, constants.PendingPet, strconv.FormatUint(uint64(userID), 10), &draft); err != nil {
		if stderrors.Is(err, shared.ErrPendingNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read pending pet: %w", err)
	}
	return s.creator.Execute(ctx, CreatePetCommand{OwnerID: userID, Attributes: draft})
}

func (s *WizardService) advance(state *wizardState) {
	next := state.Step + 1
	for next < len(s.steps) && s.steps[next].skipped(state.Draft) {
		next++
	}
	if next >= len(s.steps) {
		state.Completed = true
		return
	}
	state.Step = next
}

func (s *WizardService) load(ctx context.Context, token string) (*wizardState, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, errors.NewNotFoundError("wizard not found")
	}
	var state wizardState
	if err := s.pending.Peek(ctx, constants.PendingPetWizard, token, &state); err != nil {
		if stderrors.Is(err, shared.ErrPendingNotFound) {
			return nil, errors.NewNotFoundError("wizard not found or expired")
		}
		s.logger.Errorw("failed to load wizard state", "error", err, "token", token)
		return nil, fmt.Errorf("failed to load wizard state: %w", err)
	}
	if state.Step < 0 || state.Step >= len(s.steps) {
		return nil, errors.NewNotFoundError("wizard not found or expired")
	}
	return &state, nil
}

func (s *WizardService) save(ctx context.Context, state *wizardState) error {
	if err := s.pending.Put(ctx, constants.PendingPetWizard, state.Token, state, wizardTTL); err != nil {
		s.logger.Errorw("failed to save wizard state", "error", err, "token", state.Token)
		return fmt.Errorf("failed to save wizard state: %w", err)
	}
	return nil
}

func (s *WizardService) toDTO(state *wizardState) *dto.WizardStateDTO {
	out := &dto.WizardStateDTO{
		Token:     state.Token,
		Steps:     StepNames(),
		Completed: state.Completed,
		Draft:     state.Draft,
	}
	if !state.Completed {
		out.Step = s.steps[state.Step].name()
	}
	return out
}
