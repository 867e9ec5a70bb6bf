package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	petdto "github.com/fammo-app/fammo/internal/application/pet/dto"
	petusecases "github.com/fammo-app/fammo/internal/application/pet/usecases"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
	"github.com/fammo-app/fammo/internal/shared/utils"
)

type petWizard interface {
	Start(ctx context.Context) (*petdto.WizardStateDTO, error)
	Submit(ctx context.Context, cmd petusecases.SubmitWizardStepCommand) (*petdto.WizardStateDTO, error)
	Finish(ctx context.Context, cmd petusecases.FinishWizardCommand) (*petdto.PetDTO, error)
}

type listPetsUseCase interface {
	Execute(ctx context.Context, ownerID uint) ([]*petdto.PetDTO, error)
}

type PetHandler struct {
	wizard     petWizard
	listPetsUC listPetsUseCase
	logger     logger.Interface
}

func NewPetHandler(wizard petWizard, listPetsUC listPetsUseCase, logger logger.Interface) *PetHandler {
	return &PetHandler{
		wizard:     wizard,
		listPetsUC: listPetsUC,
		logger:     logger,
	}
}

// StartWizard handles POST /api/pets/wizard
func (h *PetHandler) StartWizard(c *gin.Context) {
	result, err := h.wizard.Start(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Wizard started")
}

// SubmitStep handles POST /api/pets/wizard/:token/steps/:step. The body is
// the step's own payload.
func (h *PetHandler) SubmitStep(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read request body"))
		return
	}

	result, err := h.wizard.Submit(c.Request.Context(), petusecases.SubmitWizardStepCommand{
		Token:   c.Param("token"),
		Step:    c.Param("step"),
		Payload: json.RawMessage(body),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// FinishWizard handles POST /api/pets/wizard/:token/finish
func (h *PetHandler) FinishWizard(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.wizard.Finish(c.Request.Context(), petusecases.FinishWizardCommand{
		Token:  c.Param("token"),
		UserID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Pet created")
}

// ListPets handles GET /api/pets
func (h *PetHandler) ListPets(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.listPetsUC.Execute(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
