package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	usagedto "github.com/fammo-app/fammo/internal/application/usage/dto"
	"github.com/fammo-app/fammo/internal/shared/logger"
	"github.com/fammo-app/fammo/internal/shared/utils"
)

type listPlansUseCase interface {
	Execute(ctx context.Context) ([]*usagedto.PlanDTO, error)
}

type PlanHandler struct {
	listPlansUC listPlansUseCase
	logger      logger.Interface
}

func NewPlanHandler(listPlansUC listPlansUseCase, logger logger.Interface) *PlanHandler {
	return &PlanHandler{
		listPlansUC: listPlansUC,
		logger:      logger,
	}
}

// ListPlans handles GET /api/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	result, err := h.listPlansUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
