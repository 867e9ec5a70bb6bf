package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	profileusecases "github.com/fammo-app/fammo/internal/application/profile/usecases"
	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
	"github.com/fammo-app/fammo/internal/shared/utils"
)

type saveLocationUseCase interface {
	Execute(ctx context.Context, cmd profileusecases.SaveLocationCommand) (*profileusecases.SaveLocationResult, error)
}

type ProfileHandler struct {
	saveLocationUC saveLocationUseCase
	logger         logger.Interface
}

func NewProfileHandler(saveLocationUC saveLocationUseCase, logger logger.Interface) *ProfileHandler {
	return &ProfileHandler{
		saveLocationUC: saveLocationUC,
		logger:         logger,
	}
}

type SaveLocationRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Consent   bool     `json:"consent"`
}

type saveLocationResponse struct {
	Success bool `json:"success"`
	*profileusecases.SaveLocationResult
}

// SaveLocation handles POST /api/profile/save-location
func (h *ProfileHandler) SaveLocation(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		if errors.IsUnauthorizedError(err) {
			utils.FlatErrorResponse(c, http.StatusUnauthorized, constants.ErrMsgUnauthorized)
			return
		}
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	var req SaveLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for save location", "error", err, "user_id", userID)
		utils.FlatErrorResponse(c, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.saveLocationUC.Execute(c.Request.Context(), profileusecases.SaveLocationCommand{
		UserID:    userID,
		Consent:   req.Consent,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	})
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, saveLocationResponse{Success: true, SaveLocationResult: result})
}
