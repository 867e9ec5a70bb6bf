package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	clinicdto "github.com/fammo-app/fammo/internal/application/clinic/dto"
	clinicusecases "github.com/fammo-app/fammo/internal/application/clinic/usecases"
	refusecases "github.com/fammo-app/fammo/internal/application/referral/usecases"
	usageusecases "github.com/fammo-app/fammo/internal/application/usage/usecases"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
	"github.com/fammo-app/fammo/internal/shared/utils"
)

type nearbyUsersReportUseCase interface {
	Execute(ctx context.Context, query clinicusecases.NearbyUsersReportQuery) (*clinicdto.NearbyUsersReportDTO, error)
}

type updateClinicGatesUseCase interface {
	Execute(ctx context.Context, cmd clinicusecases.UpdateClinicGatesCommand) (*clinicdto.ClinicDetailDTO, error)
}

type setReferralStatusUseCase interface {
	Execute(ctx context.Context, cmd refusecases.SetReferralStatusCommand) (*refusecases.SetReferralStatusResult, error)
}

type resetStaleUsageUseCase interface {
	Execute(ctx context.Context) (*usageusecases.ResetStaleUsageResult, error)
}

// AdminHandler serves the back-office operations. Access is checked by the
// permission middleware before any of these run.
type AdminHandler struct {
	nearbyUsersUC nearbyUsersReportUseCase
	gatesUC       updateClinicGatesUseCase
	referralsUC   setReferralStatusUseCase
	resetUsageUC  resetStaleUsageUseCase
	logger        logger.Interface
}

func NewAdminHandler(
	nearbyUsersUC nearbyUsersReportUseCase,
	gatesUC updateClinicGatesUseCase,
	referralsUC setReferralStatusUseCase,
	resetUsageUC resetStaleUsageUseCase,
	logger logger.Interface,
) *AdminHandler {
	return &AdminHandler{
		nearbyUsersUC: nearbyUsersUC,
		gatesUC:       gatesUC,
		referralsUC:   referralsUC,
		resetUsageUC:  resetUsageUC,
		logger:        logger,
	}
}

// NearbyUsers handles GET /api/admin/clinic/:id/nearby-users?radius=
func (h *AdminHandler) NearbyUsers(c *gin.Context) {
	clinicID, err := utils.ParseUintParam(c, "id", "clinic")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	radius, _, err := utils.QueryFloat(c, "radius")
	if err != nil || radius < 0 {
		utils.ErrorResponseWithError(c, errors.NewValidationError("radius must be a positive number"))
		return
	}

	result, err := h.nearbyUsersUC.Execute(c.Request.Context(), clinicusecases.NearbyUsersReportQuery{
		ClinicID: clinicID,
		RadiusKm: radius,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type UpdateClinicGatesRequest struct {
	EmailConfirmed *bool `json:"email_confirmed"`
	AdminApproved  *bool `json:"admin_approved"`
}

// UpdateClinicGates handles PATCH /api/admin/clinics/:id/gates
func (h *AdminHandler) UpdateClinicGates(c *gin.Context) {
	clinicID, err := utils.ParseUintParam(c, "id", "clinic")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateClinicGatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for update clinic gates", "error", err, "clinic_id", clinicID)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body"))
		return
	}

	result, err := h.gatesUC.Execute(c.Request.Context(), clinicusecases.UpdateClinicGatesCommand{
		ClinicID:       clinicID,
		EmailConfirmed: req.EmailConfirmed,
		AdminApproved:  req.AdminApproved,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Clinic updated", result)
}

type SetReferralStatusRequest struct {
	IDs    []uint `json:"ids" binding:"required,min=1"`
	Status string `json:"status" binding:"required"`
}

// SetReferralStatus handles POST /api/admin/referrals/status
func (h *AdminHandler) SetReferralStatus(c *gin.Context) {
	var req SetReferralStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("ids and status are required"))
		return
	}

	result, err := h.referralsUC.Execute(c.Request.Context(), refusecases.SetReferralStatusCommand{
		IDs:    req.IDs,
		Status: req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Referral status updated", result)
}

// ResetStaleUsage handles POST /api/admin/usage/reset-stale
func (h *AdminHandler) ResetStaleUsage(c *gin.Context) {
	result, err := h.resetUsageUC.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
