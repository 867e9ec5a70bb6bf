package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	clinicdto "github.com/fammo-app/fammo/internal/application/clinic/dto"
	clinicusecases "github.com/fammo-app/fammo/internal/application/clinic/usecases"
	refdto "github.com/fammo-app/fammo/internal/application/referral/dto"
	refusecases "github.com/fammo-app/fammo/internal/application/referral/usecases"
	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/logger"
	"github.com/fammo-app/fammo/internal/shared/utils"
)

// VisitorCookieName carries the referral visitor token between the landing
// page and registration.
const VisitorCookieName = "fammo_ref_visitor"

// VetHandler serves the clinic directory, referral tracking and the clinic
// owner dashboard. Responses use flat bodies: {"success": true, ...} on
// success and {"error": "..."} on failure.
type VetHandler struct {
	nearbyUC     findNearbyClinicsUseCase
	byCityUC     findClinicsByCityUseCase
	trackUC      trackReferralUseCase
	visitUC      recordReferralVisitUseCase
	registerUC   registerClinicUseCase
	confirmUC    confirmClinicEmailUseCase
	dashboardUC  getClinicDashboardUseCase
	issueCodeUC  issueReferralCodeUseCase
	deactivateUC deactivateReferralCodeUseCase
	visitorTTL   time.Duration
	logger       logger.Interface
}

func NewVetHandler(
	nearbyUC findNearbyClinicsUseCase,
	byCityUC findClinicsByCityUseCase,
	trackUC trackReferralUseCase,
	visitUC recordReferralVisitUseCase,
	registerUC registerClinicUseCase,
	confirmUC confirmClinicEmailUseCase,
	dashboardUC getClinicDashboardUseCase,
	issueCodeUC issueReferralCodeUseCase,
	deactivateUC deactivateReferralCodeUseCase,
	visitorTTL time.Duration,
	logger logger.Interface,
) *VetHandler {
	return &VetHandler{
		nearbyUC:     nearbyUC,
		byCityUC:     byCityUC,
		trackUC:      trackUC,
		visitUC:      visitUC,
		registerUC:   registerUC,
		confirmUC:    confirmUC,
		dashboardUC:  dashboardUC,
		issueCodeUC:  issueCodeUC,
		deactivateUC: deactivateUC,
		visitorTTL:   visitorTTL,
		logger:       logger,
	}
}

type nearbyClinicsResponse struct {
	Success bool `json:"success"`
	*clinicdto.NearbyClinicsDTO
}

type cityClinicsResponse struct {
	Success bool `json:"success"`
	*clinicdto.CityClinicsDTO
}

// NearbyClinics handles GET /api/vets/nearby-clinics?lat=&lng=&radius=
func (h *VetHandler) NearbyClinics(c *gin.Context) {
	if strings.TrimSpace(c.Query("lat")) == "" || strings.TrimSpace(c.Query("lng")) == "" {
		utils.FlatErrorResponse(c, http.StatusBadRequest, "Latitude and longitude are required")
		return
	}

	lat, _, errLat := utils.QueryFloat(c, "lat")
	lng, _, errLng := utils.QueryFloat(c, "lng")
	radius, hasRadius, errRadius := utils.QueryFloat(c, "radius")
	if errLat != nil || errLng != nil || errRadius != nil {
		utils.FlatErrorResponse(c, http.StatusBadRequest, "Invalid coordinate format")
		return
	}

	query := clinicusecases.FindNearbyClinicsQuery{Latitude: lat, Longitude: lng}
	if hasRadius {
		query.RadiusKm = &radius
	}
	result, err := h.nearbyUC.Execute(c.Request.Context(), query)
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, nearbyClinicsResponse{Success: true, NearbyClinicsDTO: result})
}

// ClinicsByCity handles GET /api/vets/clinics-by-city?city=&radius=
func (h *VetHandler) ClinicsByCity(c *gin.Context) {
	radius, _, err := utils.QueryFloat(c, "radius")
	if err != nil {
		utils.FlatErrorResponse(c, http.StatusBadRequest, "Invalid radius")
		return
	}

	result, err := h.byCityUC.Execute(c.Request.Context(), clinicusecases.FindClinicsByCityQuery{
		City:     c.Query("city"),
		RadiusKm: radius,
	})
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, cityClinicsResponse{Success: true, CityClinicsDTO: result})
}

type TrackReferralRequest struct {
	Email        string `json:"email"`
	ReferralCode string `json:"referral_code"`
}

// TrackReferral handles POST /api/vets/track-referral
func (h *VetHandler) TrackReferral(c *gin.Context) {
	var req TrackReferralRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for track referral", "error", err)
		utils.FlatErrorResponse(c, http.StatusBadRequest, "Missing required fields")
		return
	}

	if _, err := h.trackUC.Execute(c.Request.Context(), refusecases.TrackReferralCommand{
		Email:        req.Email,
		ReferralCode: req.ReferralCode,
	}); err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Referral tracked successfully"})
}

type landingResponse struct {
	Success bool `json:"success"`
	*refdto.LandingDTO
}

// ReferralLanding handles GET /api/vets/ref/:code. The visitor token is
// returned in the body and as a cookie so registration can pick it up.
func (h *VetHandler) ReferralLanding(c *gin.Context) {
	visitor := c.Query("visitor_token")
	if visitor == "" {
		visitor, _ = c.Cookie(VisitorCookieName)
	}

	result, err := h.visitUC.Execute(c.Request.Context(), refusecases.RecordReferralVisitCommand{
		Code:         c.Param("code"),
		VisitorToken: visitor,
	})
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(VisitorCookieName, result.VisitorToken, int(h.visitorTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, landingResponse{Success: true, LandingDTO: result})
}

type RegisterClinicRequest struct {
	OwnerEmail    string `json:"owner_email"`
	OwnerPassword string `json:"owner_password"`

	Name            string   `json:"name" binding:"required"`
	Email           string   `json:"email" binding:"required"`
	Phone           string   `json:"phone"`
	Website         string   `json:"website"`
	Address         string   `json:"address"`
	City            string   `json:"city"`
	WorkingHours    string   `json:"working_hours"`
	Specializations string   `json:"specializations"`
	Bio             string   `json:"bio"`
	Logo            string   `json:"logo"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`

	VetName        string `json:"vet_name"`
	Degrees        string `json:"degrees"`
	Certifications string `json:"certifications"`
}

// RegisterClinic handles POST /api/vets/clinics. A signed-in caller becomes
// the owner; otherwise owner_email and owner_password create the account.
func (h *VetHandler) RegisterClinic(c *gin.Context) {
	var req RegisterClinicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for register clinic", "error", err)
		utils.FlatErrorResponse(c, http.StatusBadRequest, "Clinic name and email are required")
		return
	}

	cmd := clinicusecases.RegisterClinicCommand{
		OwnerEmail:      req.OwnerEmail,
		OwnerPassword:   req.OwnerPassword,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Website:         req.Website,
		Address:         req.Address,
		City:            req.City,
		WorkingHours:    req.WorkingHours,
		Specializations: req.Specializations,
		Bio:             req.Bio,
		LogoURL:         req.Logo,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		VetName:         req.VetName,
		Degrees:         req.Degrees,
		Certifications:  req.Certifications,
	}
	if v, ok := c.Get(constants.ContextKeyUserID); ok {
		if userID, ok := v.(uint); ok {
			cmd.OwnerUserID = &userID
		}
	}

	result, err := h.registerUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"clinic":     result.Clinic,
		"email_sent": result.EmailSent,
	})
}

// ConfirmClinicEmail handles GET /api/vets/clinics/confirm?clinic_id=&token=
func (h *VetHandler) ConfirmClinicEmail(c *gin.Context) {
	clinicID, err := strconv.ParseUint(c.Query("clinic_id"), 10, 64)
	if err != nil || clinicID == 0 || c.Query("token") == "" {
		utils.FlatErrorResponse(c, http.StatusBadRequest, "Invalid confirmation link")
		return
	}

	result, err := h.confirmUC.Execute(c.Request.Context(), clinicusecases.ConfirmClinicEmailCommand{
		ClinicID: uint(clinicID),
		Token:    c.Query("token"),
	})
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"clinic":            result.Clinic,
		"already_confirmed": result.AlreadyConfirmed,
		"referral_code":     result.ReferralCode,
	})
}

type dashboardResponse struct {
	Success bool `json:"success"`
	*clinicdto.DashboardDTO
}

// Dashboard handles GET /api/vets/dashboard
func (h *VetHandler) Dashboard(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	result, err := h.dashboardUC.Execute(c.Request.Context(), clinicusecases.GetClinicDashboardQuery{OwnerUserID: userID})
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboardResponse{Success: true, DashboardDTO: result})
}

type IssueReferralCodeRequest struct {
	Code string `json:"code"`
}

// IssueReferralCode handles POST /api/vets/dashboard/referral-codes. An empty
// code mints one from the clinic name.
func (h *VetHandler) IssueReferralCode(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	var req IssueReferralCodeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.FlatErrorResponse(c, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	result, err := h.issueCodeUC.Execute(c.Request.Context(), refusecases.IssueReferralCodeCommand{
		OwnerUserID: userID,
		Code:        req.Code,
	})
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "referral_code": result})
}

// DeactivateReferralCode handles POST /api/vets/dashboard/referral-codes/:id/deactivate
func (h *VetHandler) DeactivateReferralCode(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	codeID, err := utils.ParseUintParam(c, "id", "referral code")
	if err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	if err := h.deactivateUC.Execute(c.Request.Context(), refusecases.DeactivateReferralCodeCommand{
		OwnerUserID: userID,
		CodeID:      codeID,
	}); err != nil {
		utils.FlatErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Referral code deactivated"})
}
