package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	userusecases "github.com/fammo-app/fammo/internal/application/user/usecases"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
	"github.com/fammo-app/fammo/internal/shared/utils"
)

type AuthHandler struct {
	registerUC registerUseCase
	activateUC activateAccountUseCase
	loginUC    loginUseCase
	logger     logger.Interface
}

func NewAuthHandler(
	registerUC registerUseCase,
	activateUC activateAccountUseCase,
	loginUC loginUseCase,
	logger logger.Interface,
) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		activateUC: activateUC,
		loginUC:    loginUC,
		logger:     logger,
	}
}

type RegisterRequest struct {
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ReferralCode string `json:"referral_code"`
	VisitorToken string `json:"visitor_token"`
	WizardToken  string `json:"wizard_token"`
}

type ActivateRequest struct {
	Token string `json:"token" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for register", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("Email and password are required"))
		return
	}

	if req.VisitorToken == "" {
		req.VisitorToken, _ = c.Cookie(VisitorCookieName)
	}

	result, err := h.registerUC.Execute(c.Request.Context(), userusecases.RegisterCommand{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ReferralCode: req.ReferralCode,
		VisitorToken: req.VisitorToken,
		WizardToken:  req.WizardToken,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, result.Message)
}

// Activate handles POST /api/auth/activate
func (h *AuthHandler) Activate(c *gin.Context) {
	var req ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Activation token is required"))
		return
	}

	result, err := h.activateUC.Execute(c.Request.Context(), userusecases.ActivateAccountCommand{Token: req.Token})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	// the visitor cookie has done its job once the account is active
	c.SetCookie(VisitorCookieName, "", -1, "/", "", false, true)
	utils.SuccessResponse(c, http.StatusOK, "Account activated", result)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("Email and password are required"))
		return
	}

	result, err := h.loginUC.Execute(c.Request.Context(), userusecases.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
