package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fammo-app/fammo/internal/shared/errors"
)

const internalErrorMessage = "Internal server error occurred"

// APIResponse is the envelope used by the auth, pets, AI, plans and admin endpoints.
type APIResponse struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Message string     `json:"message,omitempty"`
}

type ErrorInfo struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, APIResponse{Success: true, Data: data, Message: message})
}

func CreatedResponse(c *gin.Context, data any, message ...string) {
	msg := "Created"
	if len(message) > 0 {
		msg = message[0]
	}
	SuccessResponse(c, http.StatusCreated, msg, data)
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, APIResponse{Error: &ErrorInfo{Type: "error", Message: message}})
}

// ErrorResponseWithError maps an AppError onto its status and type. Any other
// error becomes a 500 whose details stay in the server log.
func ErrorResponseWithError(c *gin.Context, err error) {
	status, info := describe(err)
	c.JSON(status, APIResponse{Error: &info})
}

// FlatErrorResponse writes {"error": message}, the body shape of the vets and
// profile endpoints.
func FlatErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}

func FlatErrorResponseWithError(c *gin.Context, err error) {
	status, info := describe(err)
	FlatErrorResponse(c, status, info.Message)
}

func describe(err error) (int, ErrorInfo) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		return http.StatusInternalServerError, ErrorInfo{
			Type:    string(errors.ErrorTypeInternal),
			Message: internalErrorMessage,
		}
	}
	return appErr.Code, ErrorInfo{
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Details: appErr.Details,
	}
}
