package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/fammo-app/fammo/internal/shared/constants"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

func getUserIDFromContext(c *gin.Context, log logger.Interface) (uint, error) {
	userIDInterface, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		log.Warnw("user_id not found in context", "ip", c.ClientIP())
		return 0, errors.NewUnauthorizedError(constants.ErrMsgUnauthorized)
	}

	userID, ok := userIDInterface.(uint)
	if !ok {
		log.Errorw("invalid user_id type in context", "user_id", userIDInterface, "ip", c.ClientIP())
		return 0, errors.NewInternalError("invalid user ID type")
	}

	return userID, nil
}
