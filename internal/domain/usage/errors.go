package usage

import (
	"errors"
	"fmt"
)

var (
	ErrUsageLimitExceeded = errors.New("monthly usage limit exceeded")
	ErrInvalidAction      = errors.New("invalid action type")
	ErrInvalidMonth       = errors.New("month bucket must be the first day of a month")
	ErrPlanNotFound       = errors.New("subscription plan not found")
	ErrInvalidTier        = errors.New("invalid plan tier")
)

func ErrLimitExceeded(action ActionType, used, limit int) error {
	return fmt.Errorf("%w: %s used=%d, limit=%d", ErrUsageLimitExceeded, action, used, limit)
}
