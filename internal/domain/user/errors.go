package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidEmail           = errors.New("invalid email address")
	ErrInvalidActivationToken = errors.New("invalid activation token")
	ErrActivationExpired      = errors.New("activation token expired")
	ErrAlreadyActive          = errors.New("account already active")
	ErrInactiveAccount        = errors.New("account not activated")
	ErrPasswordTooShort       = errors.New("password too short")
	ErrPasswordTooLong        = errors.New("password too long")
)
