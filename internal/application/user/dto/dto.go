package dto

import (
	petdto "github.com/fammo-app/fammo/internal/application/pet/dto"
)

type AuthTokenDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	UserID      uint   `json:"user_id"`
	Role        string `json:"role"`
}

type RegisteredUserDTO struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

type ActivationDTO struct {
	AuthTokenDTO
	ReferralActivated bool           `json:"referral_activated"`
	Pet               *petdto.PetDTO `json:"pet,omitempty"`
}
