package handlers

import (
	"context"

	userdto "github.com/fammo-app/fammo/internal/application/user/dto"
	userusecases "github.com/fammo-app/fammo/internal/application/user/usecases"
)

// Use case interfaces for AuthHandler

type registerUseCase interface {
	Execute(ctx context.Context, cmd userusecases.RegisterCommand) (*userdto.RegisteredUserDTO, error)
}

type activateAccountUseCase interface {
	Execute(ctx context.Context, cmd userusecases.ActivateAccountCommand) (*userdto.ActivationDTO, error)
}

type loginUseCase interface {
	Execute(ctx context.Context, cmd userusecases.LoginCommand) (*userdto.AuthTokenDTO, error)
}
