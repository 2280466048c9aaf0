package usecase

import (
	authdomain "github.com/thamiresml/thracker-sub002/internal/auth/domain"
	authdto "github.com/thamiresml/thracker-sub002/internal/auth/dto"
)

// AuthUsecase defines the authentication operations exposed to the HTTP layer.
type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	ValidateToken(tokenString string) (*authdomain.User, error)
}
