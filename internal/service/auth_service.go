package service

import (
	"context"

	"userbase/internal/domain"
	"userbase/internal/dto"
)

type AuthService interface {
	Register(ctx context.Context, r dto.RegisterRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error)
	Login(ctx context.Context, r dto.LoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error)
	Logout(ctx context.Context, userID int, dev *dto.DeviceInfo) error
	Status(ctx context.Context, userID int) (*dto.StatusResponse, error)

	PasswordRecovery(ctx context.Context, email string) error
	PasswordReset(ctx context.Context, token, newPassword string) error
	PasswordChange(ctx context.Context, userID int, oldPassword, newPassword string) error

	RequestEmailVerification(ctx context.Context, email string) error
	VerifyEmail(ctx context.Context, token string) error

	GoogleLogin(ctx context.Context, r dto.GoogleLoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error)
	FacebookLogin(ctx context.Context, r dto.FacebookLoginRequest, dev *dto.DeviceInfo) (*dto.AuthResponse, error)
	SetStandalonePassword(ctx context.Context, userID int, oldPassword, newPassword string) error

	// Authorize resolves a bearer token to an active user id; the transport
	// middleware calls it before every protected handler.
	Authorize(ctx context.Context, token string) (int, error)
	HasRoles(ctx context.Context, userID int, roles domain.Role) error
}
