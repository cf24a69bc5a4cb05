package service

import (
	"context"
	"errors"

	"asistente-fincas/internal/dto"
	"asistente-fincas/internal/repository"
	"asistente-fincas/pkg/auth"

	"go.uber.org/zap"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	userRepo   *repository.UserRepository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

// Login validates nombre/contraseña credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByNombre(ctx, req.Nombre)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		s.logger.Warn("Failed login attempt", zap.String("nombre", req.Nombre))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Nombre, user.Rol)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:  token,
		Nombre: user.Nombre,
		Rol:    user.Rol,
	}, nil
}

// LoginByPhone authenticates a user by mobile number alone. Phone numbers are
// unique in the usuarios table; channels that know the sender's number use
// this for automatic authentication.
func (s *AuthService) LoginByPhone(ctx context.Context, req *dto.PhoneLoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByPhone(ctx, req.Telefono)
	if err != nil {
		s.logger.Info("No user for phone number", zap.String("telefono", req.Telefono))
		return nil, ErrUserNotFound
	}

	token, err := s.jwtManager.GenerateToken(user.ID, user.Nombre, user.Rol)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User authenticated by phone",
		zap.String("nombre", user.Nombre),
		zap.String("rol", user.Rol),
	)

	return &dto.AuthResponse{
		Token:  token,
		Nombre: user.Nombre,
		Rol:    user.Rol,
	}, nil
}
