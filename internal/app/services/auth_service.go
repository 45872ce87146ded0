package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/Saewt/university-visitor-system/internal/app/models/dto"
	"github.com/Saewt/university-visitor-system/internal/app/repositories"
	"github.com/Saewt/university-visitor-system/internal/pkg/apperrors"
	"github.com/Saewt/university-visitor-system/internal/pkg/auth"
	"github.com/Saewt/university-visitor-system/internal/pkg/ratelimit"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo   *repositories.UserRepository
	jwtService *auth.JWTService
	limiter    *ratelimit.LoginLimiter
	logger     zerolog.Logger
}

// NewAuthService creates a new auth service instance
func NewAuthService(
	userRepo *repositories.UserRepository,
	jwtService *auth.JWTService,
	limiter *ratelimit.LoginLimiter,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		limiter:    limiter,
		logger:     logger,
	}
}

// Login verifies credentials and issues an access token.
// Repeated failures from the same address are throttled.
func (s *AuthService) Login(ctx context.Context, remoteAddr, username, password string) (*dto.AuthResponse, error) {
	if !s.limiter.Allow(remoteAddr) {
		s.logger.Warn().Str("addr", remoteAddr).Msg("Login throttled")
		return nil, apperrors.ErrTooManyAttempts
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.limiter.RecordFailure(remoteAddr)
			s.logger.Info().Str("username", username).Msg("Login failed: unknown user")
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		s.limiter.RecordFailure(remoteAddr)
		s.logger.Info().Str("username", username).Msg("Login failed: wrong password")
		return nil, apperrors.ErrInvalidCredentials
	}

	s.limiter.Reset(remoteAddr)

	accessToken, expiresIn, err := s.jwtService.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("username", user.Username).Str("role", string(user.Role)).Msg("Login successful")

	return &dto.AuthResponse{
		Token: dto.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresIn:   expiresIn,
		},
		User: dto.NewUserResponse(user),
	}, nil
}
