package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medassist/telemed-api/internal/config"
	"github.com/medassist/telemed-api/internal/model"
	"github.com/medassist/telemed-api/internal/repository"
	"github.com/medassist/telemed-api/pkg/auth"
	apperrors "github.com/medassist/telemed-api/pkg/errors"
)

const bcryptCost = 12

// Service registers and authenticates users. Token verification runs one
// of two strategies: locally issued tokens resolved against an existing
// row, or provider-issued tokens that auto-provision the row on first
// sight.
type Service struct {
	userRepo repository.UserRepository
	jwtSvc   *auth.JWTService
	provider *auth.JWTService
	mode     config.AuthMode
}

func NewService(userRepo repository.UserRepository, cfg config.AuthConfig) *Service {
	s := &Service{
		userRepo: userRepo,
		jwtSvc:   auth.NewJWTService(cfg.Secret, cfg.Issuer, cfg.Expiry()),
		mode:     cfg.Mode,
	}
	if cfg.Mode == config.AuthModeProvider {
		s.provider = auth.NewJWTService(cfg.ProviderSecret, cfg.ProviderIssuer, cfg.Expiry())
	}
	return s
}

func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.TokenResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Name:         req.Name,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.tokenResponse(user)
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.Unauthorized("invalid credentials", err)
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("account is deactivated")
	}

	return s.tokenResponse(user)
}

// ResolveToken verifies a bearer token and returns the caller's user row.
func (s *Service) ResolveToken(ctx context.Context, token string) (*model.User, error) {
	if s.mode == config.AuthModeProvider {
		return s.resolveProviderToken(ctx, token)
	}
	return s.resolveLocalToken(ctx, token)
}

func (s *Service) resolveLocalToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token subject", err)
	}

	// Local tokens reference an existing row; a missing one is not-found,
	// not an auto-provision.
	return s.userRepo.Get(ctx, userID)
}

func (s *Service) resolveProviderToken(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.provider.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token", err)
	}

	user, err := s.userRepo.GetOrCreateByExternalID(ctx, claims.Subject, claims.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve provider identity: %w", err)
	}
	return user, nil
}

func (s *Service) tokenResponse(user *model.User) (*model.TokenResponse, error) {
	token, err := s.jwtSvc.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtSvc.Expiry().Seconds()),
		User:        user,
	}, nil
}
