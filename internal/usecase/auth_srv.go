package usecase

import (
	"context"
	"fmt"
	"time"

	"cinephile/internal/data/repository"
	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"
	"cinephile/internal/policy"
	"cinephile/internal/validation"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	// ObtainToken exchanges credentials for the user's API token.
	ObtainToken(ctx context.Context, req *request.LoginRequest) (*response.TokenResponse, error)
	// Authenticate resolves a token key to the principal it belongs to.
	Authenticate(ctx context.Context, key string) (*policy.Principal, error)
}

type authService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAuthService(repo *repository.Repository, log *zap.Logger) AuthService {
	return &authService{
		repo: repo,
		log:  log.With(zap.String("service", "auth")),
	}
}

func (s *authService) ObtainToken(ctx context.Context, req *request.LoginRequest) (*response.TokenResponse, error) {
	if errs := validation.FromMap(utils.ValidateStruct(req)); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("username", req.Username))
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.log.Warn("Inactive user login attempt", zap.String("username", req.Username))
		return nil, ErrInvalidCredentials
	}

	token, err := s.repo.Token.FindByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if token == nil {
		s.log.Error("User has no token", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("token of user %s: %w", user.ID, ErrNotFound)
	}

	if err := s.repo.User.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		s.log.Warn("Failed to record last login", zap.Error(err))
	}

	s.log.Info("Token issued", zap.String("user_id", user.ID.String()))
	return &response.TokenResponse{Token: token.Key}, nil
}

func (s *authService) Authenticate(ctx context.Context, key string) (*policy.Principal, error) {
	user, err := s.repo.Token.FindUserByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if user == nil || !user.IsActive {
		return nil, ErrInvalidToken
	}

	return &policy.Principal{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsSuperuser,
	}, nil
}
