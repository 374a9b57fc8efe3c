package usecase

import (
	"context"
	"fmt"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"
	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"
	"cinephile/internal/validation"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	// Create registers a regular user and provisions its token.
	Create(ctx context.Context, req *request.UserRequest) (*response.UserResponse, error)
	// Register is the sign-up form variant of Create.
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	CreateSuperuser(ctx context.Context, req *request.UserRequest) (*response.UserResponse, error)
	Get(ctx context.Context, userID string) (*response.UserResponse, error)
	Update(ctx context.Context, userID string, req *request.UserRequest) (*response.UserResponse, error)
	Delete(ctx context.Context, userID string) error
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewUserService(repo *repository.Repository, log *zap.Logger) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
	}
}

func (s *userService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	users, err := s.repo.User.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get users", zap.Error(err))
		return nil, fmt.Errorf("get users: %w", err)
	}

	total, err := s.repo.User.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	data := response.Map(users, func(u *entity.User) response.UserResponse {
		return response.UserToResponse(u)
	})
	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *userService) Create(ctx context.Context, req *request.UserRequest) (*response.UserResponse, error) {
	return s.create(ctx, req, validation.FromMap(utils.ValidateStruct(req)), "password", false)
}

func (s *userService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	return s.create(ctx, req.User(), validation.FromMap(utils.ValidateStruct(req)), "password1", false)
}

func (s *userService) CreateSuperuser(ctx context.Context, req *request.UserRequest) (*response.UserResponse, error) {
	return s.create(ctx, req, validation.FromMap(utils.ValidateStruct(req)), "password", true)
}

// create hashes the password unless passwordField already failed the shape
// check, so a rejected password is reported once.
func (s *userService) create(ctx context.Context, req *request.UserRequest, errs validation.Errors, passwordField string, superuser bool) (*response.UserResponse, error) {
	now := time.Now()
	user := &entity.User{
		Base:        entity.NewBase(now),
		IsActive:    true,
		IsSuperuser: superuser,
	}
	req.ApplyProfile(user)

	errs.Fill(validation.FromMap(req.Missing()))
	_, badPassword := errs[passwordField]
	_, noPassword := errs["password"]
	if !badPassword && !noPassword {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			s.log.Error("Failed to hash password", zap.Error(err))
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	userErrs := validation.Errors{}
	userErrs.Merge(user.Validate())
	if badPassword {
		delete(userErrs, "password")
	}
	errs.Fill(userErrs)

	if _, failed := errs["username"]; !failed {
		existing, err := s.repo.User.FindByUsername(ctx, user.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if existing != nil {
			errs.Add("username", "a user with that username already exists")
		}
	}

	if len(errs) > 0 {
		s.log.Warn("Create user validation failed", zap.Any("errors", errs))
		return nil, errs
	}

	key, err := utils.GenerateTokenKey()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	token := &entity.Token{Key: key, UserID: user.ID, CreatedAt: now}

	if err := s.repo.User.CreateWithToken(ctx, user, token); err != nil {
		return nil, storeError("create user", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Bool("is_superuser", superuser),
	)

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) find(ctx context.Context, userID string) (*entity.User, error) {
	id, err := parseID("user", userID)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	if user == nil {
		return nil, notFound("user", id)
	}
	return user, nil
}

func (s *userService) Get(ctx context.Context, userID string) (*response.UserResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, userID string, req *request.UserRequest) (*response.UserResponse, error) {
	user, err := s.find(ctx, userID)
	if err != nil {
		return nil, err
	}

	errs := validation.FromMap(utils.ValidateStruct(req))
	renamed := req.Username != nil && *req.Username != user.Username

	req.ApplyProfile(user)
	req.ApplyFlags(user)
	if _, failed := errs["password"]; !failed && req.Password != nil {
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = hash
	}
	errs.Fill(user.Validate())

	if _, failed := errs["username"]; !failed && renamed {
		existing, err := s.repo.User.FindByUsername(ctx, user.Username)
		if err != nil {
			return nil, fmt.Errorf("check username: %w", err)
		}
		if existing != nil {
			errs.Add("username", "a user with that username already exists")
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}

	user.Touch(time.Now())
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, storeError("update user", err)
	}

	s.log.Info("User updated", zap.String("user_id", userID))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// Delete removes the user. Its token goes with it and its tickets become free.
func (s *userService) Delete(ctx context.Context, userID string) error {
	id, err := parseID("user", userID)
	if err != nil {
		return err
	}

	if err := s.repo.User.Delete(ctx, id); err != nil {
		return storeError("delete user", err)
	}

	s.log.Info("User deleted", zap.String("user_id", userID))
	return nil
}
