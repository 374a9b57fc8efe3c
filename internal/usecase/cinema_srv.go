package usecase

import (
	"context"
	"fmt"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"
	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CinemaService interface {
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CinemaResponse], error)
	Create(ctx context.Context, req *request.CinemaRequest) (*response.CinemaResponse, error)
	Get(ctx context.Context, cinemaID string) (*response.CinemaResponse, error)
	Update(ctx context.Context, cinemaID string, req *request.CinemaRequest) (*response.CinemaResponse, error)
	Delete(ctx context.Context, cinemaID string) error
}

type cinemaService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCinemaService(repo *repository.Repository, log *zap.Logger) CinemaService {
	return &cinemaService{
		repo: repo,
		log:  log.With(zap.String("service", "cinema")),
	}
}

func (s *cinemaService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CinemaResponse], error) {
	cinemas, err := s.repo.Cinema.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get cinemas from repository",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get cinemas: %w", err)
	}

	total, err := s.repo.Cinema.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count cinemas: %w", err)
	}

	data := response.Map(cinemas, func(c *entity.Cinema) response.CinemaResponse {
		return response.CinemaToResponse(c)
	})
	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

// validate also reports an address that does not exist as a field error.
func (s *cinemaService) validate(ctx context.Context, req *request.CinemaRequest, missing map[string]string, cinema *entity.Cinema) error {
	errs := checkRequest(req, missing, cinema)

	if _, failed := errs["address"]; !failed && cinema.AddressID != uuid.Nil {
		address, err := s.repo.Address.FindByID(ctx, cinema.AddressID)
		if err != nil {
			return fmt.Errorf("check address %s: %w", cinema.AddressID, err)
		}
		if address == nil {
			objectMissing(errs, "address", cinema.AddressID)
		}
	}

	return errs.Err()
}

func (s *cinemaService) Create(ctx context.Context, req *request.CinemaRequest) (*response.CinemaResponse, error) {
	cinema := &entity.Cinema{Base: entity.NewBase(time.Now())}
	req.Apply(cinema)

	if err := s.validate(ctx, req, req.Missing(), cinema); err != nil {
		s.log.Warn("Create cinema validation failed", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Cinema.Create(ctx, cinema); err != nil {
		return nil, storeError("create cinema", err)
	}

	s.log.Info("Cinema created",
		zap.String("cinema_id", cinema.ID.String()),
		zap.String("name", cinema.Name),
	)

	resp := response.CinemaToResponse(cinema)
	return &resp, nil
}

func (s *cinemaService) find(ctx context.Context, cinemaID string) (*entity.Cinema, error) {
	id, err := parseID("cinema", cinemaID)
	if err != nil {
		return nil, err
	}

	cinema, err := s.repo.Cinema.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get cinema by ID",
			zap.Error(err),
			zap.String("cinema_id", cinemaID),
		)
		return nil, fmt.Errorf("get cinema %s: %w", cinemaID, err)
	}
	if cinema == nil {
		return nil, notFound("cinema", id)
	}
	return cinema, nil
}

func (s *cinemaService) Get(ctx context.Context, cinemaID string) (*response.CinemaResponse, error) {
	cinema, err := s.find(ctx, cinemaID)
	if err != nil {
		return nil, err
	}

	resp := response.CinemaToResponse(cinema)
	return &resp, nil
}

func (s *cinemaService) Update(ctx context.Context, cinemaID string, req *request.CinemaRequest) (*response.CinemaResponse, error) {
	cinema, err := s.find(ctx, cinemaID)
	if err != nil {
		return nil, err
	}

	req.Apply(cinema)
	if err := s.validate(ctx, req, nil, cinema); err != nil {
		return nil, err
	}

	cinema.Touch(time.Now())
	if err := s.repo.Cinema.Update(ctx, cinema); err != nil {
		return nil, storeError("update cinema", err)
	}

	s.log.Info("Cinema updated", zap.String("cinema_id", cinemaID))

	resp := response.CinemaToResponse(cinema)
	return &resp, nil
}

func (s *cinemaService) Delete(ctx context.Context, cinemaID string) error {
	id, err := parseID("cinema", cinemaID)
	if err != nil {
		return err
	}

	if err := s.repo.Cinema.Delete(ctx, id); err != nil {
		return storeError("delete cinema", err)
	}

	s.log.Info("Cinema deleted", zap.String("cinema_id", cinemaID))
	return nil
}

