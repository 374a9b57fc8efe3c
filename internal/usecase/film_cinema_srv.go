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

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FilmCinemaService interface {
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FilmCinemaResponse], error)
	Create(ctx context.Context, req *request.FilmCinemaRequest) (*response.FilmCinemaResponse, error)
	Get(ctx context.Context, filmCinemaID string) (*response.FilmCinemaResponse, error)
	Update(ctx context.Context, filmCinemaID string, req *request.FilmCinemaRequest) (*response.FilmCinemaResponse, error)
	Delete(ctx context.Context, filmCinemaID string) error
}

type filmCinemaService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewFilmCinemaService(repo *repository.Repository, log *zap.Logger) FilmCinemaService {
	return &filmCinemaService{
		repo: repo,
		log:  log.With(zap.String("service", "film_cinema")),
	}
}

func (s *filmCinemaService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FilmCinemaResponse], error) {
	list, err := s.repo.FilmCinema.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get film cinemas: %w", err)
	}

	total, err := s.repo.FilmCinema.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count film cinemas: %w", err)
	}

	data := response.Map(list, func(fc *entity.FilmCinema) response.FilmCinemaResponse {
		return response.FilmCinemaToResponse(fc)
	})
	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *filmCinemaService) validate(ctx context.Context, req *request.FilmCinemaRequest, missing map[string]string, fc *entity.FilmCinema) error {
	errs := checkRequest(req, missing, fc)

	if err := s.checkParents(ctx, errs, fc); err != nil {
		return err
	}

	return errs.Err()
}

func (s *filmCinemaService) checkParents(ctx context.Context, errs validation.Errors, fc *entity.FilmCinema) error {
	if _, failed := errs["cinema"]; !failed && fc.CinemaID != uuid.Nil {
		cinema, err := s.repo.Cinema.FindByID(ctx, fc.CinemaID)
		if err != nil {
			return fmt.Errorf("check cinema %s: %w", fc.CinemaID, err)
		}
		if cinema == nil {
			objectMissing(errs, "cinema", fc.CinemaID)
		}
	}

	if _, failed := errs["film"]; !failed && fc.FilmID != uuid.Nil {
		film, err := s.repo.Film.FindByID(ctx, fc.FilmID)
		if err != nil {
			return fmt.Errorf("check film %s: %w", fc.FilmID, err)
		}
		if film == nil {
			objectMissing(errs, "film", fc.FilmID)
		}
	}

	return nil
}

func (s *filmCinemaService) Create(ctx context.Context, req *request.FilmCinemaRequest) (*response.FilmCinemaResponse, error) {
	fc := &entity.FilmCinema{Base: entity.NewBase(time.Now())}
	req.Apply(fc)

	if err := s.validate(ctx, req, req.Missing(), fc); err != nil {
		s.log.Warn("Create film cinema validation failed", zap.Error(err))
		return nil, err
	}

	if err := s.repo.FilmCinema.Create(ctx, fc); err != nil {
		s.log.Warn("Failed to create film cinema",
			zap.Error(err),
			zap.String("cinema_id", fc.CinemaID.String()),
			zap.String("film_id", fc.FilmID.String()),
		)
		return nil, storeError("create film cinema", err)
	}

	resp := response.FilmCinemaToResponse(fc)
	return &resp, nil
}

func (s *filmCinemaService) find(ctx context.Context, filmCinemaID string) (*entity.FilmCinema, error) {
	id, err := parseID("film cinema", filmCinemaID)
	if err != nil {
		return nil, err
	}

	fc, err := s.repo.FilmCinema.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get film cinema %s: %w", filmCinemaID, err)
	}
	if fc == nil {
		return nil, notFound("film cinema", id)
	}
	return fc, nil
}

func (s *filmCinemaService) Get(ctx context.Context, filmCinemaID string) (*response.FilmCinemaResponse, error) {
	fc, err := s.find(ctx, filmCinemaID)
	if err != nil {
		return nil, err
	}

	resp := response.FilmCinemaToResponse(fc)
	return &resp, nil
}

func (s *filmCinemaService) Update(ctx context.Context, filmCinemaID string, req *request.FilmCinemaRequest) (*response.FilmCinemaResponse, error) {
	fc, err := s.find(ctx, filmCinemaID)
	if err != nil {
		return nil, err
	}

	req.Apply(fc)
	if err := s.validate(ctx, req, nil, fc); err != nil {
		return nil, err
	}

	fc.Touch(time.Now())
	if err := s.repo.FilmCinema.Update(ctx, fc); err != nil {
		return nil, storeError("update film cinema", err)
	}

	resp := response.FilmCinemaToResponse(fc)
	return &resp, nil
}

func (s *filmCinemaService) Delete(ctx context.Context, filmCinemaID string) error {
	id, err := parseID("film cinema", filmCinemaID)
	if err != nil {
		return err
	}

	if err := s.repo.FilmCinema.Delete(ctx, id); err != nil {
		return storeError("delete film cinema", err)
	}

	s.log.Info("Film cinema deleted", zap.String("film_cinema_id", filmCinemaID))
	return nil
}
