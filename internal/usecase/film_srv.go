package usecase

import (
	"context"
	"fmt"
	"time"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"
	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"

	"go.uber.org/zap"
)

type FilmService interface {
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FilmResponse], error)
	Create(ctx context.Context, req *request.FilmRequest) (*response.FilmResponse, error)
	Get(ctx context.Context, filmID string) (*response.FilmResponse, error)
	Update(ctx context.Context, filmID string, req *request.FilmRequest) (*response.FilmResponse, error)
	Delete(ctx context.Context, filmID string) error
}

type filmService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewFilmService(repo *repository.Repository, log *zap.Logger) FilmService {
	return &filmService{
		repo: repo,
		log:  log.With(zap.String("service", "film")),
	}
}

func (s *filmService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.FilmResponse], error) {
	films, err := s.repo.Film.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get films from repository",
			zap.Error(err),
			zap.Int("page", req.Page),
			zap.Int("per_page", req.PerPage),
		)
		return nil, fmt.Errorf("get films: %w", err)
	}

	total, err := s.repo.Film.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count films: %w", err)
	}

	data := response.Map(films, func(f *entity.Film) response.FilmResponse {
		return response.FilmToResponse(f)
	})

	s.log.Debug("Films retrieved",
		zap.Int("count", len(films)),
		zap.Int64("total", total),
	)

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *filmService) Create(ctx context.Context, req *request.FilmRequest) (*response.FilmResponse, error) {
	film := &entity.Film{Base: entity.NewBase(time.Now())}
	req.Apply(film)

	if errs := checkRequest(req, req.Missing(), film); len(errs) > 0 {
		s.log.Warn("Create film validation failed", zap.Any("errors", errs))
		return nil, errs
	}

	if err := s.repo.Film.Create(ctx, film); err != nil {
		return nil, storeError("create film", err)
	}

	s.log.Info("Film created",
		zap.String("film_id", film.ID.String()),
		zap.String("name", film.Name),
	)

	resp := response.FilmToResponse(film)
	return &resp, nil
}

func (s *filmService) find(ctx context.Context, filmID string) (*entity.Film, error) {
	id, err := parseID("film", filmID)
	if err != nil {
		return nil, err
	}

	film, err := s.repo.Film.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get film %s: %w", filmID, err)
	}
	if film == nil {
		return nil, notFound("film", id)
	}
	return film, nil
}

func (s *filmService) Get(ctx context.Context, filmID string) (*response.FilmResponse, error) {
	film, err := s.find(ctx, filmID)
	if err != nil {
		return nil, err
	}

	resp := response.FilmToResponse(film)
	return &resp, nil
}

func (s *filmService) Update(ctx context.Context, filmID string, req *request.FilmRequest) (*response.FilmResponse, error) {
	film, err := s.find(ctx, filmID)
	if err != nil {
		return nil, err
	}

	req.Apply(film)
	if errs := checkRequest(req, nil, film); len(errs) > 0 {
		s.log.Warn("Update film validation failed",
			zap.String("film_id", filmID),
			zap.Any("errors", errs),
		)
		return nil, errs
	}

	film.Touch(time.Now())
	if err := s.repo.Film.Update(ctx, film); err != nil {
		return nil, storeError("update film", err)
	}

	resp := response.FilmToResponse(film)
	return &resp, nil
}

func (s *filmService) Delete(ctx context.Context, filmID string) error {
	id, err := parseID("film", filmID)
	if err != nil {
		return err
	}

	if err := s.repo.Film.Delete(ctx, id); err != nil {
		return storeError("delete film", err)
	}

	s.log.Info("Film deleted", zap.String("film_id", filmID))
	return nil
}
