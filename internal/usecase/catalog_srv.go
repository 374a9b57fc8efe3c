package usecase

import (
	"context"
	"fmt"

	"cinephile/internal/data/entity"
	"cinephile/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FilmPage struct {
	Film    *entity.Film
	Tickets []*entity.TicketDetail
}

type CinemaPage struct {
	Cinema  *entity.Cinema
	Address *entity.Address
	Tickets []*entity.TicketDetail
}

// CatalogService gathers what the HTML pages render.
type CatalogService interface {
	Films(ctx context.Context, limit, offset int) ([]*entity.Film, error)
	Cinemas(ctx context.Context, limit, offset int) ([]*entity.Cinema, error)
	Film(ctx context.Context, filmID string) (*FilmPage, error)
	Cinema(ctx context.Context, cinemaID string) (*CinemaPage, error)
	BookedTickets(ctx context.Context, userID uuid.UUID) ([]*entity.TicketDetail, error)
	Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error)
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) Films(ctx context.Context, limit, offset int) ([]*entity.Film, error) {
	films, err := s.repo.Film.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get films: %w", err)
	}
	return films, nil
}

func (s *catalogService) Cinemas(ctx context.Context, limit, offset int) ([]*entity.Cinema, error) {
	cinemas, err := s.repo.Cinema.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("get cinemas: %w", err)
	}
	return cinemas, nil
}

func (s *catalogService) Film(ctx context.Context, filmID string) (*FilmPage, error) {
	id, err := parseID("film", filmID)
	if err != nil {
		return nil, err
	}

	film, err := s.repo.Film.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get film %s: %w", id, err)
	}
	if film == nil {
		return nil, notFound("film", id)
	}

	tickets, err := s.repo.Ticket.FindDetails(ctx, repository.TicketFilter{FilmID: &id})
	if err != nil {
		return nil, fmt.Errorf("get tickets of film %s: %w", id, err)
	}

	return &FilmPage{Film: film, Tickets: tickets}, nil
}

func (s *catalogService) Cinema(ctx context.Context, cinemaID string) (*CinemaPage, error) {
	id, err := parseID("cinema", cinemaID)
	if err != nil {
		return nil, err
	}

	cinema, err := s.repo.Cinema.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get cinema %s: %w", id, err)
	}
	if cinema == nil {
		return nil, notFound("cinema", id)
	}

	address, err := s.repo.Address.FindByID(ctx, cinema.AddressID)
	if err != nil {
		return nil, fmt.Errorf("get address of cinema %s: %w", id, err)
	}

	tickets, err := s.repo.Ticket.FindDetails(ctx, repository.TicketFilter{CinemaID: &id})
	if err != nil {
		return nil, fmt.Errorf("get tickets of cinema %s: %w", id, err)
	}

	return &CinemaPage{Cinema: cinema, Address: address, Tickets: tickets}, nil
}

func (s *catalogService) BookedTickets(ctx context.Context, userID uuid.UUID) ([]*entity.TicketDetail, error) {
	tickets, err := s.repo.Ticket.FindDetails(ctx, repository.TicketFilter{UserID: &userID})
	if err != nil {
		s.log.Error("Failed to get booked tickets", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("get booked tickets: %w", err)
	}
	return tickets, nil
}

func (s *catalogService) Profile(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	if user == nil {
		return nil, notFound("user", userID)
	}
	return user, nil
}
