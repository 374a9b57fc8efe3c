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

type TicketService interface {
	List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketResponse], error)
	Create(ctx context.Context, req *request.TicketRequest) (*response.TicketResponse, error)
	Get(ctx context.Context, ticketID string) (*response.TicketResponse, error)
	Update(ctx context.Context, ticketID string, req *request.TicketRequest) (*response.TicketResponse, error)
	Delete(ctx context.Context, ticketID string) error
}

type ticketService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewTicketService(repo *repository.Repository, log *zap.Logger) TicketService {
	return &ticketService{
		repo: repo,
		log:  log.With(zap.String("service", "ticket")),
	}
}

func (s *ticketService) List(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketResponse], error) {
	tickets, err := s.repo.Ticket.FindAll(ctx, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get tickets: %w", err)
	}

	total, err := s.repo.Ticket.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("count tickets: %w", err)
	}

	data := response.Map(tickets, func(t *entity.Ticket) response.TicketResponse {
		return response.TicketToResponse(t)
	})
	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

func (s *ticketService) validate(ctx context.Context, req *request.TicketRequest, missing map[string]string, ticket *entity.Ticket) error {
	errs := checkRequest(req, missing, ticket)

	if _, failed := errs["film_cinema"]; !failed && ticket.FilmCinemaID != uuid.Nil {
		fc, err := s.repo.FilmCinema.FindByID(ctx, ticket.FilmCinemaID)
		if err != nil {
			return fmt.Errorf("check film cinema %s: %w", ticket.FilmCinemaID, err)
		}
		if fc == nil {
			objectMissing(errs, "film_cinema", ticket.FilmCinemaID)
		}
	}

	if _, failed := errs["user"]; !failed && ticket.UserID != nil {
		user, err := s.repo.User.FindByID(ctx, *ticket.UserID)
		if err != nil {
			return fmt.Errorf("check user %s: %w", *ticket.UserID, err)
		}
		if user == nil {
			objectMissing(errs, "user", *ticket.UserID)
		}
	}

	return errs.Err()
}

func (s *ticketService) Create(ctx context.Context, req *request.TicketRequest) (*response.TicketResponse, error) {
	ticket := &entity.Ticket{Base: entity.NewBase(time.Now())}
	req.Apply(ticket)

	if err := s.validate(ctx, req, req.Missing(), ticket); err != nil {
		s.log.Warn("Create ticket validation failed", zap.Error(err))
		return nil, err
	}

	if err := s.repo.Ticket.Create(ctx, ticket); err != nil {
		return nil, storeError("create ticket", err)
	}

	s.log.Info("Ticket created",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("film_cinema_id", ticket.FilmCinemaID.String()),
	)

	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

func (s *ticketService) find(ctx context.Context, ticketID string) (*entity.Ticket, error) {
	id, err := parseID("ticket", ticketID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket %s: %w", ticketID, err)
	}
	if ticket == nil {
		return nil, notFound("ticket", id)
	}
	return ticket, nil
}

func (s *ticketService) Get(ctx context.Context, ticketID string) (*response.TicketResponse, error) {
	ticket, err := s.find(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

func (s *ticketService) Update(ctx context.Context, ticketID string, req *request.TicketRequest) (*response.TicketResponse, error) {
	ticket, err := s.find(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	req.Apply(ticket)
	if err := s.validate(ctx, req, nil, ticket); err != nil {
		return nil, err
	}

	ticket.Touch(time.Now())
	if err := s.repo.Ticket.Update(ctx, ticket); err != nil {
		return nil, storeError("update ticket", err)
	}

	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

func (s *ticketService) Delete(ctx context.Context, ticketID string) error {
	id, err := parseID("ticket", ticketID)
	if err != nil {
		return err
	}

	if err := s.repo.Ticket.Delete(ctx, id); err != nil {
		return storeError("delete ticket", err)
	}

	s.log.Info("Ticket deleted", zap.String("ticket_id", ticketID))
	return nil
}
