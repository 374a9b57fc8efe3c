package usecase

import (
	"context"
	"fmt"

	"cinephile/internal/data/repository"
	"cinephile/internal/policy"
	"cinephile/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService moves a ticket between unclaimed and claimed.
//
// In overwrite mode Book always assigns the caller and Cancel always clears
// the owner, whoever held the ticket before. In claim_if_free mode Book fails
// with ErrTicketTaken when another user owns the ticket and only the owner or
// an admin may cancel. Every transition is a single UPDATE statement.
type BookingService interface {
	Book(ctx context.Context, principal *policy.Principal, ticketID string) error
	Cancel(ctx context.Context, principal *policy.Principal, ticketID string) error
}

type bookingService struct {
	repo *repository.Repository
	mode string
	log  *zap.Logger
}

func NewBookingService(repo *repository.Repository, mode string, log *zap.Logger) BookingService {
	if mode == "" {
		mode = utils.BookingModeOverwrite
	}
	return &bookingService{
		repo: repo,
		mode: mode,
		log:  log.With(zap.String("service", "booking"), zap.String("mode", mode)),
	}
}

func (s *bookingService) prepare(principal *policy.Principal, ticketID string) (uuid.UUID, error) {
	if err := policy.Check(principal, policy.TierAuthenticated); err != nil {
		return uuid.Nil, err
	}
	return parseID("ticket", ticketID)
}

func (s *bookingService) Book(ctx context.Context, principal *policy.Principal, ticketID string) error {
	id, err := s.prepare(principal, ticketID)
	if err != nil {
		return err
	}

	if s.mode == utils.BookingModeClaimIfFree {
		claimed, err := s.repo.Ticket.ClaimIfFree(ctx, id, principal.UserID)
		if err != nil {
			return storeError("book ticket", err)
		}
		if !claimed {
			return s.explain(ctx, id)
		}
	} else if err := s.repo.Ticket.SetOwner(ctx, id, &principal.UserID); err != nil {
		return storeError("book ticket", err)
	}

	s.log.Info("Ticket booked",
		zap.String("ticket_id", id.String()),
		zap.String("user_id", principal.UserID.String()),
	)
	return nil
}

func (s *bookingService) Cancel(ctx context.Context, principal *policy.Principal, ticketID string) error {
	id, err := s.prepare(principal, ticketID)
	if err != nil {
		return err
	}

	if s.mode == utils.BookingModeClaimIfFree && !principal.IsAdmin {
		released, err := s.repo.Ticket.ReleaseIfOwnedBy(ctx, id, principal.UserID)
		if err != nil {
			return storeError("cancel ticket", err)
		}
		if !released {
			ticket, err := s.repo.Ticket.FindByID(ctx, id)
			if err != nil {
				return fmt.Errorf("cancel ticket: %w", err)
			}
			switch {
			case ticket == nil:
				return notFound("ticket", id)
			case ticket.IsClaimed():
				return fmt.Errorf("cancel ticket %s: %w", id, policy.ErrAuthorizationDenied)
			}
			// already free
		}
	} else if err := s.repo.Ticket.SetOwner(ctx, id, nil); err != nil {
		return storeError("cancel ticket", err)
	}

	s.log.Info("Ticket cancelled",
		zap.String("ticket_id", id.String()),
		zap.String("user_id", principal.UserID.String()),
	)
	return nil
}

// explain tells a missing ticket from one held by somebody else after a
// claim did not apply.
func (s *bookingService) explain(ctx context.Context, id uuid.UUID) error {
	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("book ticket: %w", err)
	}
	if ticket == nil {
		return notFound("ticket", id)
	}
	return fmt.Errorf("book ticket %s: %w", id, ErrTicketTaken)
}
