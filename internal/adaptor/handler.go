package adaptor

import (
	"errors"
	"net/http"

	"cinephile/internal/dto/request"
	"cinephile/internal/dto/response"
	"cinephile/internal/policy"
	"cinephile/internal/usecase"
	"cinephile/internal/validation"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth       *AuthHandler
	Address    *AddressHandler
	Cinema     *CinemaHandler
	Film       *FilmHandler
	FilmCinema *FilmCinemaHandler
	Ticket     *TicketHandler
	User       *UserHandler
	Page       *PageHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(service.Auth, log),
		Address:    NewResourceHandler[request.AddressRequest, response.AddressResponse]("address", service.Address, log),
		Cinema:     NewResourceHandler[request.CinemaRequest, response.CinemaResponse]("cinema", service.Cinema, log),
		Film:       NewResourceHandler[request.FilmRequest, response.FilmResponse]("film", service.Film, log),
		FilmCinema: NewResourceHandler[request.FilmCinemaRequest, response.FilmCinemaResponse]("film_cinema", service.FilmCinema, log),
		Ticket:     NewResourceHandler[request.TicketRequest, response.TicketResponse]("ticket", service.Ticket, log),
		User:       NewResourceHandler[request.UserRequest, response.UserResponse]("user", service.User, log),
		Page:       NewPageHandler(service, config.Auth, log),
	}
}

// writeServiceError maps service errors onto the response envelope.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var verr validation.Errors

	switch {
	case errors.As(err, &verr):
		log.Warn(operation+" validation failed", zap.Any("errors", verr))
		utils.ResponseBadRequest(w, "Validation failed", verr)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, "Not found")

	case errors.Is(err, usecase.ErrInvalidID):
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrConflict):
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), map[string][]string{
			"non_field_errors": {"the fields must make a unique set"},
		})

	case errors.Is(err, usecase.ErrTicketTaken):
		utils.ResponseBadRequest(w, usecase.ErrTicketTaken.Error(), nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		utils.ResponseBadRequest(w, "Validation failed", map[string][]string{
			"non_field_errors": {usecase.ErrInvalidCredentials.Error()},
		})

	case errors.Is(err, usecase.ErrInvalidToken), errors.Is(err, policy.ErrAuthenticationRequired):
		utils.ResponseUnauthorized(w, "Authentication credentials were not provided")

	case errors.Is(err, policy.ErrAuthorizationDenied):
		utils.ResponseForbidden(w, "You do not have permission to perform this action")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
