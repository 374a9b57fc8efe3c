package usecase

import (
	"cinephile/internal/data/repository"
	"cinephile/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth       AuthService
	User       UserService
	Address    AddressService
	Cinema     CinemaService
	Film       FilmService
	FilmCinema FilmCinemaService
	Ticket     TicketService
	Booking    BookingService
	Catalog    CatalogService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:       NewAuthService(repo, log),
		User:       NewUserService(repo, log),
		Address:    NewAddressService(repo, log),
		Cinema:     NewCinemaService(repo, log),
		Film:       NewFilmService(repo, log),
		FilmCinema: NewFilmCinemaService(repo, log),
		Ticket:     NewTicketService(repo, log),
		Booking:    NewBookingService(repo, config.Booking.Mode, log),
		Catalog:    NewCatalogService(repo, log),
	}
}
