package repository

import (
	"cinephile/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Address    AddressRepository
	Cinema     CinemaRepository
	Film       FilmRepository
	FilmCinema FilmCinemaRepository
	Ticket     TicketRepository
	User       UserRepository
	Token      TokenRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Address:    NewAddressRepository(db, log),
		Cinema:     NewCinemaRepository(db, log),
		Film:       NewFilmRepository(db, log),
		FilmCinema: NewFilmCinemaRepository(db, log),
		Ticket:     NewTicketRepository(db, log),
		User:       NewUserRepository(db, log),
		Token:      NewTokenRepository(db, log),
	}
}
