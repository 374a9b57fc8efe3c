package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cinephile/internal/data/entity"
	"cinephile/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

// TicketFilter narrows FindDetails. Nil fields match everything.
type TicketFilter struct {
	FilmID   *uuid.UUID
	CinemaID *uuid.UUID
	UserID   *uuid.UUID
}

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Ticket, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, ticket *entity.Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SetOwner overwrites the owner unconditionally. A nil userID releases the ticket.
	SetOwner(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error
	// ClaimIfFree assigns the ticket to userID only if it is free or already
	// owned by userID. It reports whether the claim was applied.
	ClaimIfFree(ctx context.Context, id, userID uuid.UUID) (bool, error)
	// ReleaseIfOwnedBy clears the owner only if it is userID.
	ReleaseIfOwnedBy(ctx context.Context, id, userID uuid.UUID) (bool, error)

	FindDetails(ctx context.Context, filter TicketFilter) ([]*entity.TicketDetail, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

const ticketColumns = `t.id, t.time, t.place, t.film_cinema_id, t.user_id, t.created_at, t.updated_at`

func scanTicket(row pgx.Row, extra ...any) (*entity.Ticket, error) {
	var (
		t  entity.Ticket
		tm pgtype.Time
	)
	dest := append([]any{
		&t.ID,
		&tm,
		&t.Place,
		&t.FilmCinemaID,
		&t.UserID,
		&t.CreatedAt,
		&t.UpdatedAt,
	}, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	t.Time = entity.ShowTime{Microseconds: tm.Microseconds}
	return &t, nil
}

func pgTime(t entity.ShowTime) pgtype.Time {
	return pgtype.Time{Microseconds: t.Microseconds, Valid: true}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	query := `
		INSERT INTO tickets (id, time, place, film_cinema_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		pgTime(ticket.Time),
		ticket.Place,
		ticket.FilmCinemaID,
		ticket.UserID,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("film_cinema_id", ticket.FilmCinemaID.String()),
		)
		return fmt.Errorf("create ticket: %w", translate(err))
	}

	return nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets t WHERE t.id = $1`

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return nil, fmt.Errorf("find ticket by ID %s: %w", id, err)
	}

	return ticket, nil
}

func (r *ticketRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Ticket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM tickets t
		ORDER BY t.time, t.place
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all tickets", zap.Error(err))
		return nil, fmt.Errorf("find all tickets limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket row: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticket rows: %w", err)
	}

	return tickets, nil
}

func (r *ticketRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tickets`).Scan(&total); err != nil {
		r.log.Error("Failed to count tickets", zap.Error(err))
		return 0, fmt.Errorf("count all tickets: %w", err)
	}
	return total, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *entity.Ticket) error {
	query := `
		UPDATE tickets
		SET time = $2, place = $3, film_cinema_id = $4, user_id = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		ticket.ID,
		pgTime(ticket.Time),
		ticket.Place,
		ticket.FilmCinemaID,
		ticket.UserID,
		ticket.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update ticket",
			zap.Error(err),
			zap.String("ticket_id", ticket.ID.String()),
		)
		return fmt.Errorf("update ticket %s: %w", ticket.ID, translate(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s: %w", ticket.ID, ErrNotFound)
	}

	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete ticket",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return fmt.Errorf("delete ticket %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *ticketRepository) SetOwner(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error {
	query := `UPDATE tickets SET user_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to set ticket owner",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return fmt.Errorf("set owner of ticket %s: %w", id, translate(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("ticket %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *ticketRepository) ClaimIfFree(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE tickets
		SET user_id = $2, updated_at = NOW()
		WHERE id = $1 AND (user_id IS NULL OR user_id = $2)
	`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to claim ticket",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("claim ticket %s: %w", id, translate(err))
	}

	return result.RowsAffected() == 1, nil
}

func (r *ticketRepository) ReleaseIfOwnedBy(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	query := `
		UPDATE tickets
		SET user_id = NULL, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
	`

	result, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		r.log.Error("Failed to release ticket",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("release ticket %s: %w", id, err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *ticketRepository) FindDetails(ctx context.Context, filter TicketFilter) ([]*entity.TicketDetail, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v uuid.UUID) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if filter.FilmID != nil {
		add("fc.film_id = $%d", *filter.FilmID)
	}
	if filter.CinemaID != nil {
		add("fc.cinema_id = $%d", *filter.CinemaID)
	}
	if filter.UserID != nil {
		add("t.user_id = $%d", *filter.UserID)
	}

	query := `
		SELECT ` + ticketColumns + `, f.id, f.name, c.id, c.name
		FROM tickets t
		JOIN film_cinemas fc ON fc.id = t.film_cinema_id
		JOIN films f ON f.id = fc.film_id
		JOIN cinemas c ON c.id = fc.cinema_id
	`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY t.time, t.place`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find ticket details", zap.Error(err))
		return nil, fmt.Errorf("find ticket details: %w", err)
	}
	defer rows.Close()

	var details []*entity.TicketDetail
	for rows.Next() {
		var d entity.TicketDetail
		ticket, err := scanTicket(rows, &d.FilmID, &d.FilmName, &d.CinemaID, &d.CinemaName)
		if err != nil {
			return nil, fmt.Errorf("scan ticket detail row: %w", err)
		}
		d.Ticket = *ticket
		details = append(details, &d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ticket detail rows: %w", err)
	}

	return details, nil
}
