package repository

import (
	"context"
	"errors"
	"fmt"

	"cinephile/internal/data/entity"
	"cinephile/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CinemaRepository interface {
	Create(ctx context.Context, cinema *entity.Cinema) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Cinema, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Cinema, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, cinema *entity.Cinema) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type cinemaRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCinemaRepository(db database.PgxIface, log *zap.Logger) CinemaRepository {
	return &cinemaRepository{
		db:  db,
		log: log.With(zap.String("repository", "cinema")),
	}
}

const cinemaColumns = `id, name, url_image, address_id, created_at, updated_at`

func scanCinema(row pgx.Row) (*entity.Cinema, error) {
	var c entity.Cinema
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.URLImage,
		&c.AddressID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return &c, err
}

func (r *cinemaRepository) Create(ctx context.Context, cinema *entity.Cinema) error {
	query := `
		INSERT INTO cinemas (` + cinemaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		cinema.ID,
		cinema.Name,
		cinema.URLImage,
		cinema.AddressID,
		cinema.CreatedAt,
		cinema.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create cinema",
			zap.Error(err),
			zap.String("name", cinema.Name),
			zap.String("address_id", cinema.AddressID.String()),
		)
		return fmt.Errorf("create cinema %s: %w", cinema.Name, translate(err))
	}

	return nil
}

func (r *cinemaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Cinema, error) {
	query := `SELECT ` + cinemaColumns + ` FROM cinemas WHERE id = $1`

	cinema, err := scanCinema(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find cinema by ID",
			zap.Error(err),
			zap.String("cinema_id", id.String()),
		)
		return nil, fmt.Errorf("find cinema by ID %s: %w", id, err)
	}

	return cinema, nil
}

func (r *cinemaRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Cinema, error) {
	query := `
		SELECT ` + cinemaColumns + `
		FROM cinemas
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all cinemas",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all cinemas limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var cinemas []*entity.Cinema
	for rows.Next() {
		cinema, err := scanCinema(rows)
		if err != nil {
			r.log.Error("Failed to scan cinema row", zap.Error(err))
			return nil, fmt.Errorf("scan cinema row: %w", err)
		}
		cinemas = append(cinemas, cinema)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate cinema rows: %w", err)
	}

	return cinemas, nil
}

func (r *cinemaRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cinemas`).Scan(&total); err != nil {
		r.log.Error("Failed to count cinemas", zap.Error(err))
		return 0, fmt.Errorf("count all cinemas: %w", err)
	}
	return total, nil
}

func (r *cinemaRepository) Update(ctx context.Context, cinema *entity.Cinema) error {
	query := `
		UPDATE cinemas
		SET name = $2, url_image = $3, address_id = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		cinema.ID,
		cinema.Name,
		cinema.URLImage,
		cinema.AddressID,
		cinema.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update cinema",
			zap.Error(err),
			zap.String("cinema_id", cinema.ID.String()),
		)
		return fmt.Errorf("update cinema %s: %w", cinema.ID, translate(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cinema %s: %w", cinema.ID, ErrNotFound)
	}

	return nil
}

// Delete removes the cinema; showings and their tickets cascade.
func (r *cinemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM cinemas WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete cinema",
			zap.Error(err),
			zap.String("cinema_id", id.String()),
		)
		return fmt.Errorf("delete cinema %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("cinema %s: %w", id, ErrNotFound)
	}

	r.log.Info("Cinema deleted", zap.String("cinema_id", id.String()))
	return nil
}
