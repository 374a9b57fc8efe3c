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

type FilmCinemaRepository interface {
	Create(ctx context.Context, fc *entity.FilmCinema) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.FilmCinema, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.FilmCinema, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, fc *entity.FilmCinema) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type filmCinemaRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFilmCinemaRepository(db database.PgxIface, log *zap.Logger) FilmCinemaRepository {
	return &filmCinemaRepository{
		db:  db,
		log: log.With(zap.String("repository", "film_cinema")),
	}
}

const filmCinemaColumns = `id, cinema_id, film_id, created_at, updated_at`

func scanFilmCinema(row pgx.Row) (*entity.FilmCinema, error) {
	var fc entity.FilmCinema
	err := row.Scan(
		&fc.ID,
		&fc.CinemaID,
		&fc.FilmID,
		&fc.CreatedAt,
		&fc.UpdatedAt,
	)
	return &fc, err
}

func (r *filmCinemaRepository) Create(ctx context.Context, fc *entity.FilmCinema) error {
	query := `
		INSERT INTO film_cinemas (` + filmCinemaColumns + `)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.Exec(ctx, query,
		fc.ID,
		fc.CinemaID,
		fc.FilmID,
		fc.CreatedAt,
		fc.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create film cinema",
			zap.Error(err),
			zap.String("cinema_id", fc.CinemaID.String()),
			zap.String("film_id", fc.FilmID.String()),
		)
		return fmt.Errorf("create film cinema: %w", translate(err))
	}

	return nil
}

func (r *filmCinemaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.FilmCinema, error) {
	query := `SELECT ` + filmCinemaColumns + ` FROM film_cinemas WHERE id = $1`

	fc, err := scanFilmCinema(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find film cinema by ID",
			zap.Error(err),
			zap.String("film_cinema_id", id.String()),
		)
		return nil, fmt.Errorf("find film cinema by ID %s: %w", id, err)
	}

	return fc, nil
}

func (r *filmCinemaRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.FilmCinema, error) {
	query := `
		SELECT ` + filmCinemaColumns + `
		FROM film_cinemas
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all film cinemas", zap.Error(err))
		return nil, fmt.Errorf("find all film cinemas limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var list []*entity.FilmCinema
	for rows.Next() {
		fc, err := scanFilmCinema(rows)
		if err != nil {
			return nil, fmt.Errorf("scan film cinema row: %w", err)
		}
		list = append(list, fc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate film cinema rows: %w", err)
	}

	return list, nil
}

func (r *filmCinemaRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM film_cinemas`).Scan(&total); err != nil {
		r.log.Error("Failed to count film cinemas", zap.Error(err))
		return 0, fmt.Errorf("count all film cinemas: %w", err)
	}
	return total, nil
}

func (r *filmCinemaRepository) Update(ctx context.Context, fc *entity.FilmCinema) error {
	query := `
		UPDATE film_cinemas
		SET cinema_id = $2, film_id = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, fc.ID, fc.CinemaID, fc.FilmID, fc.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update film cinema",
			zap.Error(err),
			zap.String("film_cinema_id", fc.ID.String()),
		)
		return fmt.Errorf("update film cinema %s: %w", fc.ID, translate(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("film cinema %s: %w", fc.ID, ErrNotFound)
	}

	return nil
}

func (r *filmCinemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM film_cinemas WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete film cinema",
			zap.Error(err),
			zap.String("film_cinema_id", id.String()),
		)
		return fmt.Errorf("delete film cinema %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("film cinema %s: %w", id, ErrNotFound)
	}

	return nil
}
