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

type FilmRepository interface {
	Create(ctx context.Context, film *entity.Film) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Film, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Film, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, film *entity.Film) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type filmRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewFilmRepository(db database.PgxIface, log *zap.Logger) FilmRepository {
	return &filmRepository{
		db:  db,
		log: log.With(zap.String("repository", "film")),
	}
}

const filmColumns = `id, name, description, rating, url_image, created_at, updated_at`

func scanFilm(row pgx.Row) (*entity.Film, error) {
	var f entity.Film
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Description,
		&f.Rating,
		&f.URLImage,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	return &f, err
}

func (r *filmRepository) Create(ctx context.Context, film *entity.Film) error {
	query := `
		INSERT INTO films (` + filmColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		film.ID,
		film.Name,
		film.Description,
		film.Rating,
		film.URLImage,
		film.CreatedAt,
		film.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create film",
			zap.Error(err),
			zap.String("name", film.Name),
		)
		return fmt.Errorf("create film %s: %w", film.Name, translate(err))
	}

	return nil
}

func (r *filmRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Film, error) {
	query := `SELECT ` + filmColumns + ` FROM films WHERE id = $1`

	film, err := scanFilm(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find film by ID",
			zap.Error(err),
			zap.String("film_id", id.String()),
		)
		return nil, fmt.Errorf("find film by ID %s: %w", id, err)
	}

	return film, nil
}

func (r *filmRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Film, error) {
	query := `
		SELECT ` + filmColumns + `
		FROM films
		ORDER BY rating DESC, name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all films",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all films limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var films []*entity.Film
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			r.log.Error("Failed to scan film row", zap.Error(err))
			return nil, fmt.Errorf("scan film row: %w", err)
		}
		films = append(films, film)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate film rows: %w", err)
	}

	return films, nil
}

func (r *filmRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM films`).Scan(&total); err != nil {
		r.log.Error("Failed to count films", zap.Error(err))
		return 0, fmt.Errorf("count all films: %w", err)
	}
	return total, nil
}

func (r *filmRepository) Update(ctx context.Context, film *entity.Film) error {
	query := `
		UPDATE films
		SET name = $2, description = $3, rating = $4, url_image = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		film.ID,
		film.Name,
		film.Description,
		film.Rating,
		film.URLImage,
		film.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update film",
			zap.Error(err),
			zap.String("film_id", film.ID.String()),
		)
		return fmt.Errorf("update film %s: %w", film.ID, translate(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("film %s: %w", film.ID, ErrNotFound)
	}

	return nil
}

func (r *filmRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM films WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete film",
			zap.Error(err),
			zap.String("film_id", id.String()),
		)
		return fmt.Errorf("delete film %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("film %s: %w", id, ErrNotFound)
	}

	r.log.Info("Film deleted", zap.String("film_id", id.String()))
	return nil
}
