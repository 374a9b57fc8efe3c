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

type AddressRepository interface {
	Create(ctx context.Context, address *entity.Address) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Address, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.Address, error)
	CountAll(ctx context.Context) (int64, error)
	Update(ctx context.Context, address *entity.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type addressRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewAddressRepository(db database.PgxIface, log *zap.Logger) AddressRepository {
	return &addressRepository{
		db:  db,
		log: log.With(zap.String("repository", "address")),
	}
}

const addressColumns = `id, city_name, street_name, house_number, apartment_number, body, created_at, updated_at`

func scanAddress(row pgx.Row) (*entity.Address, error) {
	var a entity.Address
	err := row.Scan(
		&a.ID,
		&a.CityName,
		&a.StreetName,
		&a.HouseNumber,
		&a.ApartmentNumber,
		&a.Body,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return &a, err
}

func (r *addressRepository) Create(ctx context.Context, address *entity.Address) error {
	query := `
		INSERT INTO addresses (` + addressColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		address.ID,
		address.CityName,
		address.StreetName,
		address.HouseNumber,
		address.ApartmentNumber,
		address.Body,
		address.CreatedAt,
		address.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create address",
			zap.Error(err),
			zap.String("city_name", address.CityName),
		)
		return fmt.Errorf("create address: %w", translate(err))
	}

	return nil
}

func (r *addressRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`

	address, err := scanAddress(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find address by ID",
			zap.Error(err),
			zap.String("address_id", id.String()),
		)
		return nil, fmt.Errorf("find address by ID %s: %w", id, err)
	}

	return address, nil
}

func (r *addressRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		ORDER BY city_name, street_name, house_number
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find all addresses", zap.Error(err))
		return nil, fmt.Errorf("find all addresses limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var addresses []*entity.Address
	for rows.Next() {
		address, err := scanAddress(rows)
		if err != nil {
			r.log.Error("Failed to scan address row", zap.Error(err))
			return nil, fmt.Errorf("scan address row: %w", err)
		}
		addresses = append(addresses, address)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate address rows: %w", err)
	}

	return addresses, nil
}

func (r *addressRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM addresses`).Scan(&total); err != nil {
		r.log.Error("Failed to count addresses", zap.Error(err))
		return 0, fmt.Errorf("count all addresses: %w", err)
	}
	return total, nil
}

func (r *addressRepository) Update(ctx context.Context, address *entity.Address) error {
	query := `
		UPDATE addresses
		SET city_name = $2, street_name = $3, house_number = $4,
		    apartment_number = $5, body = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		address.ID,
		address.CityName,
		address.StreetName,
		address.HouseNumber,
		address.ApartmentNumber,
		address.Body,
		address.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update address",
			zap.Error(err),
			zap.String("address_id", address.ID.String()),
		)
		return fmt.Errorf("update address %s: %w", address.ID, translate(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("address %s: %w", address.ID, ErrNotFound)
	}

	return nil
}

// Delete removes the address; its cinemas go with it through the foreign key.
func (r *addressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete address",
			zap.Error(err),
			zap.String("address_id", id.String()),
		)
		return fmt.Errorf("delete address %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("address %s: %w", id, ErrNotFound)
	}

	r.log.Info("Address deleted", zap.String("address_id", id.String()))
	return nil
}
