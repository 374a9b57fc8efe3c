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

type TokenRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Token, error)
	// FindUserByKey resolves a key to its owner in one query.
	FindUserByKey(ctx context.Context, key string) (*entity.User, error)
}

type tokenRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTokenRepository(db database.PgxIface, log *zap.Logger) TokenRepository {
	return &tokenRepository{
		db:  db,
		log: log.With(zap.String("repository", "token")),
	}
}

func (r *tokenRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Token, error) {
	query := `SELECT key, user_id, created_at FROM tokens WHERE user_id = $1`

	var token entity.Token
	err := r.db.QueryRow(ctx, query, userID).Scan(&token.Key, &token.UserID, &token.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find token by user",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("find token by user %s: %w", userID, err)
	}

	return &token, nil
}

func (r *tokenRepository) FindUserByKey(ctx context.Context, key string) (*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.key = $1
	`

	user, err := scanUser(r.db.QueryRow(ctx, query, key))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		// key is a credential, keep it out of the log
		r.log.Error("Failed to find user by token", zap.Error(err))
		return nil, fmt.Errorf("find user by token: %w", err)
	}

	return user, nil
}
