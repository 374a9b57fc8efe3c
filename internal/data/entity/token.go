package entity

import (
	"time"

	"github.com/google/uuid"
)

const TokenKeyLength = 40

// Token is the API access key of a user. There is exactly one per user.
type Token struct {
	Key       string    `db:"key"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
