package db

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// NewID generates a UUIDv7 row ID.
func NewID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.Must(uuid.NewV7()), Valid: true}
}

// UuidToString converts a pgtype.UUID to its string representation.
func UuidToString(u pgtype.UUID) string {
	return uuid.UUID(u.Bytes).String()
}

// Timestamptz wraps a time.Time as a valid pgtype.Timestamptz.
func Timestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// TimestamptzFromUnix converts a provider unix-epoch timestamp. Zero maps to
// SQL NULL.
func TimestamptzFromUnix(sec int64) pgtype.Timestamptz {
	if sec == 0 {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: time.Unix(sec, 0).UTC(), Valid: true}
}
