package data

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Shared sentinel errors for data-layer repositories.
var (
	ErrIDRequired       = errors.New("id is required")
	ErrUsernameRequired = errors.New("username is required")
)

// isMalformedID reports whether PostgreSQL rejected an id that is not a valid UUID.
// Lookups treat that the same as a missing row.
func isMalformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation
}
