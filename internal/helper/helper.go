package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
)

// Validate is the shared request validator; struct tags live on the DTOs.
var Validate = validator.New()

// IsDuplicateKey reports whether err is a postgres unique-constraint
// violation (SQLSTATE 23505).
func IsDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
