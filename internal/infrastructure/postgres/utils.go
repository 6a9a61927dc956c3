package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// isUniqueViolation detecta el choque de un constraint único, que los
// repositorios traducen a domain.ErrDuplicate (o ErrEmailAlreadyExists).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// isConcurrencyFailure detecta los abortos que Postgres emite cuando dos
// transacciones chocan (deadlock o fallo de serialización): la transacción ya
// fue revertida y la operación es segura de reintentar.
func isConcurrencyFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
}
