package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(pgError("23505")))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert movement: %w", pgError("23505"))), "debe ver a través del wrap")
	assert.False(t, isUniqueViolation(pgError("40001")))
	assert.False(t, isUniqueViolation(errors.New("otra cosa")))
}

// Deadlock (40P01) y fallo de serialización (40001) son abortos reintentables:
// el TxRunner los traduce a domain.ErrConcurrency en lugar de dejarlos salir
// como error interno.
func TestIsConcurrencyFailure(t *testing.T) {
	assert.True(t, isConcurrencyFailure(pgError("40P01")), "deadlock detectado")
	assert.True(t, isConcurrencyFailure(pgError("40001")), "serialization failure")
	assert.True(t, isConcurrencyFailure(fmt.Errorf("update stock: %w", pgError("40P01"))))
	assert.False(t, isConcurrencyFailure(pgError("23505")))
	assert.False(t, isConcurrencyFailure(errors.New("connection reset")))
	assert.False(t, isConcurrencyFailure(nil))
}
