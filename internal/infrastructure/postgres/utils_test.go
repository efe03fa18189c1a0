package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestAsConflict(t *testing.T) {
	for _, code := range []string{codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected} {
		err := asConflict(fmt.Errorf("select for update: %w", &pgconn.PgError{Code: code}))
		var conflict *domain.ConflictError
		assert.True(t, errors.As(err, &conflict), code)
		assert.True(t, domain.IsRetryable(err), code)
	}

	plain := errors.New("boom")
	assert.Same(t, plain, asConflict(plain))
	assert.Nil(t, asConflict(nil))
	assert.False(t, domain.IsRetryable(asConflict(&pgconn.PgError{Code: codeUniqueViolation})))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
