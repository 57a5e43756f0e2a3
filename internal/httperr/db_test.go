package httperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(fmt.Errorf("create: %w", &pgconn.PgError{Code: "23505"})))
	assert.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: employees.email")))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}

func TestBusinessError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrBusinessMsg("invalid_amount", "Amount must be positive"))

	assert.True(t, IsBusiness(err, "invalid_amount"))
	assert.False(t, IsBusiness(err, "other"))

	be, ok := AsBusiness(err)
	assert.True(t, ok)
	assert.Equal(t, "Amount must be positive", be.Error())
}
