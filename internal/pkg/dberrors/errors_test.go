package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, Translate("noop", nil))

	dup := &pgconn.PgError{Code: "23505", Message: "duplicate key value", ConstraintName: "waitlist_email_key"}
	err := Translate("waitlist.insert", fmt.Errorf("exec: %w", dup))
	require.Error(t, err)
	assert.Equal(t, CodeUniqueViolation, Code(err))
	assert.True(t, IsUniqueViolation(err))
	assert.True(t, IsDuplicateConstraintError(err, "waitlist_email_key"))
	assert.False(t, IsDuplicateConstraintError(err, "other_key"))

	missing := Translate("profiles.get", pgx.ErrNoRows)
	assert.True(t, IsNotFound(missing))
	assert.Equal(t, CodeNotFound, Code(missing))

	plain := Translate("events.list", errors.New("connection reset"))
	assert.Equal(t, CodeUnknown, Code(plain))
	assert.Contains(t, plain.Error(), "events.list")

	again := Translate("outer", missing)
	assert.Same(t, missing, again)
}
