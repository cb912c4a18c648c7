package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"food-delivery-broker/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorsUnwrapToSentinel(t *testing.T) {
	cases := []struct {
		err      *errs.Error
		sentinel error
	}{
		{errs.Validation("items must not be empty"), errs.ErrValidation},
		{errs.Unauthenticated("missing credential"), errs.ErrUnauthenticated},
		{errs.InvalidCredential("bad token"), errs.ErrInvalidCredential},
		{errs.Authorization("not your order"), errs.ErrAuthorization},
		{errs.NotFound("order", 9), errs.ErrNotFound},
		{errs.Conflict("already claimed"), errs.ErrConflict},
	}
	for _, tc := range cases {
		t.Run(tc.sentinel.Error(), func(t *testing.T) {
			assert.ErrorIs(t, tc.err, tc.sentinel)
			wrapped := fmt.Errorf("claim order: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.sentinel)
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := errs.NotFound("destination", 42)
	assert.Equal(t, "destination not found: 42", err.Error())
}

func TestWithCauseKeepsMessageClean(t *testing.T) {
	cause := errors.New("token is expired")
	err := errs.InvalidCredential("invalid credential").WithCause(cause)

	assert.Equal(t, "invalid credential (cause: token is expired)", err.Error())
	assert.Equal(t, "invalid credential", errs.Message(err))
	assert.ErrorIs(t, err, errs.ErrInvalidCredential)
	assert.Equal(t, cause, err.Cause)
}

func TestMessage(t *testing.T) {
	require.Equal(t, "", errs.Message(errors.New("boom")))
	assert.Equal(t, "order not found: 1", errs.Message(fmt.Errorf("x: %w", errs.NotFound("order", 1))))
}
