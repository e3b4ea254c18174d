package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Kinds(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	tests := []struct {
		err     *Error
		kind    error
		message string
		status  int
	}{
		{NewAuthError(401, "authentication failed"), ErrAuth, "authentication failed", 401},
		{NewNotFoundError("/ghost/api/admin/posts/x/"), ErrNotFound, "resource not found: /ghost/api/admin/posts/x/", 404},
		{NewValidationError("Invalid target URL"), ErrValidation, "Invalid target URL", 422},
		{NewConnectionError(cause), ErrConnection, "connection failed: dial tcp: refused", 0},
		{NewAPIError(500, "boom"), ErrAPI, "api error 500: boom", 500},
	}
	kinds := []error{ErrAuth, ErrNotFound, ErrValidation, ErrConnection, ErrAPI}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.message)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.ErrorIs(t, tt.err, ErrGhost)
			for _, k := range kinds {
				assert.Equal(t, k == tt.kind, errors.Is(tt.err, k), k.Error())
			}
		})
	}
}

func TestError_WrappedKeepsKind(t *testing.T) {
	cause := errors.New("reset")
	err := fmt.Errorf("sync post: %w", NewConnectionError(cause))

	assert.ErrorIs(t, err, ErrConnection)
	assert.ErrorIs(t, err, cause)

	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, ErrConnection, gerr.Kind)
}

func TestError_ConfigIsNotGhostKind(t *testing.T) {
	err := fmt.Errorf("%w: base url must use https", ErrConfig)
	assert.False(t, errors.Is(err, ErrGhost))
}
