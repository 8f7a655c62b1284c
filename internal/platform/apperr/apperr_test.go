package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"empty cart", EmptyCart("empty"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("no"), http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), http.StatusForbidden},
		{"not found", NotFound("gone"), http.StatusNotFound},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"override", Validation("short").WithStatus(http.StatusUnprocessableEntity), http.StatusUnprocessableEntity},
		{"wrapped", fmt.Errorf("place order: %w", NotFound("book")), http.StatusNotFound},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, "VALIDATION_FAILED", Validation("x").ErrorCode())
	assert.Equal(t, "REVIEW_ALREADY_EXISTS", Conflict("x").WithCode("REVIEW_ALREADY_EXISTS").ErrorCode())
	assert.Equal(t, "INTERNAL_ERROR", Internal(errors.New("db"), "x").ErrorCode())
}

func TestInternalUnwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause, "load cart")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load cart: connection reset", err.Error())
	assert.True(t, Is(err, KindInternal))
	assert.False(t, Is(nil, KindInternal))
}
