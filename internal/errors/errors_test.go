package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "goship/internal/errors"
)

func TestMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantCategory string
	}{
		{"validação", apperror.NewValidationError("campo vazio"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"não autorizado", apperror.NewUnauthorizedError("token"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"proibido", apperror.NewForbiddenError("role"), http.StatusForbidden, "FORBIDDEN"},
		{"não encontrado", apperror.NewNotFoundError("x"), http.StatusNotFound, "NOT_FOUND"},
		{"conflito", apperror.NewConflictError("versão"), http.StatusConflict, "CONFLICT"},
		{"limite", apperror.NewTooManyRequestsError("aguarde"), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"interno", apperror.NewDBError("falha", errors.New("conn reset")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"encapsulado", fmt.Errorf("camada: %w", apperror.NewNotFoundError("y")), http.StatusNotFound, "NOT_FOUND"},
		{"não tipado", errors.New("boom"), http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, category, _ := apperror.MapToHTTPStatus(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCategory, category)
		})
	}
}

func TestMapToHTTPStatus_InternalHidesCause(t *testing.T) {
	_, _, msg := apperror.MapToHTTPStatus(apperror.NewDBError("falha ao buscar", errors.New("pq: password authentication failed")))
	assert.NotContains(t, msg, "password")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("causa raiz")
	err := apperror.NewInternalError("falhou", cause)
	assert.ErrorIs(t, err, cause)
	assert.True(t, apperror.IsAppError(err))
	assert.False(t, apperror.IsNotFound(err))
	assert.True(t, apperror.IsNotFound(fmt.Errorf("wrap: %w", apperror.NewNotFoundError("z"))))
}
