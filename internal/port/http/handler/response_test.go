package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abdurahmanit/GroupProject/plant-service/internal/domain/entity"
	"github.com/Abdurahmanit/GroupProject/plant-service/internal/platform/logger"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("verify: %w", entity.ErrUnauthenticated), http.StatusUnauthorized},
		{fmt.Errorf("%w: not yours", entity.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("order o1: %w", entity.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: cannot cancel once the product is delivered", entity.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: request already sent", entity.ErrRejected), http.StatusBadRequest},
		{fmt.Errorf("%w: quantity must be positive", entity.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: image storage is not configured", entity.ErrUnavailable), http.StatusServiceUnavailable},
		{errors.New("socket closed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/plants", nil)

	rec := httptest.NewRecorder()
	writeError(rec, logger.NewNop(), req, errors.New("mongo: server selection timeout"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	writeError(rec, logger.NewNop(), req, fmt.Errorf("%w: cannot cancel once the product is delivered", entity.ErrConflict))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"message":"conflict: cannot cancel once the product is delivered"}`, rec.Body.String())
}
