package respond

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"pepuhub/pkg/errors"
)

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.ErrNotFound, http.StatusNotFound},
		{errors.Wrap(errors.ErrNotFound, "get token"), http.StatusNotFound},
		{errors.ErrInvalidInput, http.StatusBadRequest},
		{errors.ErrForbidden, http.StatusForbidden},
		{errors.ErrUnauthorized, http.StatusUnauthorized},
		{errors.ErrAlreadyVoted, http.StatusConflict},
		{errors.ErrAlreadyExists, http.StatusConflict},
		{errors.NewValidationError("name", "required", ""), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		Error(rec, tt.err)
		assert.Equal(t, tt.want, rec.Code, "err=%v", tt.err)
	}
}

func TestJSON_SetsContentType(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"count": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"count":3}`, rec.Body.String())
}
