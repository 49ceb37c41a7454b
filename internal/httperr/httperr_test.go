package httperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	errMissing := errors.New("missing")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantID     string
	}{
		{"bad request", BadRequest(errMissing), http.StatusBadRequest, "badRequest"},
		{"unauthorized", Unauthorized(errMissing), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", Forbidden(errMissing), http.StatusForbidden, "forbidden"},
		{"not found", NotFound(errMissing), http.StatusNotFound, "notFound"},
		{"too many requests", TooManyRequests(errMissing), http.StatusTooManyRequests, "tooManyRequests"},
		{"internal", InternalServerError(errMissing), http.StatusInternalServerError, "internal"},
		{"not implemented", NotImplemented(errMissing), http.StatusNotImplemented, "notImplemented"},
		{"wrapped", fmt.Errorf("handler: %w", Forbidden(errMissing)), http.StatusForbidden, "forbidden"},
		{"plain error", errMissing, http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, id := Status(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestErrorIs(t *testing.T) {
	errMissing := errors.New("missing")
	err := BadRequest(errMissing)

	assert.ErrorIs(t, err, errMissing)
	assert.ErrorIs(t, err, BadRequest(errMissing))
	assert.NotErrorIs(t, err, Unauthorized(errMissing))
	assert.Equal(t, "missing", err.Error())
}
