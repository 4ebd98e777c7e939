package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainErrorWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewHolidayFetch("BR", 2026, cause)

	var domainErr *DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, CodeHolidayFetch, domainErr.Code)
	assert.Equal(t, http.StatusBadGateway, domainErr.HTTPStatus)
	assert.Contains(t, err.Error(), "connection refused")
	assert.ErrorIs(t, err, cause)
}

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"invalid range", NewInvalidRange("resolved before created", nil), CodeInvalidRange, http.StatusUnprocessableEntity},
		{"unresolved issue", NewUnresolvedIssue("PROJ-1"), CodeUnresolvedIssue, http.StatusUnprocessableEntity},
		{"unknown priority", NewUnknownPriority("Blocker"), CodeUnknownPriority, http.StatusUnprocessableEntity},
		{"validation", NewValidationError("bad request", nil), CodeValidationFailed, http.StatusBadRequest},
		{"not found", NewNotFound("result", nil), CodeNotFound, http.StatusNotFound},
		{"unauthorized", NewUnauthorized("invalid token"), CodeUnauthorized, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, CodeOf(tt.err))
			assert.True(t, HasCode(tt.err, tt.code))

			var domainErr *DomainError
			require.ErrorAs(t, tt.err, &domainErr)
			assert.Equal(t, tt.status, domainErr.HTTPStatus)
		})
	}
}

func TestCodeOfForeignError(t *testing.T) {
	assert.Empty(t, CodeOf(nil))
	assert.Empty(t, CodeOf(errors.New("plain")))
	assert.False(t, HasCode(errors.New("plain"), CodeInvalidRange))
}

func TestCodeOfWrappedError(t *testing.T) {
	err := fmt.Errorf("evaluate PROJ-1: %w", NewUnknownPriority("Blocker"))
	assert.Equal(t, CodeUnknownPriority, CodeOf(err))
}

func TestToDomainError(t *testing.T) {
	domain := ToDomainError(NewInvalidRange("reversed", nil))
	require.NotNil(t, domain)
	assert.Equal(t, CodeInvalidRange, domain.Code)

	internal := ToDomainError(errors.New("boom"))
	require.NotNil(t, internal)
	assert.Equal(t, CodeInternalError, internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)

	assert.Nil(t, ToDomainError(nil))
}
