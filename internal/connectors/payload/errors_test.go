package payload

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/accords-library/search-sync/internal/core/domain"
)

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 404, Message: "not found", URL: "http://cms/api/pages/slug/x"}
	assert.Equal(t, "payload: API error 404: not found (URL: http://cms/api/pages/slug/x)", err.Error())
}

func TestAPIError_Is(t *testing.T) {
	tests := []struct {
		status int
		target error
		want   bool
	}{
		{http.StatusUnauthorized, domain.ErrUnauthorized, true},
		{http.StatusForbidden, domain.ErrUnauthorized, true},
		{http.StatusNotFound, domain.ErrNotFound, true},
		{http.StatusTooManyRequests, ErrRateLimited, true},
		{http.StatusNotFound, domain.ErrUnauthorized, false},
		{http.StatusInternalServerError, domain.ErrNotFound, false},
		{http.StatusInternalServerError, domain.ErrConnectivity, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%v", tt.status, tt.target), func(t *testing.T) {
			err := fmt.Errorf("wrapped: %w", &APIError{StatusCode: tt.status})
			assert.Equal(t, tt.want, errors.Is(err, tt.target))
		})
	}
}

func TestHelpers(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{StatusCode: http.StatusNotFound}))
	assert.True(t, IsUnauthorized(&APIError{StatusCode: http.StatusForbidden}))
	assert.True(t, IsRateLimited(&APIError{StatusCode: http.StatusTooManyRequests}))
	assert.False(t, IsNotFound(errors.New("other")))
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"errors envelope", `{"errors":[{"message":"a"},{"message":"b"}]}`, "a; b"},
		{"message field", `{"message":"denied"}`, "denied"},
		{"plain text", "upstream down", "upstream down"},
		{"empty", "", "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorMessage(http.StatusServiceUnavailable, []byte(tt.body)))
		})
	}
}
