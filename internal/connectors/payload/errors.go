package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/accords-library/search-sync/internal/core/domain"
)

// ErrRateLimited indicates the backend answered 429 Too Many Requests.
var ErrRateLimited = errors.New("payload: rate limit exceeded")

// APIError represents a non-2xx Payload API response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payload: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Is maps status codes onto domain sentinels.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return target == domain.ErrUnauthorized
	case http.StatusNotFound:
		return target == domain.ErrNotFound
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	return false
}

// IsNotFound checks if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// IsUnauthorized checks if the error indicates rejected credentials.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// errorBody is Payload's error envelope.
type errorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// newAPIError builds an APIError from a failed response body.
func newAPIError(statusCode int, url string, body []byte) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    errorMessage(statusCode, body),
		URL:        url,
	}
}

func errorMessage(statusCode int, body []byte) string {
	var decoded errorBody
	if err := json.Unmarshal(body, &decoded); err == nil {
		messages := make([]string, 0, len(decoded.Errors))
		for _, e := range decoded.Errors {
			if e.Message != "" {
				messages = append(messages, e.Message)
			}
		}
		if len(messages) > 0 {
			return strings.Join(messages, "; ")
		}
		if decoded.Message != "" {
			return decoded.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		return text
	}
	return http.StatusText(statusCode)
}
