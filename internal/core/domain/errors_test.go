package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnauthorized", ErrUnauthorized},
		{"ErrConnectivity", ErrConnectivity},
		{"ErrIndexDeletion", ErrIndexDeletion},
		{"ErrSchemaConfiguration", ErrSchemaConfiguration},
		{"ErrRecordTransform", ErrRecordTransform},
		{"ErrBulkSubmit", ErrBulkSubmit},
		{"ErrDuplicateDocumentKey", ErrDuplicateDocumentKey},
		{"ErrRebuildInProgress", ErrRebuildInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

// TestErrors_Wrapping tests that wrapped errors match their sentinel
func TestErrors_Wrapping(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("%w: %w", ErrConnectivity, cause)

	assert.True(t, errors.Is(err, ErrConnectivity))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrBulkSubmit))
}

// TestIndexDeletionError tests the aggregate deletion failure
func TestIndexDeletionError(t *testing.T) {
	boom := errors.New("boom")
	err := &IndexDeletionError{Failures: map[string]error{
		"zeta":  boom,
		"alpha": errors.New("timeout"),
	}}

	assert.Equal(t, []string{"alpha", "zeta"}, err.FailedIndexes())
	assert.Equal(t, "index deletion failed: alpha, zeta", err.Error())
	assert.True(t, errors.Is(err, ErrIndexDeletion))
	assert.True(t, errors.Is(err, boom))
	assert.False(t, errors.Is(err, ErrSchemaConfiguration))

	wrapped := fmt.Errorf("wipe indexes: %w", err)
	var target *IndexDeletionError
	assert.True(t, errors.As(wrapped, &target))
	assert.Len(t, target.Failures, 2)
}
