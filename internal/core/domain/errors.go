package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Domain errors represent pipeline failures.
// Adapters wrap their own errors with these so callers can classify a
// failed rebuild with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates a collaborator rejected our credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// Rebuild Errors.

	// ErrConnectivity indicates the search engine or the content backend
	// could not be reached.
	ErrConnectivity = errors.New("connectivity failure")

	// ErrIndexDeletion indicates one or more existing indexes failed to delete.
	ErrIndexDeletion = errors.New("index deletion failed")

	// ErrSchemaConfiguration indicates index creation or attribute
	// configuration was rejected by the search engine.
	ErrSchemaConfiguration = errors.New("schema configuration failed")

	// ErrRecordTransform indicates a content record is missing an expected
	// field or is malformed.
	ErrRecordTransform = errors.New("record transform failed")

	// ErrBulkSubmit indicates the final document submission failed.
	ErrBulkSubmit = errors.New("bulk submit failed")

	// ErrDuplicateDocumentKey indicates two documents of one rebuild share a key.
	ErrDuplicateDocumentKey = errors.New("duplicate document key")

	// ErrRebuildInProgress indicates a rebuild is already running.
	ErrRebuildInProgress = errors.New("rebuild in progress")
)

// IndexDeletionError aggregates the failures of a concurrent index wipe.
// It matches ErrIndexDeletion and unwraps to every individual failure.
type IndexDeletionError struct {
	// Failures maps index UID to the error its deletion returned.
	Failures map[string]error
}

// Error implements the error interface.
func (e *IndexDeletionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrIndexDeletion, strings.Join(e.FailedIndexes(), ", "))
}

// FailedIndexes returns the UIDs that failed to delete, sorted.
func (e *IndexDeletionError) FailedIndexes() []string {
	uids := make([]string, 0, len(e.Failures))
	for uid := range e.Failures {
		uids = append(uids, uid)
	}
	sort.Strings(uids)
	return uids
}

// Is reports whether target is ErrIndexDeletion.
func (e *IndexDeletionError) Is(target error) bool {
	return target == ErrIndexDeletion
}

// Unwrap returns the per-index errors.
func (e *IndexDeletionError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, uid := range e.FailedIndexes() {
		errs = append(errs, fmt.Errorf("delete index %q: %w", uid, e.Failures[uid]))
	}
	return errs
}
