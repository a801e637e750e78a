package tui

import "errors"

// ErrMissingRebuilder is returned when the rebuild service is not provided.
var ErrMissingRebuilder = errors.New("tui: rebuild service is required")
