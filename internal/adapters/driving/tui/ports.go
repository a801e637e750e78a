// Package tui renders the progress of a rebuild in the terminal.
// It is a driving adapter over the driving.Rebuilder port.
package tui

import (
	"github.com/accords-library/search-sync/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI needs.
type Ports struct {
	// Rebuilder runs the rebuild and reports its status.
	Rebuilder driving.Rebuilder
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Rebuilder == nil {
		return ErrMissingRebuilder
	}
	return nil
}
