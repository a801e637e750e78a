// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The rebuild pipeline lives here: the per-category expansion policies,
// the document accumulator and the Rebuilder that sequences a full
// destructive reindex.
package services
