// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for a rebuild to run:
//
//   - SearchEngine: Index lifecycle and bulk document submission (Meilisearch)
//   - ContentBackend: Inventory and record fetches (Payload CMS)
//   - TextFormatter: Title composition and rich-text flattening
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - RebuildRunStore: Audit trail of rebuild runs. Without it, runs are not recorded.
//   - ConfigStore: File-backed configuration. Without it, defaults and environment apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
