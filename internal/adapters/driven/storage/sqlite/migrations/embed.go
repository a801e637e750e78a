// Package migrations embeds the schema of the rebuild run history.
// Files are applied in name order; each records its version in
// schema_migrations.
package migrations

import "embed"

// FS contains the SQL migration files.
//
//go:embed *.sql
var FS embed.FS
