// Package migrations embeds the schema migrations for the flow database.
// Files are named NNN_description.up.sql and applied in lexical order.
package migrations

import "embed"

// FS holds the migration files, compiled into the binary so the store
// needs no external schema assets.
//
//go:embed *.sql
var FS embed.FS
