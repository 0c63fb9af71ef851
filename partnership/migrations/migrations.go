// Package migrations embeds the partnership database schema.
package migrations

import "embed"

// Migrations is the schema migration set in golang-migrate file naming.
//
//go:embed *.sql
var Migrations embed.FS
