// Package db embeds the postgres schema migrations.
package db

import "embed"

// Migrations holds migrations/*.sql for store.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS
