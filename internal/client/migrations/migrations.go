// Package migrations embeds the SQLite schema of the local wallet database.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
