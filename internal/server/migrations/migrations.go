// Package migrations embeds the goose migrations for the SQL image index.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
