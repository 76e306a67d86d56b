// Package migrations embeds the SQL schema applied by goose when the store is
// opened.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
