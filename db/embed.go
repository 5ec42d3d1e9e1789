// Package db embeds the SQL schema migrations.
package db

import "embed"

// Migrations holds the files under migrations/, applied in version order.
//
//go:embed migrations
var Migrations embed.FS
