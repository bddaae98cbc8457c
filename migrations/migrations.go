// Package migrations embeds the SQL migrations for the content entities
// schema so binaries can run them without shipping loose files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
