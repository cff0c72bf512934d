// Package migrations holds the goose SQL files for the Postgres schema.
package migrations

import "embed"

// FS carries every migration so binaries do not depend on the working directory.
//
//go:embed *.sql
var FS embed.FS
