package migrations

import "embed"

// FS contains the embedded SQLite migrations of the score board.
//
//go:embed *.sql
var FS embed.FS
