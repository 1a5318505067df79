// Package migrations embeds the goose migration files for every supported
// SQL backend. The repomanager picks the FS and dialect for its driver.
package migrations

import "embed"

//go:embed postgres/*.sql
var Postgres embed.FS

//go:embed sqlite/*.sql
var SQLite embed.FS
