// Package migrations embeds the SQL schema migrations so they travel with
// the binary and can be applied to any database file, including a freshly
// downloaded remote snapshot.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
