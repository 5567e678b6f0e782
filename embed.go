// Package storefront holds assets embedded into the binary.
package storefront

import "embed"

// Migrations contains the goose SQL migrations for the postgres storage backend.
//
//go:embed migrations/*.sql
var Migrations embed.FS
