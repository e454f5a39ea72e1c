package db

import "embed"

// Migrations holds the ordered SQL files applied by cmd/migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS
