package db

import "embed"

// MigrationFS embeds SQL migration files from internal/db/migrations.
// Used by db/migrate (cmd/migrate and AUTO_MIGRATE on server boot).
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
