// Package migrations embeds the audit database schema into the binary.
package migrations

import (
	"embed"

	"github.com/nerrad567/todo-mock/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
