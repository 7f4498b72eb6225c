// Package database provides the SQLite connection behind the audit trail.
//
// Tasks are never stored here; the collection lives in memory and resets on
// restart. The database only records who changed what, so a bench session
// can be reviewed afterwards.
//
// This package manages:
//   - Connection setup with WAL mode and a busy timeout
//   - Forward-only schema migrations embedded in the binary
//   - Lifecycle and health checks
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Audit.Path, WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
//
// The database file is created with 0600 permissions.
package database
