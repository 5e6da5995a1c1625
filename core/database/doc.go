// Package database handles database connections, schema inspection, and
// error classification.
//
// It provides a wrapper around GORM to configure Postgres (Supabase) and
// SQLite connections based on the application's configuration.
//
// # Schema descriptor
//
// LoadSchema builds a table/column capability descriptor once per run. The
// seeder consults it before every table-scoped operation, which lets a run
// proceed against partially-migrated schemas: a missing table is a skip,
// never a crash.
//
// # Error kinds
//
// Classify maps driver errors to a small ErrKind enumeration (not found,
// constraint violation, schema mismatch, transient, unknown) so the seeder
// switches on kind rather than parsing error text.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	schema, err := database.LoadSchema(db)
package database
