package database

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// Schema is a capability descriptor for the connected database, built once
// per run. Existence checks become plain map lookups instead of probe
// queries with swallowed errors, so a partially-migrated schema never turns
// into exception-driven control flow.
type Schema struct {
	tables map[string]map[string]struct{}
}

// LoadSchema inspects the connected database and returns its table/column
// descriptor. Only the public schema is considered on postgres.
func LoadSchema(db *gorm.DB) (*Schema, error) {
	s := &Schema{tables: make(map[string]map[string]struct{})}

	if db.Dialector.Name() == "sqlite" {
		return s, s.loadSQLite(db)
	}
	return s, s.loadPostgres(db)
}

func (s *Schema) loadPostgres(db *gorm.DB) error {
	type row struct {
		TableName  string
		ColumnName string
	}
	var rows []row
	err := db.Raw(
		`SELECT table_name, column_name FROM information_schema.columns WHERE table_schema = 'public'`,
	).Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to load schema descriptor: %w", err)
	}
	for _, r := range rows {
		s.add(r.TableName, r.ColumnName)
	}
	return nil
}

func (s *Schema) loadSQLite(db *gorm.DB) error {
	var names []string
	err := db.Raw(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%'`,
	).Scan(&names).Error
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}

	// SQLite uses PRAGMA table_info per table
	for _, name := range names {
		type col struct {
			Name string
		}
		var cols []col
		if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", name)).Scan(&cols).Error; err != nil {
			return fmt.Errorf("failed to get columns for table %s: %w", name, err)
		}
		for _, c := range cols {
			s.add(name, c.Name)
		}
	}
	return nil
}

func (s *Schema) add(table, column string) {
	table = strings.ToLower(table)
	if s.tables[table] == nil {
		s.tables[table] = make(map[string]struct{})
	}
	s.tables[table][strings.ToLower(column)] = struct{}{}
}

// TableExists reports whether the named table was present when the
// descriptor was built.
func (s *Schema) TableExists(name string) bool {
	_, ok := s.tables[strings.ToLower(name)]
	return ok
}

// HasColumn reports whether the named table carries the named column.
func (s *Schema) HasColumn(table, column string) bool {
	cols, ok := s.tables[strings.ToLower(table)]
	if !ok {
		return false
	}
	_, ok = cols[strings.ToLower(column)]
	return ok
}

// Tables returns the sorted list of known table names.
func (s *Schema) Tables() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
