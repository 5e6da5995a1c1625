package store

import (
	"context"
	"fmt"

	"seed-manager/core/database"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeleteChunkSize bounds the id list of a single DELETE ... IN statement to
// respect store-side limits on IN clause size.
const DeleteChunkSize = 200

// Store is the relational store adapter. Every table-scoped operation is
// guarded by the schema descriptor, so runs against partially-migrated
// schemas skip missing tables instead of crashing.
type Store struct {
	db     *gorm.DB
	schema *database.Schema
	log    *zap.Logger
}

// New creates a Store over an open connection and its schema descriptor.
func New(db *gorm.DB, schema *database.Schema, log *zap.Logger) *Store {
	return &Store{db: db, schema: schema, log: log}
}

// DB exposes the underlying connection for typed queries.
func (s *Store) DB() *gorm.DB { return s.db }

// Schema exposes the capability descriptor.
func (s *Store) Schema() *database.Schema { return s.schema }

// TableExists reports whether the table was present when the descriptor was
// built.
func (s *Store) TableExists(name string) bool {
	return s.schema.TableExists(name)
}

// Count returns the row count of the table.
func (s *Store) Count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// DeleteAll deletes every row of the table. When the table is absent this is
// a logged no-op, never an error.
func (s *Store) DeleteAll(ctx context.Context, table string) error {
	if !s.schema.TableExists(table) {
		s.log.Info("table absent, skipping delete", zap.String("table", table))
		return nil
	}
	result := s.db.WithContext(ctx).Table(table).Where("1 = 1").Delete(nil)
	if result.Error != nil {
		return fmt.Errorf("failed to wipe %s: %w", table, result.Error)
	}
	s.log.Info("wiped table", zap.String("table", table), zap.Int64("rows", result.RowsAffected))
	return nil
}

// ChunkedDelete deletes the given ids in bounded IN batches. Any chunk
// failure aborts the whole deletion.
func (s *Store) ChunkedDelete(ctx context.Context, table, column string, ids []string) error {
	if !s.schema.TableExists(table) {
		s.log.Info("table absent, skipping delete", zap.String("table", table))
		return nil
	}
	for start := 0; start < len(ids); start += DeleteChunkSize {
		end := start + DeleteChunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]
		result := s.db.WithContext(ctx).Table(table).
			Where(column+" IN ?", chunk).
			Delete(nil)
		if result.Error != nil {
			return fmt.Errorf("failed to delete chunk from %s: %w", table, result.Error)
		}
	}
	return nil
}

// DeleteWhereNotIn deletes every row whose column value is not in keep.
// With an empty keep set it behaves like DeleteAll.
func (s *Store) DeleteWhereNotIn(ctx context.Context, table, column string, keep []string) error {
	if !s.schema.TableExists(table) {
		s.log.Info("table absent, skipping delete", zap.String("table", table))
		return nil
	}
	if len(keep) == 0 {
		return s.DeleteAll(ctx, table)
	}
	result := s.db.WithContext(ctx).Table(table).
		Where(column+" NOT IN ?", keep).
		Delete(nil)
	if result.Error != nil {
		return fmt.Errorf("failed to reconcile %s: %w", table, result.Error)
	}
	s.log.Info("reconciled table", zap.String("table", table), zap.Int64("deleted", result.RowsAffected))
	return nil
}

// NullifyColumn sets every non-null value of the column to NULL. Detaching
// cross-references this way must happen before any row deletion. Absent
// tables and columns are logged no-ops.
func (s *Store) NullifyColumn(ctx context.Context, table, column string) error {
	if !s.schema.HasColumn(table, column) {
		s.log.Info("column absent, skipping detach",
			zap.String("table", table), zap.String("column", column))
		return nil
	}
	result := s.db.WithContext(ctx).Table(table).
		Where(column+" IS NOT NULL").
		Update(column, nil)
	if result.Error != nil {
		return fmt.Errorf("failed to detach %s.%s: %w", table, column, result.Error)
	}
	s.log.Info("detached cross-references",
		zap.String("table", table), zap.String("column", column),
		zap.Int64("rows", result.RowsAffected))
	return nil
}

// UpsertByNaturalKey performs a single batched upsert keyed on the given
// conflict columns. Only updateColumns are written on conflict, so repeated
// calls with identical input produce no duplicates and reset no unrelated
// fields. Row ids in the payload are candidates: an existing row keeps its
// id, callers needing canonical ids re-select after the upsert.
func UpsertByNaturalKey[T any](ctx context.Context, s *Store, rows []T, conflictColumns, updateColumns []string) error {
	if len(rows) == 0 {
		return nil
	}
	cols := make([]clause.Column, len(conflictColumns))
	for i, name := range conflictColumns {
		cols[i] = clause.Column{Name: name}
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   cols,
			DoUpdates: clause.AssignmentColumns(updateColumns),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to upsert rows: %w", err)
	}
	return nil
}
