package seeder

import (
	"context"

	"seed-manager/core/database"
	"seed-manager/feature/provision/models"

	"go.uber.org/zap"
	"gorm.io/gorm/clause"
)

// linkColumnPreference is the ordered list of column names a per-role link
// table may use for its user reference, across schema versions.
var linkColumnPreference = []string{"user_id", "uid", "id"}

// linkColumn picks the payload shape for a link table once, from the schema
// descriptor, instead of per-row trial and error.
func (s *Seeder) linkColumn(table string) (string, bool) {
	for _, column := range linkColumnPreference {
		if s.store.Schema().HasColumn(table, column) {
			return column, true
		}
	}
	return "", false
}

// ensureLinks best-effort inserts one link row per user into an auxiliary
// per-role table. Failures of any kind are counted and logged, never raised;
// this phase must not abort a run.
func (s *Seeder) ensureLinks(ctx context.Context, table string, users []models.User, report *Report) {
	if len(users) == 0 {
		return
	}
	if !s.store.TableExists(table) {
		s.log.Info("link table absent, skipping", zap.String("table", table))
		report.LinksSkipped += len(users)
		return
	}

	column, ok := s.linkColumn(table)
	if !ok {
		s.log.Warn("link table has no recognized user column",
			zap.String("table", table))
		report.LinksSkipped += len(users)
		return
	}

	db := s.store.DB().WithContext(ctx)
	for _, user := range users {
		err := db.Table(table).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(map[string]any{column: user.ID}).Error
		if err != nil {
			report.LinksSkipped++
			kind := database.Classify(err)
			s.log.Warn("link insert skipped",
				zap.String("table", table),
				zap.String("user_id", user.ID),
				zap.String("kind", kind.String()),
				zap.Error(err),
			)
			continue
		}
		report.LinksInserted++
	}
}
