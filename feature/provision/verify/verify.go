package verify

import (
	"context"
	"sort"
	"strings"
	"sync"

	"seed-manager/feature/provision/store"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// checkedTables is the fixed list the precheck inspects. Missing tables are
// reported, not errors; partially-migrated schemas are a supported target.
var checkedTables = []string{
	"users",
	"admin_users",
	"doctors",
	"patients",
	"centers",
	"specialties",
	"lab_test_types",
	"center_lab_services",
	"center_lab_schedules",
	"doctor_centers",
	"appointments",
	"lab_bookings",
	"billing",
}

const countConcurrency = 4

// Snapshot is one point-in-time view of the domain store.
type Snapshot struct {
	// Counts maps each present table to its row count.
	Counts map[string]int64
	// Missing lists checked tables absent from the schema, sorted.
	Missing []string
}

// Checker runs pre- and post-run consistency inspections.
type Checker struct {
	store *store.Store
	log   *zap.Logger
}

// New creates a Checker over the store.
func New(st *store.Store, log *zap.Logger) *Checker {
	return &Checker{store: st, log: log}
}

// Precheck counts every checked table with bounded concurrency and returns
// the snapshot. A count failure on a present table fails the whole check.
func (c *Checker) Precheck(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{Counts: make(map[string]int64, len(checkedTables))}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countConcurrency)

	for _, table := range checkedTables {
		if !c.store.TableExists(table) {
			snap.Missing = append(snap.Missing, table)
			continue
		}
		table := table
		g.Go(func() error {
			n, err := c.store.Count(gctx, table)
			if err != nil {
				return err
			}
			mu.Lock()
			snap.Counts[table] = n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(snap.Missing)
	return snap, nil
}

// Log writes the snapshot through the logger in stable order.
func (s *Snapshot) Log(l *zap.Logger) {
	tables := make([]string, 0, len(s.Counts))
	for t := range s.Counts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		l.Info("table state", zap.String("table", t), zap.Int64("rows", s.Counts[t]))
	}
	if len(s.Missing) > 0 {
		l.Warn("tables absent from schema", zap.Strings("tables", s.Missing))
	}
}

// PostcheckResult summarizes the state after a run.
type PostcheckResult struct {
	// SeededFound counts seeded emails with a matching domain row.
	SeededFound int
	// SeededMissing counts seeded emails without one.
	SeededMissing int
	// DetachedCenters counts center-role users with no center reference.
	DetachedCenters int64
}

// Postcheck verifies that the seeded identity accounts have domain rows and
// flags center users left without a center. Findings are reported, never
// fatal; the snapshot after a run is advisory.
func (c *Checker) Postcheck(ctx context.Context, seededEmails []string) (*PostcheckResult, error) {
	res := &PostcheckResult{}
	if !c.store.TableExists("users") {
		res.SeededMissing = len(seededEmails)
		return res, nil
	}

	db := c.store.DB().WithContext(ctx)
	for _, email := range seededEmails {
		var n int64
		err := db.Table("users").
			Where("lower(email) = ?", strings.ToLower(email)).
			Count(&n).Error
		if err != nil {
			return nil, err
		}
		if n > 0 {
			res.SeededFound++
		} else {
			res.SeededMissing++
		}
	}

	if c.store.Schema().HasColumn("users", "center_id") {
		err := db.Table("users").
			Where("role = ? AND center_id IS NULL", "center").
			Count(&res.DetachedCenters).Error
		if err != nil {
			return nil, err
		}
	}

	if res.SeededMissing > 0 {
		c.log.Warn("seeded identity accounts without domain rows",
			zap.Int("count", res.SeededMissing))
	}
	if res.DetachedCenters > 0 {
		c.log.Warn("center users without a center reference",
			zap.Int64("count", res.DetachedCenters))
	}
	return res, nil
}
