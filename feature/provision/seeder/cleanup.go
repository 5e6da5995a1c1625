package seeder

import (
	"context"
	"fmt"

	"seed-manager/feature/provision/models"

	"go.uber.org/zap"
)

// dependentTables is the fixed child-first deletion order: a topological
// sort of the foreign-key graph. Children are always deleted strictly
// before the parents they reference.
var dependentTables = []string{
	"billing",
	"appointment_reasons",
	"lab_bookings",
	"appointments",
	"medical_records",
	"procedures",
	"doctor_reviews",
	"reviews",
	"doctor_schedules",
	"doctor_availability",
	"doctor_centers",
	"doctor_certificates",
	"center_lab_schedules",
	"center_lab_services",
	"banners",
	"otp_verifications",
	"notification",
	"audit_logs",
}

// topLevelTables are deleted last, after everything referencing them is
// gone.
var topLevelTables = []string{
	"centers",
	"lab_test_types",
	"specialties",
}

func isAdminRole(role string) bool {
	return role == models.RoleAdmin || role == models.RoleSuperAdmin
}

// cleanup wipes the domain store in dependency order and returns the
// preserved admin users (empty unless the plan preserves admins). Any
// unexpected error aborts the whole phase; absent tables are skips.
func (s *Seeder) cleanup(ctx context.Context, report *Report) ([]models.User, error) {
	s.log.Info("starting cleanup", zap.Bool("preserve_admins", s.plan.PreserveAdmins))

	// Detach cross-references before any deletion, so no half-deleted
	// foreign key trips a constraint later in the phase.
	if err := s.store.NullifyColumn(ctx, "users", "center_id"); err != nil {
		return nil, err
	}
	if err := s.store.NullifyColumn(ctx, "centers", "owner_doctor_id"); err != nil {
		return nil, err
	}

	for _, table := range dependentTables {
		if err := s.store.DeleteAll(ctx, table); err != nil {
			return nil, err
		}
	}

	preserved, deleted, err := s.cleanupUsers(ctx)
	if err != nil {
		return nil, err
	}

	for _, table := range topLevelTables {
		if err := s.store.DeleteAll(ctx, table); err != nil {
			return nil, err
		}
	}

	report.Cleanup = &CleanupReport{
		UsersDeleted:    deleted,
		AdminsPreserved: len(preserved),
	}

	return preserved, nil
}

// cleanupUsers deletes user rows, optionally preserving admins, and
// reconciles the admin_users link table against the preserved set.
func (s *Seeder) cleanupUsers(ctx context.Context) ([]models.User, int, error) {
	if !s.store.TableExists("users") {
		s.log.Info("users table absent, skipping user cleanup")
		return nil, 0, nil
	}

	if !s.plan.PreserveAdmins {
		before, err := s.store.Count(ctx, "users")
		if err != nil {
			return nil, 0, err
		}
		// admin_users references users; children first.
		if err := s.store.DeleteAll(ctx, "admin_users"); err != nil {
			return nil, 0, err
		}
		if err := s.store.DeleteAll(ctx, "users"); err != nil {
			return nil, 0, err
		}
		return nil, int(before), nil
	}

	var all []models.User
	err := s.store.DB().WithContext(ctx).
		Model(&models.User{}).
		Select("id, uid, role").
		Find(&all).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users for preservation: %w", err)
	}

	var preserved []models.User
	var preservedIDs, deleteIDs []string
	for _, u := range all {
		if isAdminRole(u.Role) {
			preserved = append(preserved, u)
			preservedIDs = append(preservedIDs, u.ID)
			continue
		}
		deleteIDs = append(deleteIDs, u.ID)
	}

	if err := s.store.ChunkedDelete(ctx, "users", "id", deleteIDs); err != nil {
		return nil, 0, err
	}

	// Reconcile the link table: one negated-IN delete keeps exactly the
	// preserved admins' links. The user column is schema-discovered, same
	// as during link seeding.
	if column, ok := s.linkColumn("admin_users"); ok {
		if err := s.store.DeleteWhereNotIn(ctx, "admin_users", column, preservedIDs); err != nil {
			return nil, 0, err
		}
	}

	s.log.Info("preserved admin users", zap.Int("count", len(preserved)))
	return preserved, len(deleteIDs), nil
}
