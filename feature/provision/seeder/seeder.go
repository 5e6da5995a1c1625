package seeder

import (
	"context"

	"seed-manager/core/identity"
	"seed-manager/feature/provision/models"
	"seed-manager/feature/provision/plan"
	"seed-manager/feature/provision/store"

	"go.uber.org/zap"
)

// IdentityStore is the identity provider surface the seeder needs.
type IdentityStore interface {
	CreateOrUpdate(ctx context.Context, in identity.UpsertInput) (*identity.UpsertResult, error)
	DeleteNonAdmin(ctx context.Context, preserve map[string]struct{}) (identity.DeleteReport, error)
}

// Seeder brings the identity store and the relational store into a mutually
// consistent state according to one plan. Execution is strictly sequential;
// every mutation completes before the next is issued.
type Seeder struct {
	identity IdentityStore
	store    *store.Store
	log      *zap.Logger
	serial   *Serial
	plan     plan.Plan
}

// New creates a Seeder for one run of the given plan.
func New(ids IdentityStore, st *store.Store, log *zap.Logger, p plan.Plan) *Seeder {
	return &Seeder{
		identity: ids,
		store:    st,
		log:      log,
		serial:   NewSerial(),
		plan:     p,
	}
}

// Run executes the plan: cleanup, catalogs, centers, users, links, dependent
// relational data. Unexpected store errors abort the run; benign skips are
// counted in the report.
func (s *Seeder) Run(ctx context.Context) (*Report, error) {
	report := NewReport()

	if s.plan.Wipe {
		preserved, err := s.cleanup(ctx, report)
		if err != nil {
			return report, err
		}

		if s.plan.CleanupIdentity {
			keep := make(map[string]struct{}, len(preserved))
			for _, u := range preserved {
				if u.UID != "" {
					keep[u.UID] = struct{}{}
				}
			}
			dr, err := s.identity.DeleteNonAdmin(ctx, keep)
			if err != nil {
				return report, err
			}
			report.IdentityCleanup = &dr
		}
	}

	var testTypes []models.LabTestType
	if s.plan.SeedCatalogs {
		var err error
		testTypes, err = s.seedCatalogs(ctx, report)
		if err != nil {
			return report, err
		}
	}

	var centers []models.Center
	if s.plan.CenterCount > 0 {
		var err error
		centers, err = s.provisionCenters(ctx, report)
		if err != nil {
			return report, err
		}
	}

	users, err := s.seedUsers(ctx, report, centers)
	if err != nil {
		return report, err
	}

	admins := append([]models.User{}, users.byRole[models.RoleSuperAdmin]...)
	admins = append(admins, users.byRole[models.RoleAdmin]...)
	s.ensureLinks(ctx, "admin_users", admins, report)
	s.ensureLinks(ctx, "doctors", users.byRole[models.RoleDoctor], report)
	s.ensureLinks(ctx, "patients", users.byRole[models.RolePatient], report)

	if s.plan.SeedDoctorLinks {
		if err := s.seedDoctorLinks(ctx, users.byRole[models.RoleDoctor], centers, report); err != nil {
			return report, err
		}
	}

	if s.plan.SeedRelational {
		if err := s.seedRelational(ctx, users, centers, testTypes, report); err != nil {
			return report, err
		}
	}

	return report, nil
}
