package seeder

import (
	"seed-manager/core/identity"

	"go.uber.org/zap"
)

// RoleCounters accumulates per-role created/updated counts for both stores.
type RoleCounters struct {
	IdentityCreated int
	IdentityUpdated int
	DomainCreated   int
	DomainUpdated   int
}

// CleanupReport summarizes the cleanup phase.
type CleanupReport struct {
	// UsersDeleted counts domain user rows removed.
	UsersDeleted int
	// AdminsPreserved counts admin/super_admin rows kept.
	AdminsPreserved int
}

// Report aggregates everything one run did, for operator visibility.
type Report struct {
	Cleanup         *CleanupReport
	IdentityCleanup *identity.DeleteReport

	Roles map[string]*RoleCounters
	// SeededEmails lists every identity account touched this run, in order.
	SeededEmails []string
	// Orphans counts identity accounts whose domain row write failed. They
	// are not compensated; the postcheck surfaces them.
	Orphans int

	Specialties  int
	LabTestTypes int
	Centers      int

	LinksInserted int
	LinksSkipped  int
	DoctorLinks   int

	Services     int
	Schedules    int
	Appointments int
	LabBookings  int
	Billing      int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{Roles: make(map[string]*RoleCounters)}
}

func (r *Report) role(name string) *RoleCounters {
	c, ok := r.Roles[name]
	if !ok {
		c = &RoleCounters{}
		r.Roles[name] = c
	}
	return c
}

// Log writes the run summary through the logger.
func (r *Report) Log(l *zap.Logger) {
	if r.Cleanup != nil {
		l.Info("cleanup summary",
			zap.Int("users_deleted", r.Cleanup.UsersDeleted),
			zap.Int("admins_preserved", r.Cleanup.AdminsPreserved),
		)
	}
	if r.IdentityCleanup != nil {
		l.Info("identity cleanup summary",
			zap.Int("deleted", r.IdentityCleanup.Deleted),
			zap.Int("preserved", r.IdentityCleanup.Preserved),
			zap.Int("failed", r.IdentityCleanup.Failed),
		)
	}

	for name, c := range r.Roles {
		l.Info("role summary",
			zap.String("role", name),
			zap.Int("identity_created", c.IdentityCreated),
			zap.Int("identity_updated", c.IdentityUpdated),
			zap.Int("domain_created", c.DomainCreated),
			zap.Int("domain_updated", c.DomainUpdated),
		)
	}

	l.Info("catalog summary",
		zap.Int("specialties", r.Specialties),
		zap.Int("lab_test_types", r.LabTestTypes),
		zap.Int("centers", r.Centers),
	)
	l.Info("relational summary",
		zap.Int("services", r.Services),
		zap.Int("schedules", r.Schedules),
		zap.Int("doctor_links", r.DoctorLinks),
		zap.Int("appointments", r.Appointments),
		zap.Int("lab_bookings", r.LabBookings),
		zap.Int("billing", r.Billing),
	)
	l.Info("link summary",
		zap.Int("inserted", r.LinksInserted),
		zap.Int("skipped", r.LinksSkipped),
	)
	if r.Orphans > 0 {
		l.Warn("identity accounts left without domain rows", zap.Int("count", r.Orphans))
	}
}
