package plan

import "seed-manager/feature/provision/models"

// RoleOrder is the stable provisioning order: privileged accounts first,
// then centers (so center users can be linked), then doctors and patients.
var RoleOrder = []string{
	models.RoleSuperAdmin,
	models.RoleAdmin,
	models.RoleCenter,
	models.RoleDoctor,
	models.RolePatient,
}

// DefaultRoleCounts are the per-role counts offered to the operator.
var DefaultRoleCounts = map[string]int{
	models.RoleSuperAdmin: 1,
	models.RoleAdmin:      2,
	models.RoleCenter:     3,
	models.RoleDoctor:     5,
	models.RolePatient:    10,
}

// Plan is the execution plan for one seeding run. It is collected
// interactively or taken from a fixed preset; the orchestrator never asks
// anything further.
type Plan struct {
	// Wipe requests the full cleanup phase before provisioning.
	Wipe bool
	// PreserveAdmins keeps admin/super_admin rows and their links across a
	// wipe.
	PreserveAdmins bool
	// CleanupIdentity deletes non-admin identity accounts during cleanup.
	CleanupIdentity bool
	// RoleCounts maps each requested role to the number of accounts to seed.
	RoleCounts map[string]int
	// SeedCatalogs seeds the specialty and lab-test-type catalogs.
	SeedCatalogs bool
	// CenterCount is the number of centers to provision.
	CenterCount int
	// SeedDoctorLinks assigns doctors to centers round-robin.
	SeedDoctorLinks bool
	// SeedRelational seeds services, schedules and sample
	// appointments/bookings/billing.
	SeedRelational bool
	// Password is assigned to every seeded account.
	Password string
}

// SafePreset returns the conservative non-interactive plan: admin and
// super_admin accounts plus both catalogs, no wipe, no identity cleanup, no
// dependent data.
func SafePreset(password string) Plan {
	return Plan{
		Wipe:            false,
		PreserveAdmins:  true,
		CleanupIdentity: false,
		RoleCounts: map[string]int{
			models.RoleSuperAdmin: 1,
			models.RoleAdmin:      1,
		},
		SeedCatalogs:    true,
		CenterCount:     0,
		SeedDoctorLinks: false,
		SeedRelational:  false,
		Password:        password,
	}
}

// TotalUsers returns the number of accounts the plan will touch.
func (p *Plan) TotalUsers() int {
	total := 0
	for _, n := range p.RoleCounts {
		total += n
	}
	return total
}
