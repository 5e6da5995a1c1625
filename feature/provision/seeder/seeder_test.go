package seeder

import (
	"context"
	"fmt"
	"testing"

	"seed-manager/core/database"
	"seed-manager/core/identity"
	"seed-manager/feature/provision/models"
	"seed-manager/feature/provision/plan"
	"seed-manager/feature/provision/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeIdentity implements IdentityStore in memory.
type fakeIdentity struct {
	accounts map[string]string // email -> uid
	deletes  int
	preserve map[string]struct{}
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: make(map[string]string)}
}

func (f *fakeIdentity) CreateOrUpdate(_ context.Context, in identity.UpsertInput) (*identity.UpsertResult, error) {
	if uid, ok := f.accounts[in.Email]; ok {
		return &identity.UpsertResult{ID: uid, Action: identity.ActionUpdated}, nil
	}
	uid := uuid.NewString()
	f.accounts[in.Email] = uid
	return &identity.UpsertResult{ID: uid, Action: identity.ActionCreated}, nil
}

func (f *fakeIdentity) DeleteNonAdmin(_ context.Context, preserve map[string]struct{}) (identity.DeleteReport, error) {
	f.deletes++
	f.preserve = preserve
	report := identity.DeleteReport{}
	for email, uid := range f.accounts {
		if _, keep := preserve[uid]; keep {
			report.Preserved++
			continue
		}
		delete(f.accounts, email)
		report.Deleted++
	}
	return report, nil
}

// setupSeederDB creates an in-memory SQLite DB carrying the full seeded
// schema. admin_users deliberately uses a uid column so the link phase has
// to fall back past user_id.
func setupSeederDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE users (
			id TEXT PRIMARY KEY,
			uid TEXT,
			email TEXT UNIQUE,
			role TEXT,
			name TEXT,
			phone TEXT,
			approval_status TEXT,
			center_id TEXT,
			password_hash TEXT,
			specialty TEXT,
			consultation_fee REAL,
			bio TEXT,
			date_of_birth TEXT,
			gender TEXT,
			blood_type TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE admin_users (uid TEXT PRIMARY KEY)`,
		`CREATE TABLE doctors (user_id TEXT PRIMARY KEY)`,
		`CREATE TABLE patients (user_id TEXT PRIMARY KEY)`,
		`CREATE TABLE specialties (
			id TEXT PRIMARY KEY,
			name TEXT UNIQUE,
			name_ar TEXT,
			sort_order INTEGER
		)`,
		`CREATE TABLE lab_test_types (
			id TEXT PRIMARY KEY,
			code TEXT UNIQUE,
			name TEXT,
			fee REAL,
			duration_minutes INTEGER,
			category TEXT
		)`,
		`CREATE TABLE centers (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE,
			name TEXT,
			phone TEXT,
			address TEXT,
			offers_labs BOOLEAN,
			offers_imaging BOOLEAN,
			approval_status TEXT,
			owner_doctor_id TEXT,
			created_at DATETIME,
			updated_at DATETIME
		)`,
		`CREATE TABLE center_lab_services (
			id TEXT PRIMARY KEY,
			center_id TEXT,
			lab_test_type_id TEXT,
			base_fee REAL,
			UNIQUE (center_id, lab_test_type_id)
		)`,
		`CREATE TABLE center_lab_schedules (
			id TEXT PRIMARY KEY,
			center_id TEXT,
			lab_test_type_id TEXT,
			day_of_week INTEGER,
			start_time TEXT,
			end_time TEXT,
			break_start TEXT,
			break_end TEXT,
			slots TEXT,
			UNIQUE (center_id, lab_test_type_id, day_of_week)
		)`,
		`CREATE TABLE doctor_centers (
			id TEXT PRIMARY KEY,
			doctor_id TEXT,
			center_id TEXT,
			is_primary BOOLEAN,
			UNIQUE (doctor_id, center_id)
		)`,
		`CREATE TABLE appointments (
			id TEXT PRIMARY KEY,
			doctor_id TEXT,
			patient_id TEXT,
			center_id TEXT,
			date TEXT,
			start_time TEXT,
			end_time TEXT,
			status TEXT,
			reason TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE lab_bookings (
			id TEXT PRIMARY KEY,
			patient_id TEXT,
			center_id TEXT,
			lab_test_type_id TEXT,
			date TEXT,
			status TEXT,
			created_at DATETIME
		)`,
		`CREATE TABLE billing (
			id TEXT PRIMARY KEY,
			patient_id TEXT,
			appointment_id TEXT,
			lab_booking_id TEXT,
			amount REAL,
			status TEXT,
			created_at DATETIME
		)`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func newTestSeeder(t *testing.T, db *gorm.DB, ids IdentityStore, p plan.Plan) *Seeder {
	t.Helper()
	schema, err := database.LoadSchema(db)
	require.NoError(t, err)
	return New(ids, store.New(db, schema, zap.NewNop()), zap.NewNop(), p)
}

func scenarioPlan() plan.Plan {
	return plan.Plan{
		Wipe:            true,
		CleanupIdentity: true,
		RoleCounts: map[string]int{
			models.RoleCenter:  1,
			models.RoleDoctor:  2,
			models.RolePatient: 3,
		},
		SeedCatalogs:    true,
		CenterCount:     1,
		SeedDoctorLinks: true,
		SeedRelational:  true,
		Password:        "Seed@12345",
	}
}

func TestSeederRun_Scenario(t *testing.T) {
	db := setupSeederDB(t, "seeder_scenario")
	ids := newFakeIdentity()
	s := newTestSeeder(t, db, ids, scenarioPlan())

	report, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, len(ids.accounts), "one identity account per seeded user")
	assert.Len(t, report.SeededEmails, 6)
	assert.Zero(t, report.Orphans)

	count := func(table string) int64 {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		return n
	}

	assert.EqualValues(t, 12, count("specialties"))
	assert.EqualValues(t, 14, count("lab_test_types"))
	assert.EqualValues(t, 1, count("centers"))
	assert.EqualValues(t, 6, count("users"))

	// Center 1 offers labs and imaging: every catalog test is a service.
	assert.EqualValues(t, 14, count("center_lab_services"))
	assert.EqualValues(t, 14*5, count("center_lab_schedules"))
	assert.EqualValues(t, 2, count("doctor_centers"))

	// The sample record set is fixed.
	assert.EqualValues(t, 2, count("appointments"))
	assert.EqualValues(t, 1, count("lab_bookings"))
	assert.EqualValues(t, 2, count("billing"))

	var bills []models.BillingRecord
	require.NoError(t, db.Order("created_at").Find(&bills).Error)
	require.Len(t, bills, 2)
	var apptBill, bookingBill *models.BillingRecord
	for i := range bills {
		if bills[i].AppointmentID != nil {
			apptBill = &bills[i]
		}
		if bills[i].LabBookingID != nil {
			bookingBill = &bills[i]
		}
	}
	require.NotNil(t, apptBill, "one bill references an appointment")
	require.NotNil(t, bookingBill, "one bill references a lab booking")

	// Link tables were filled through their actual column shapes.
	assert.EqualValues(t, 2, count("doctors"))
	assert.EqualValues(t, 3, count("patients"))
}

func TestSeederRun_Idempotent(t *testing.T) {
	db := setupSeederDB(t, "seeder_idempotent")
	ids := newFakeIdentity()
	p := scenarioPlan()
	// Second run without a wipe must converge, not duplicate.
	s1 := newTestSeeder(t, db, ids, p)
	_, err := s1.Run(context.Background())
	require.NoError(t, err)

	p.Wipe = false
	p.CleanupIdentity = false
	p.RoleCounts = map[string]int{} // catalogs and centers only
	s2 := newTestSeeder(t, db, ids, p)
	report, err := s2.Run(context.Background())
	require.NoError(t, err)

	count := func(table string) int64 {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		return n
	}
	assert.EqualValues(t, 12, count("specialties"))
	assert.EqualValues(t, 14, count("lab_test_types"))
	assert.EqualValues(t, 1, count("centers"))
	assert.EqualValues(t, 14, count("center_lab_services"))
	assert.Equal(t, 12, report.Specialties)

	// Catalog ids survived the second upsert.
	var tests []models.LabTestType
	require.NoError(t, db.Order("code").Find(&tests).Error)
	assert.Len(t, tests, 14)
}

func TestSeederRun_PreservesAdmins(t *testing.T) {
	db := setupSeederDB(t, "seeder_preserve")
	ids := newFakeIdentity()

	// Pre-existing state: one patient to delete, two admins to keep.
	adminUID := uuid.NewString()
	superUID := uuid.NewString()
	rows := []models.User{
		{ID: uuid.NewString(), UID: uuid.NewString(), Email: "old-patient@x.test", Role: models.RolePatient},
		{ID: adminUID, UID: adminUID, Email: "old-admin@x.test", Role: models.RoleAdmin},
		{ID: superUID, UID: superUID, Email: "old-super@x.test", Role: models.RoleSuperAdmin},
	}
	require.NoError(t, db.Create(&rows).Error)
	ids.accounts["old-patient@x.test"] = rows[0].UID
	ids.accounts["old-admin@x.test"] = adminUID
	ids.accounts["old-super@x.test"] = superUID

	p := plan.Plan{
		Wipe:            true,
		PreserveAdmins:  true,
		CleanupIdentity: true,
		RoleCounts:      map[string]int{models.RolePatient: 1},
		Password:        "Seed@12345",
	}
	s := newTestSeeder(t, db, ids, p)

	report, err := s.Run(context.Background())
	require.NoError(t, err)

	require.NotNil(t, report.Cleanup)
	assert.Equal(t, 1, report.Cleanup.UsersDeleted)
	assert.Equal(t, 2, report.Cleanup.AdminsPreserved)

	var emails []string
	require.NoError(t, db.Model(&models.User{}).Order("email").Pluck("email", &emails).Error)
	assert.Contains(t, emails, "old-admin@x.test")
	assert.Contains(t, emails, "old-super@x.test")
	assert.NotContains(t, emails, "old-patient@x.test")

	// The preserved admin uids reached the identity cleanup untouched.
	require.NotNil(t, report.IdentityCleanup)
	_, ok := ids.preserve[adminUID]
	assert.True(t, ok)
	_, ok = ids.preserve[superUID]
	assert.True(t, ok)
	assert.Equal(t, 2, report.IdentityCleanup.Preserved)
	assert.Equal(t, 1, report.IdentityCleanup.Deleted)
	_, gone := ids.accounts["old-patient@x.test"]
	assert.False(t, gone)
}

func TestSeederRun_WipeClearsDependentsBeforeParents(t *testing.T) {
	db := setupSeederDB(t, "seeder_wipe")
	ids := newFakeIdentity()

	// Pre-existing cross-referencing state.
	require.NoError(t, db.Exec(
		`INSERT INTO centers (id, email, owner_doctor_id) VALUES ('c1', 'old@x.test', 'd1')`,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO users (id, uid, email, role, center_id) VALUES
			('d1', 'd1', 'doc@x.test', 'doctor', NULL),
			('cu', 'cu', 'center@x.test', 'center', 'c1')`,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO appointments (id, doctor_id, patient_id, center_id) VALUES ('a1', 'd1', 'p1', 'c1')`,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO billing (id, patient_id, appointment_id) VALUES ('b1', 'p1', 'a1')`,
	).Error)
	require.NoError(t, db.Exec(
		`INSERT INTO lab_bookings (id, patient_id, center_id) VALUES ('lb1', 'p1', 'c1')`,
	).Error)

	p := plan.Plan{Wipe: true, Password: "Seed@12345"}
	s := newTestSeeder(t, db, ids, p)

	report, err := s.Run(context.Background())
	require.NoError(t, err)

	count := func(table string) int64 {
		var n int64
		require.NoError(t, db.Table(table).Count(&n).Error)
		return n
	}
	for _, table := range []string{
		"billing", "appointments", "lab_bookings", "users", "centers",
		"specialties", "lab_test_types",
	} {
		assert.Zero(t, count(table), "table %s must be empty after wipe", table)
	}

	require.NotNil(t, report.Cleanup)
	assert.Equal(t, 2, report.Cleanup.UsersDeleted)
	assert.Zero(t, report.Cleanup.AdminsPreserved)
}

func TestSeederRun_CenterEmailCaseInsensitive(t *testing.T) {
	db := setupSeederDB(t, "seeder_center_case")
	ids := newFakeIdentity()

	// A center created elsewhere with different email casing must be found,
	// updated, and re-selected as the same row.
	require.NoError(t, db.Exec(
		`INSERT INTO centers (id, email, name) VALUES ('c1', 'Seed-Center-1@seed.local', 'Old Name')`,
	).Error)

	p := plan.Plan{CenterCount: 1, Password: "Seed@12345"}
	s := newTestSeeder(t, db, ids, p)

	report, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Centers)

	var centers []models.Center
	require.NoError(t, db.Find(&centers).Error)
	require.Len(t, centers, 1, "no duplicate center for the same email in a different case")
	assert.Equal(t, "c1", centers[0].ID)
	assert.Equal(t, "Seed Medical Center 1", centers[0].Name)
}

func TestSeederRun_DomainFailureLeavesOrphan(t *testing.T) {
	// A users table whose constraints reject some role payloads: doctors
	// carry no blood type, so their inserts violate the NOT NULL.
	dsn := "file:seeder_orphan?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Exec(`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		uid TEXT,
		email TEXT UNIQUE,
		role TEXT,
		name TEXT,
		phone TEXT,
		approval_status TEXT,
		center_id TEXT,
		password_hash TEXT,
		specialty TEXT,
		consultation_fee REAL,
		bio TEXT,
		date_of_birth TEXT,
		gender TEXT,
		blood_type TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`).Error)

	ids := newFakeIdentity()
	p := plan.Plan{
		RoleCounts: map[string]int{
			models.RoleDoctor:  2,
			models.RolePatient: 1,
		},
		Password: "Seed@12345",
	}
	s := newTestSeeder(t, db, ids, p)

	report, err := s.Run(context.Background())
	require.NoError(t, err, "a benign domain failure must not abort the run")

	// Both doctor domain rows failed; the identity accounts stay.
	assert.Equal(t, 2, report.Orphans)
	assert.Equal(t, 3, len(ids.accounts))
	assert.Len(t, report.SeededEmails, 3)

	doctors := report.Roles[models.RoleDoctor]
	require.NotNil(t, doctors)
	assert.Equal(t, 2, doctors.IdentityCreated)
	assert.Zero(t, doctors.DomainCreated)
	assert.Zero(t, doctors.DomainUpdated)

	// The patient role is seeded after doctors and must still land.
	patients := report.Roles[models.RolePatient]
	require.NotNil(t, patients)
	assert.Equal(t, 1, patients.DomainCreated)

	var n int64
	require.NoError(t, db.Table("users").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestSeederRun_ReRunUpdatesInsteadOfDuplicating(t *testing.T) {
	db := setupSeederDB(t, "seeder_rerun")
	ids := newFakeIdentity()

	p := plan.Plan{
		SeedCatalogs: true,
		CenterCount:  2,
		Password:     "Seed@12345",
	}

	s1 := newTestSeeder(t, db, ids, p)
	_, err := s1.Run(context.Background())
	require.NoError(t, err)

	var first []models.Center
	require.NoError(t, db.Order("email").Find(&first).Error)
	require.Len(t, first, 2)

	s2 := newTestSeeder(t, db, ids, p)
	_, err = s2.Run(context.Background())
	require.NoError(t, err)

	var second []models.Center
	require.NoError(t, db.Order("email").Find(&second).Error)
	require.Len(t, second, 2)
	assert.Equal(t, first[0].ID, second[0].ID, "center ids are stable across runs")
	assert.Equal(t, first[1].ID, second[1].ID)
}
