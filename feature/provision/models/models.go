package models

import "time"

// Platform role names as stored in users.role and identity metadata.
const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleCenter     = "center"
	RoleDoctor     = "doctor"
	RolePatient    = "patient"
)

// User is the domain-side user row. Its UID references the identity account
// and is the bridge between the two stores; Email is the natural key for
// upserts. CenterID is only set for center-role users once their center row
// exists.
type User struct {
	ID              string  `gorm:"type:uuid;primaryKey"`
	UID             string  `gorm:"column:uid;type:uuid;index"`
	Email           string  `gorm:"type:varchar(255);uniqueIndex"`
	Role            string  `gorm:"type:varchar(32);index"`
	Name            string  `gorm:"type:varchar(255)"`
	Phone           string  `gorm:"type:varchar(32)"`
	ApprovalStatus  string  `gorm:"type:varchar(32)"`
	CenterID        *string `gorm:"column:center_id;type:uuid"`
	PasswordHash    string  `gorm:"type:text"`
	Specialty       *string `gorm:"type:varchar(120)"`
	ConsultationFee *float64
	Bio             *string `gorm:"type:text"`
	DateOfBirth     *string `gorm:"type:varchar(10)"`
	Gender          *string `gorm:"type:varchar(10)"`
	BloodType       *string `gorm:"type:varchar(3)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (User) TableName() string { return "users" }

// Center is a medical center row, unique by email.
type Center struct {
	ID             string  `gorm:"type:uuid;primaryKey"`
	Email          string  `gorm:"type:varchar(255);uniqueIndex"`
	Name           string  `gorm:"type:varchar(255)"`
	Phone          string  `gorm:"type:varchar(32)"`
	Address        string  `gorm:"type:text"`
	OffersLabs     bool    `gorm:"column:offers_labs"`
	OffersImaging  bool    `gorm:"column:offers_imaging"`
	ApprovalStatus string  `gorm:"type:varchar(32)"`
	OwnerDoctorID  *string `gorm:"column:owner_doctor_id;type:uuid"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (Center) TableName() string { return "centers" }

// Specialty is a pure catalog row, unique by name.
type Specialty struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	Name      string `gorm:"type:varchar(120);uniqueIndex"`
	NameAr    string `gorm:"column:name_ar;type:varchar(120)"`
	SortOrder int    `gorm:"column:sort_order"`
}

func (Specialty) TableName() string { return "specialties" }

// Lab test categories.
const (
	CategoryBlood   = "blood"
	CategoryUrine   = "urine"
	CategoryImaging = "imaging"
)

// LabTestType is a pure catalog row, unique by code.
type LabTestType struct {
	ID              string  `gorm:"type:uuid;primaryKey"`
	Code            string  `gorm:"type:varchar(32);uniqueIndex"`
	Name            string  `gorm:"type:varchar(255)"`
	Fee             float64 `gorm:"column:fee"`
	DurationMinutes int     `gorm:"column:duration_minutes"`
	Category        string  `gorm:"type:varchar(32)"`
}

func (LabTestType) TableName() string { return "lab_test_types" }

// CenterLabService is a derived join row: it exists only when both parents
// exist and the center's capability flags permit the test's category.
type CenterLabService struct {
	ID            string  `gorm:"type:uuid;primaryKey"`
	CenterID      string  `gorm:"column:center_id;type:uuid;uniqueIndex:idx_center_test"`
	LabTestTypeID string  `gorm:"column:lab_test_type_id;type:uuid;uniqueIndex:idx_center_test"`
	BaseFee       float64 `gorm:"column:base_fee"`
}

func (CenterLabService) TableName() string { return "center_lab_services" }

// CenterLabSchedule is one generated row per (service, weekday) pair.
// DayOfWeek is ISO: 1 = Monday.
type CenterLabSchedule struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	CenterID      string `gorm:"column:center_id;type:uuid;uniqueIndex:idx_center_test_day"`
	LabTestTypeID string `gorm:"column:lab_test_type_id;type:uuid;uniqueIndex:idx_center_test_day"`
	DayOfWeek     int    `gorm:"column:day_of_week;uniqueIndex:idx_center_test_day"`
	StartTime     string `gorm:"column:start_time;type:varchar(5)"`
	EndTime       string `gorm:"column:end_time;type:varchar(5)"`
	BreakStart    string `gorm:"column:break_start;type:varchar(5)"`
	BreakEnd      string `gorm:"column:break_end;type:varchar(5)"`
	Slots         string `gorm:"type:text"`
}

func (CenterLabSchedule) TableName() string { return "center_lab_schedules" }

// DoctorCenter links a doctor to a center; the doctor's first link is marked
// primary.
type DoctorCenter struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	DoctorID  string `gorm:"column:doctor_id;type:uuid;uniqueIndex:idx_doctor_center"`
	CenterID  string `gorm:"column:center_id;type:uuid;uniqueIndex:idx_doctor_center"`
	IsPrimary bool   `gorm:"column:is_primary"`
}

func (DoctorCenter) TableName() string { return "doctor_centers" }

// Appointment is a sample visit row; all three parents must exist.
type Appointment struct {
	ID        string `gorm:"type:uuid;primaryKey"`
	DoctorID  string `gorm:"column:doctor_id;type:uuid"`
	PatientID string `gorm:"column:patient_id;type:uuid"`
	CenterID  string `gorm:"column:center_id;type:uuid"`
	Date      string `gorm:"type:varchar(10)"`
	StartTime string `gorm:"column:start_time;type:varchar(5)"`
	EndTime   string `gorm:"column:end_time;type:varchar(5)"`
	Status    string `gorm:"type:varchar(32)"`
	Reason    string `gorm:"type:text"`
	CreatedAt time.Time
}

func (Appointment) TableName() string { return "appointments" }

// LabBooking is a sample lab visit row.
type LabBooking struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	PatientID     string `gorm:"column:patient_id;type:uuid"`
	CenterID      string `gorm:"column:center_id;type:uuid"`
	LabTestTypeID string `gorm:"column:lab_test_type_id;type:uuid"`
	Date          string `gorm:"type:varchar(10)"`
	Status        string `gorm:"type:varchar(32)"`
	CreatedAt     time.Time
}

func (LabBooking) TableName() string { return "lab_bookings" }

// BillingRecord references either an appointment or a lab booking.
type BillingRecord struct {
	ID            string  `gorm:"type:uuid;primaryKey"`
	PatientID     string  `gorm:"column:patient_id;type:uuid"`
	AppointmentID *string `gorm:"column:appointment_id;type:uuid"`
	LabBookingID  *string `gorm:"column:lab_booking_id;type:uuid"`
	Amount        float64
	Status        string `gorm:"type:varchar(32)"`
	CreatedAt     time.Time
}

func (BillingRecord) TableName() string { return "billing" }
