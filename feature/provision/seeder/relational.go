package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"seed-manager/feature/provision/models"
	"seed-manager/feature/provision/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Schedule template shared by every generated (service, weekday) row.
const (
	scheduleStart = "08:00"
	scheduleEnd   = "17:00"
	lunchStart    = "12:00"
	lunchEnd      = "13:00"
)

// weekdaySlots returns the fixed half-hour slot starts between opening and
// closing, excluding the lunch window.
func weekdaySlots() []string {
	var slots []string
	for hour := 8; hour < 17; hour++ {
		if hour == 12 {
			continue
		}
		slots = append(slots, fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%02d:30", hour))
	}
	return slots
}

// boundedIndex returns min(i, n-1): pools smaller than the sample template
// reuse their last element instead of going out of range.
func boundedIndex(i, n int) int {
	if i < n {
		return i
	}
	return n - 1
}

// buildCenterServices cross-joins centers and lab test types, filtered by
// each center's capability flags: imaging tests require offers_imaging,
// everything else requires offers_labs.
func buildCenterServices(centers []models.Center, tests []models.LabTestType) []models.CenterLabService {
	var services []models.CenterLabService
	for _, center := range centers {
		for _, test := range tests {
			if test.Category == models.CategoryImaging {
				if !center.OffersImaging {
					continue
				}
			} else if !center.OffersLabs {
				continue
			}
			services = append(services, models.CenterLabService{
				ID:            uuid.NewString(),
				CenterID:      center.ID,
				LabTestTypeID: test.ID,
				BaseFee:       test.Fee,
			})
		}
	}
	return services
}

// buildServiceSchedules expands each service into one row per weekday
// (Monday through Friday) using the fixed slot template.
func buildServiceSchedules(services []models.CenterLabService) []models.CenterLabSchedule {
	slots := strings.Join(weekdaySlots(), ",")

	var schedules []models.CenterLabSchedule
	for _, service := range services {
		for day := 1; day <= 5; day++ {
			schedules = append(schedules, models.CenterLabSchedule{
				ID:            uuid.NewString(),
				CenterID:      service.CenterID,
				LabTestTypeID: service.LabTestTypeID,
				DayOfWeek:     day,
				StartTime:     scheduleStart,
				EndTime:       scheduleEnd,
				BreakStart:    lunchStart,
				BreakEnd:      lunchEnd,
				Slots:         slots,
			})
		}
	}
	return schedules
}

// buildDoctorCenterLinks assigns doctors round-robin over the available
// centers. Each doctor's first (and here only) assignment is primary.
func buildDoctorCenterLinks(doctors []models.User, centers []models.Center) []models.DoctorCenter {
	if len(centers) == 0 {
		return nil
	}
	links := make([]models.DoctorCenter, 0, len(doctors))
	for i, doctor := range doctors {
		links = append(links, models.DoctorCenter{
			ID:        uuid.NewString(),
			DoctorID:  doctor.ID,
			CenterID:  centers[i%len(centers)].ID,
			IsPrimary: true,
		})
	}
	return links
}

// buildSampleRecords constructs sample appointments, one lab booking, and
// billing rows referencing them. Rows are only built when every referenced
// parent exists; index selection is bounds-safe for small pools.
func buildSampleRecords(
	doctors, patients []models.User,
	centers []models.Center,
	tests []models.LabTestType,
	today time.Time,
) ([]models.Appointment, []models.LabBooking, []models.BillingRecord) {
	var appointments []models.Appointment
	var bookings []models.LabBooking
	var bills []models.BillingRecord

	if len(doctors) > 0 && len(patients) > 0 && len(centers) > 0 {
		for i := 0; i < 2; i++ {
			appointments = append(appointments, models.Appointment{
				ID:        uuid.NewString(),
				DoctorID:  doctors[boundedIndex(i, len(doctors))].ID,
				PatientID: patients[boundedIndex(i, len(patients))].ID,
				CenterID:  centers[boundedIndex(i, len(centers))].ID,
				Date:      today.AddDate(0, 0, i+1).Format("2006-01-02"),
				StartTime: fmt.Sprintf("%02d:00", 10+i),
				EndTime:   fmt.Sprintf("%02d:30", 10+i),
				Status:    "confirmed",
				Reason:    "General consultation",
			})
		}
	}

	if len(patients) > 0 && len(centers) > 0 && len(tests) > 0 {
		bookings = append(bookings, models.LabBooking{
			ID:            uuid.NewString(),
			PatientID:     patients[boundedIndex(2, len(patients))].ID,
			CenterID:      centers[0].ID,
			LabTestTypeID: tests[0].ID,
			Date:          today.AddDate(0, 0, 3).Format("2006-01-02"),
			Status:        "scheduled",
		})
	}

	if len(appointments) > 0 {
		first := appointments[0]
		bills = append(bills, models.BillingRecord{
			ID:            uuid.NewString(),
			PatientID:     first.PatientID,
			AppointmentID: &first.ID,
			Amount:        300,
			Status:        "paid",
		})
	}
	if len(bookings) > 0 {
		booking := bookings[0]
		bills = append(bills, models.BillingRecord{
			ID:           uuid.NewString(),
			PatientID:    booking.PatientID,
			LabBookingID: &booking.ID,
			Amount:       tests[0].Fee,
			Status:       "pending",
		})
	}

	return appointments, bookings, bills
}

// seedDoctorLinks writes the round-robin doctor-center assignments.
func (s *Seeder) seedDoctorLinks(ctx context.Context, doctors []models.User, centers []models.Center, report *Report) error {
	if !s.store.TableExists("doctor_centers") {
		s.log.Info("doctor_centers table absent, skipping")
		return nil
	}

	links := buildDoctorCenterLinks(doctors, centers)
	err := store.UpsertByNaturalKey(ctx, s.store, links,
		[]string{"doctor_id", "center_id"}, []string{"is_primary"})
	if err != nil {
		return fmt.Errorf("failed to seed doctor-center links: %w", err)
	}
	report.DoctorLinks = len(links)
	return nil
}

// seedRelational writes the dependent rows: capability-filtered services,
// their weekday schedules, and the sample appointment/booking/billing set.
func (s *Seeder) seedRelational(ctx context.Context, users *seededUsers, centers []models.Center, tests []models.LabTestType, report *Report) error {
	db := s.store.DB().WithContext(ctx)

	if s.store.TableExists("center_lab_services") {
		services := buildCenterServices(centers, tests)
		err := store.UpsertByNaturalKey(ctx, s.store, services,
			[]string{"center_id", "lab_test_type_id"}, []string{"base_fee"})
		if err != nil {
			return fmt.Errorf("failed to seed center services: %w", err)
		}
		report.Services = len(services)

		if s.store.TableExists("center_lab_schedules") {
			schedules := buildServiceSchedules(services)
			err := store.UpsertByNaturalKey(ctx, s.store, schedules,
				[]string{"center_id", "lab_test_type_id", "day_of_week"},
				[]string{"start_time", "end_time", "break_start", "break_end", "slots"})
			if err != nil {
				return fmt.Errorf("failed to seed center schedules: %w", err)
			}
			report.Schedules = len(schedules)
		}
	} else {
		s.log.Info("center_lab_services table absent, skipping services")
	}

	appointments, bookings, bills := buildSampleRecords(
		users.byRole[models.RoleDoctor],
		users.byRole[models.RolePatient],
		centers, tests, time.Now(),
	)

	if len(appointments) > 0 && s.store.TableExists("appointments") {
		if err := db.Create(&appointments).Error; err != nil {
			return fmt.Errorf("failed to seed appointments: %w", err)
		}
		report.Appointments = len(appointments)
	}
	if len(bookings) > 0 && s.store.TableExists("lab_bookings") {
		if err := db.Create(&bookings).Error; err != nil {
			return fmt.Errorf("failed to seed lab bookings: %w", err)
		}
		report.LabBookings = len(bookings)
	}
	if len(bills) > 0 && s.store.TableExists("billing") {
		if err := db.Create(&bills).Error; err != nil {
			return fmt.Errorf("failed to seed billing records: %w", err)
		}
		report.Billing = len(bills)
	}

	s.log.Info("seeded relational data",
		zap.Int("services", report.Services),
		zap.Int("schedules", report.Schedules),
		zap.Int("appointments", report.Appointments),
		zap.Int("lab_bookings", report.LabBookings),
		zap.Int("billing", report.Billing),
	)
	return nil
}
