package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seed-manager/core/database"
	"seed-manager/core/identity"
	"seed-manager/feature/provision/models"
	"seed-manager/feature/provision/plan"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const userEmailDomain = "seed.local"

var roleTitles = map[string]string{
	models.RoleSuperAdmin: "Super Admin",
	models.RoleAdmin:      "Admin",
	models.RoleCenter:     "Center Manager",
	models.RoleDoctor:     "Doctor",
	models.RolePatient:    "Patient",
}

var bloodTypes = []string{"O+", "A+", "B+", "AB+", "O-", "A-", "B-", "AB-"}

// seededUsers carries the canonical provisioned rows for downstream phases.
type seededUsers struct {
	byRole map[string][]models.User
}

// seedUsers provisions every requested role group: identity account first,
// then the role-shaped domain row. The password is hashed once per role
// batch; all seeded accounts of a role share the same initial password.
func (s *Seeder) seedUsers(ctx context.Context, report *Report, centers []models.Center) (*seededUsers, error) {
	out := &seededUsers{byRole: make(map[string][]models.User)}

	domainAvailable := s.store.TableExists("users")
	if !domainAvailable {
		s.log.Warn("users table absent, identity accounts will have no domain rows")
	}

	for _, role := range plan.RoleOrder {
		count := s.plan.RoleCounts[role]
		if count == 0 {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(s.plan.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for role %s: %w", role, err)
		}

		counters := report.role(role)
		for i := 0; i < count; i++ {
			serial := s.serial.Next()
			email := fmt.Sprintf("seed-%s-%s@%s",
				strings.ReplaceAll(role, "_", "-"), serial, userEmailDomain)
			name := fmt.Sprintf("Seed %s %d", roleTitles[role], i+1)
			phone := "+10" + serial

			result, err := s.identity.CreateOrUpdate(ctx, identity.UpsertInput{
				Email:    email,
				Password: s.plan.Password,
				Role:     role,
				Metadata: map[string]any{
					"full_name": name,
					"seeded":    true,
				},
			})
			if err != nil {
				return nil, err
			}
			if result.Action == identity.ActionCreated {
				counters.IdentityCreated++
			} else {
				counters.IdentityUpdated++
			}
			report.SeededEmails = append(report.SeededEmails, email)

			if !domainAvailable {
				report.Orphans++
				continue
			}

			row := buildUserRow(role, i, result.ID, email, name, phone, string(hash), centers)
			if err := s.upsertUserRow(ctx, &row, counters); err != nil {
				kind := database.Classify(err)
				if database.IsBenign(kind) {
					// The identity account stays; the postcheck surfaces
					// the gap. No compensating deletion.
					report.Orphans++
					s.log.Warn("domain row write failed, identity account left orphaned",
						zap.String("email", email),
						zap.String("kind", kind.String()),
						zap.Error(err),
					)
					continue
				}
				return nil, err
			}

			out.byRole[role] = append(out.byRole[role], row)
		}
	}

	return out, nil
}

// buildUserRow shapes the domain payload per role. Doctors get specialty,
// fee and bio; patients get demographic placeholders; center users are
// attached to a provisioned center when one exists.
func buildUserRow(role string, i int, uid, email, name, phone, passwordHash string, centers []models.Center) models.User {
	row := models.User{
		ID:             uid,
		UID:            uid,
		Email:          email,
		Role:           role,
		Name:           name,
		Phone:          phone,
		ApprovalStatus: "approved",
		PasswordHash:   passwordHash,
	}

	switch role {
	case models.RoleDoctor:
		specialties := specialtyCatalog()
		specialty := specialties[i%len(specialties)].Name
		fee := 150 + float64(i%5)*50
		bio := fmt.Sprintf("Seeded %s with %d years of experience.", specialty, 3+i%12)
		row.Specialty = &specialty
		row.ConsultationFee = &fee
		row.Bio = &bio
	case models.RolePatient:
		dob := fmt.Sprintf("%d-%02d-15", 1970+i%30, 1+i%12)
		gender := "male"
		if i%2 == 1 {
			gender = "female"
		}
		blood := bloodTypes[i%len(bloodTypes)]
		row.DateOfBirth = &dob
		row.Gender = &gender
		row.BloodType = &blood
	case models.RoleCenter:
		if len(centers) > 0 {
			centerID := centers[i%len(centers)].ID
			row.CenterID = &centerID
		}
	}

	return row
}

// upsertUserRow writes the domain row keyed by email. An existing row keeps
// its primary key; row.ID is rewritten to the canonical value.
func (s *Seeder) upsertUserRow(ctx context.Context, row *models.User, counters *RoleCounters) error {
	db := s.store.DB().WithContext(ctx)

	var existing models.User
	err := db.Select("id").
		Where("lower(email) = ?", strings.ToLower(row.Email)).
		Take(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := db.Create(row).Error; err != nil {
			return err
		}
		counters.DomainCreated++
		return nil
	case err != nil:
		return err
	}

	updates := map[string]any{
		"uid":              row.UID,
		"role":             row.Role,
		"name":             row.Name,
		"phone":            row.Phone,
		"approval_status":  row.ApprovalStatus,
		"password_hash":    row.PasswordHash,
		"specialty":        row.Specialty,
		"consultation_fee": row.ConsultationFee,
		"bio":              row.Bio,
		"date_of_birth":    row.DateOfBirth,
		"gender":           row.Gender,
		"blood_type":       row.BloodType,
		"center_id":        row.CenterID,
	}
	if err := db.Model(&models.User{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return err
	}
	row.ID = existing.ID
	counters.DomainUpdated++
	return nil
}
