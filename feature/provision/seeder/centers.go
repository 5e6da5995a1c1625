package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"seed-manager/feature/provision/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const centerEmailDomain = "seed.local"

func centerEmail(i int) string {
	return fmt.Sprintf("seed-center-%d@%s", i, centerEmailDomain)
}

// centerPayload builds the deterministic desired state for center i.
// Capability flags alternate so the catalogs exercise both filters:
// every center offers labs, odd centers also offer imaging.
func centerPayload(i int) models.Center {
	return models.Center{
		Email:          centerEmail(i),
		Name:           fmt.Sprintf("Seed Medical Center %d", i),
		Phone:          fmt.Sprintf("+20100000%04d", i),
		Address:        fmt.Sprintf("%d Seed Street, Cairo", i),
		OffersLabs:     true,
		OffersImaging:  i%2 == 1,
		ApprovalStatus: "approved",
	}
}

// provisionCenters upserts centers 1..count by email and returns the
// canonical rows (id + capability flags) for downstream joins.
func (s *Seeder) provisionCenters(ctx context.Context, report *Report) ([]models.Center, error) {
	if !s.store.TableExists("centers") {
		s.log.Warn("centers table absent, skipping center provisioning")
		return nil, nil
	}

	db := s.store.DB().WithContext(ctx)

	for i := 1; i <= s.plan.CenterCount; i++ {
		desired := centerPayload(i)

		var existing models.Center
		err := db.Where("lower(email) = ?", strings.ToLower(desired.Email)).
			Take(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			desired.ID = uuid.NewString()
			if err := db.Create(&desired).Error; err != nil {
				return nil, fmt.Errorf("failed to create center %s: %w", desired.Email, err)
			}
		case err != nil:
			return nil, fmt.Errorf("failed to look up center %s: %w", desired.Email, err)
		default:
			err := db.Model(&models.Center{}).
				Where("id = ?", existing.ID).
				Updates(map[string]any{
					"name":            desired.Name,
					"phone":           desired.Phone,
					"address":         desired.Address,
					"offers_labs":     desired.OffersLabs,
					"offers_imaging":  desired.OffersImaging,
					"approval_status": desired.ApprovalStatus,
				}).Error
			if err != nil {
				return nil, fmt.Errorf("failed to update center %s: %w", desired.Email, err)
			}
		}
	}

	// Always re-select the canonical rows, in provisioning order. The
	// comparison matches the lookup above; a pre-existing row whose email
	// differs only in case must resolve to the same center both times.
	centers := make([]models.Center, 0, s.plan.CenterCount)
	for i := 1; i <= s.plan.CenterCount; i++ {
		var row models.Center
		if err := db.Where("lower(email) = ?", centerEmail(i)).Take(&row).Error; err != nil {
			return nil, fmt.Errorf("failed to reload center %s: %w", centerEmail(i), err)
		}
		centers = append(centers, row)
	}

	report.Centers = len(centers)
	s.log.Info("provisioned centers", zap.Int("count", len(centers)))
	return centers, nil
}
