package seeder

import (
	"context"
	"fmt"

	"seed-manager/feature/provision/models"
	"seed-manager/feature/provision/store"

	"github.com/google/uuid"
)

// specialtyCatalog returns the fixed specialty list. Ids are candidates
// only; existing rows keep theirs on upsert.
func specialtyCatalog() []models.Specialty {
	entries := []struct {
		name   string
		nameAr string
	}{
		{"Cardiology", "أمراض القلب"},
		{"Dermatology", "الأمراض الجلدية"},
		{"Pediatrics", "طب الأطفال"},
		{"Orthopedics", "جراحة العظام"},
		{"Neurology", "المخ والأعصاب"},
		{"Ophthalmology", "طب العيون"},
		{"ENT", "أنف وأذن وحنجرة"},
		{"Internal Medicine", "الباطنة"},
		{"General Surgery", "الجراحة العامة"},
		{"Psychiatry", "الطب النفسي"},
		{"Obstetrics & Gynecology", "النساء والتوليد"},
		{"Urology", "المسالك البولية"},
	}

	rows := make([]models.Specialty, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, models.Specialty{
			ID:        uuid.NewString(),
			Name:      e.name,
			NameAr:    e.nameAr,
			SortOrder: i + 1,
		})
	}
	return rows
}

// labTestCatalog returns the fixed lab-test-type list.
func labTestCatalog() []models.LabTestType {
	entries := []struct {
		code     string
		name     string
		fee      float64
		duration int
		category string
	}{
		{"CBC", "Complete Blood Count", 150, 30, models.CategoryBlood},
		{"LIPID", "Lipid Profile", 220, 30, models.CategoryBlood},
		{"GLU-F", "Fasting Blood Glucose", 90, 15, models.CategoryBlood},
		{"HBA1C", "Glycated Hemoglobin", 260, 30, models.CategoryBlood},
		{"TSH", "Thyroid Stimulating Hormone", 240, 30, models.CategoryBlood},
		{"LFT", "Liver Function Tests", 280, 30, models.CategoryBlood},
		{"KFT", "Kidney Function Tests", 250, 30, models.CategoryBlood},
		{"VIT-D", "Vitamin D Level", 420, 30, models.CategoryBlood},
		{"URINE-R", "Urine Routine Analysis", 80, 15, models.CategoryUrine},
		{"URINE-C", "Urine Culture", 160, 20, models.CategoryUrine},
		{"XRAY-CH", "Chest X-Ray", 350, 20, models.CategoryImaging},
		{"US-ABD", "Abdominal Ultrasound", 500, 30, models.CategoryImaging},
		{"MRI-KNEE", "Knee MRI", 2200, 45, models.CategoryImaging},
		{"MAMMO", "Mammography", 900, 30, models.CategoryImaging},
	}

	rows := make([]models.LabTestType, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, models.LabTestType{
			ID:              uuid.NewString(),
			Code:            e.code,
			Name:            e.name,
			Fee:             e.fee,
			DurationMinutes: e.duration,
			Category:        e.category,
		})
	}
	return rows
}

// seedCatalogs upserts both catalogs by their natural keys and returns the
// canonical lab-test-type rows for downstream joins. Re-running never
// duplicates rows or resets fields outside the supplied payload.
func (s *Seeder) seedCatalogs(ctx context.Context, report *Report) ([]models.LabTestType, error) {
	if s.store.TableExists("specialties") {
		specialties := specialtyCatalog()
		err := store.UpsertByNaturalKey(ctx, s.store, specialties,
			[]string{"name"}, []string{"name_ar", "sort_order"})
		if err != nil {
			return nil, fmt.Errorf("failed to seed specialties: %w", err)
		}
		report.Specialties = len(specialties)
	} else {
		s.log.Warn("specialties table absent, skipping catalog")
	}

	if !s.store.TableExists("lab_test_types") {
		s.log.Warn("lab_test_types table absent, skipping catalog")
		return nil, nil
	}

	tests := labTestCatalog()
	err := store.UpsertByNaturalKey(ctx, s.store, tests,
		[]string{"code"}, []string{"name", "fee", "duration_minutes", "category"})
	if err != nil {
		return nil, fmt.Errorf("failed to seed lab test types: %w", err)
	}

	// Re-select for canonical ids: rows that existed before keep theirs.
	var canonical []models.LabTestType
	err = s.store.DB().WithContext(ctx).
		Order("code").
		Find(&canonical).Error
	if err != nil {
		return nil, fmt.Errorf("failed to reload lab test types: %w", err)
	}
	report.LabTestTypes = len(canonical)

	return canonical, nil
}
